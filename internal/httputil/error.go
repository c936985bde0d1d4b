package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
)

type errorBody struct {
	Error  string `json:"error"`
	CupIDs []int  `json:"cup_ids,omitempty"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	WriteJSON(w, http.StatusNotFound, errorBody{Error: msg})
}

func Unauthorized(w http.ResponseWriter, msg string) {
	slog.Warn("unauthorized", "message", msg)
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}

// Error writes the response matching a domain error. msg is logged for
// anything that is not a domain error.
func Error(w http.ResponseWriter, msg string, err error) {
	var conflict *game.ConflictError
	switch {
	case errors.As(err, &conflict):
		slog.Warn("conflict", "message", msg, "cup_ids", conflict.CupIDs)
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: conflict.Error(), CupIDs: conflict.CupIDs})
	case errors.Is(err, game.ErrNotFound):
		NotFound(w, err.Error(), nil)
	case errors.Is(err, game.ErrInvalidInput), errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrConflict):
		BadRequest(w, err.Error(), nil)
	default:
		InternalServerError(w, msg, err)
	}
}
