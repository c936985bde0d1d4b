package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// ConflictError lists wire cup ids that already have a hitter in the ledger.
type ConflictError struct {
	CupIDs []int
}

func (e *ConflictError) Error() string {
	ids := make([]string, len(e.CupIDs))
	for i, id := range e.CupIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("cups already made: %s", strings.Join(ids, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
