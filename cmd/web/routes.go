package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/AdamBeresnev/pong-tracker/internal/game"
	"github.com/AdamBeresnev/pong-tracker/internal/httputil"
	"github.com/AdamBeresnev/pong-tracker/internal/metrics"
	"github.com/AdamBeresnev/pong-tracker/internal/middleware"
	"github.com/AdamBeresnev/pong-tracker/internal/service"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
	"github.com/AdamBeresnev/pong-tracker/views"
)

type routerConfig struct {
	DB             *sqlx.DB
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	// Writes need a valid token when set
	JWTSecret      string
	AutoRackStatus bool
}

type startGameRequest struct {
	GameSettings struct {
		GameMode game.Mode `json:"gamemode"`
		TeamSize int       `json:"teamsize"`
	} `json:"game_settings"`
	Teams struct {
		Team1 teamRequest `json:"team1"`
		Team2 teamRequest `json:"team2"`
	} `json:"teams"`
}

type teamRequest struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type roundRequest struct {
	GameState struct {
		Cups      map[string]string `json:"cups"`
		DeathCups []string          `json:"deathcups"`
	} `json:"gamestate"`
}

func newRouter(cfg routerConfig) http.Handler {
	gameStore := store.NewGameStore(cfg.DB)
	playerStore := store.NewPlayerStore(cfg.DB)
	gameService := service.NewGameService(cfg.DB, gameStore, playerStore, cfg.Metrics)
	roundService := service.NewRoundService(cfg.DB, gameStore, playerStore, game.NewProcessor(cfg.AutoRackStatus), cfg.Metrics)
	leaderboardService := service.NewLeaderboardService(store.NewLeaderboardStore(cfg.DB))
	playerService := service.NewPlayerService(playerStore)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if cfg.JWTSecret != "" {
		r.Use(middleware.Authenticate(middleware.NewTokenVerifier(cfg.JWTSecret), playerStore))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.DB.PingContext(r.Context()); err != nil {
			httputil.InternalServerError(w, "Database ping failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Get("/game/{game_id}", func(w http.ResponseWriter, r *http.Request) {
		data, err := gameService.GetGameState(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			httputil.Error(w, "Failed to get game", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, views.NewGameState(data))
	})

	r.Get("/game/{game_id}/rounds", func(w http.ResponseWriter, r *http.Request) {
		rounds, err := gameService.GetRounds(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			httputil.Error(w, "Failed to get rounds", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, views.NewRounds(rounds))
	})

	r.Get("/games/", func(w http.ResponseWriter, r *http.Request) {
		games, err := gameService.ListGames(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to list games", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, views.NewGameList(games))
	})

	r.Get("/leaderboard/", func(w http.ResponseWriter, r *http.Request) {
		rows, err := leaderboardService.GetLeaderboard(r.Context(), r.URL.Query().Get("scope") == "all")
		if err != nil {
			httputil.InternalServerError(w, "Failed to get leaderboard", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, views.NewLeaderboard(rows))
	})

	r.Get("/players/", func(w http.ResponseWriter, r *http.Request) {
		players, err := playerService.ListPlayers(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to list players", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, views.NewPlayerList(players))
	})

	r.Group(func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(middleware.RequireAuth)
		}

		r.Post("/start-game", func(w http.ResponseWriter, r *http.Request) {
			var req startGameRequest
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.Error(w, "Invalid request body", err)
				return
			}

			gameID, err := gameService.CreateGame(r.Context(), service.CreateGameInput{
				Mode:     req.GameSettings.GameMode,
				TeamSize: req.GameSettings.TeamSize,
				Team1:    service.TeamInput{Name: req.Teams.Team1.Name, Players: req.Teams.Team1.Players},
				Team2:    service.TeamInput{Name: req.Teams.Team2.Name, Players: req.Teams.Team2.Players},
			})
			if err != nil {
				httputil.Error(w, "Failed to create game", err)
				return
			}

			httputil.WriteJSON(w, http.StatusCreated, map[string]string{
				"message": "Game created successfully",
				"game_id": gameID.String(),
			})
		})

		r.Post("/game/{game_id}/round", func(w http.ResponseWriter, r *http.Request) {
			var req roundRequest
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.Error(w, "Invalid request body", err)
				return
			}

			result, err := roundService.SubmitRound(r.Context(), chi.URLParam(r, "game_id"), service.RoundInput{
				Cups:      req.GameState.Cups,
				DeathCups: req.GameState.DeathCups,
			})
			if err != nil {
				httputil.Error(w, "Failed to submit round", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, views.NewRoundResult(result))
		})
	})

	return r
}
