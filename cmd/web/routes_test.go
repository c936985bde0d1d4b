package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamBeresnev/pong-tracker/internal/metrics"
	"github.com/AdamBeresnev/pong-tracker/internal/testutil"
)

type testServer struct {
	handler http.Handler
	players []uuid.UUID
}

func newTestServer(t *testing.T, secret string) testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	players := testutil.SeedPlayers(t, db, 6)
	reg := prometheus.NewRegistry()

	return testServer{
		handler: newRouter(routerConfig{
			DB:             db,
			Metrics:        metrics.NewService(reg),
			MetricsHandler: metrics.NewMetricsHandler(reg),
			JWTSecret:      secret,
			AutoRackStatus: true,
		}),
		players: players,
	}
}

func (s testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func startGameBody(players []uuid.UUID) string {
	quote := func(ids []uuid.UUID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = `"` + id.String() + `"`
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprintf(`{"game_settings":{"gamemode":"Casual","teamsize":3},
		"teams":{"team1":{"name":"Alpha","players":[%s]},"team2":{"name":"Bravo","players":[%s]}}}`,
		quote(players[:3]), quote(players[3:]))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodPost, "/start-game", startGameBody(s.players))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]string](t, rec)
	assert.Equal(t, "Game created successfully", created["message"])
	gameID := created["game_id"]

	rec = s.do(t, http.MethodGet, "/game/"+gameID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[map[string]any](t, rec)
	assert.Equal(t, "Not-Started", state["status"])
	assert.Equal(t, 78.0, state["teamA_cups_remaining"])

	round := fmt.Sprintf(`{"gamestate":{"cups":{"80":"%s","3":"%s"},"deathcups":["%s"]}}`, s.players[0], s.players[3], s.players[1])
	rec = s.do(t, http.MethodPost, "/game/"+gameID+"/round", round)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[map[string]any](t, rec)
	assert.Equal(t, 1.0, result["round_number"])
	assert.Equal(t, "In-Progress", result["status"])
	assert.Equal(t, 1.0, result["teamA_cups_made"])
	assert.Equal(t, 1.0, result["teamB_cups_made"])
	stats := result["player_stats"].(map[string]any)
	teamA := stats["teamA"].(map[string]any)
	require.Contains(t, teamA, s.players[0].String())
	assert.Equal(t, 1.0, teamA[s.players[0].String()].(map[string]any)["clutch_cups"])
	assert.Equal(t, 1.0, teamA[s.players[1].String()].(map[string]any)["death_cups"])

	// same cup again
	rec = s.do(t, http.MethodPost, "/game/"+gameID+"/round", fmt.Sprintf(`{"gamestate":{"cups":{"80":"%s"}}}`, s.players[1]))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	conflict := decode[map[string]any](t, rec)
	assert.Equal(t, []any{80.0}, conflict["cup_ids"])

	rec = s.do(t, http.MethodGet, "/game/"+gameID+"/rounds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rounds := decode[[]map[string]any](t, rec)
	require.Len(t, rounds, 1)
	assert.Len(t, rounds[0]["cups"], 2)

	rec = s.do(t, http.MethodGet, "/games/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	games := decode[[]map[string]any](t, rec)
	require.Len(t, games, 1)
	assert.Equal(t, "Alpha", games[0]["team1_name"])
	assert.Nil(t, games[0]["winner"])

	rec = s.do(t, http.MethodGet, "/leaderboard/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "nothing completed yet")

	rec = s.do(t, http.MethodGet, "/leaderboard/?scope=all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 6)
}

func TestErrors(t *testing.T) {
	s := newTestServer(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown game", http.MethodGet, "/game/" + uuid.NewString(), "", http.StatusNotFound},
		{"malformed game id", http.MethodGet, "/game/abc", "", http.StatusNotFound},
		{"round for unknown game", http.MethodPost, "/game/" + uuid.NewString() + "/round", `{"gamestate":{"cups":{"1":"x"}}}`, http.StatusNotFound},
		{"bad json", http.MethodPost, "/start-game", `{"game_settings":`, http.StatusBadRequest},
		{"missing settings", http.MethodPost, "/start-game", `{"teams":{}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, decode[map[string]any](t, rec), "error")
		})
	}
}

func TestWritesRequireTokenWhenSecretSet(t *testing.T) {
	const secret = "route-secret"
	s := newTestServer(t, secret)

	rec := s.do(t, http.MethodPost, "/start-game", startGameBody(s.players))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.players[0].String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	rec = s.do(t, http.MethodPost, "/start-game", startGameBody(s.players), "Authorization", "Bearer "+signed)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/games/", "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/players/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 6)

	s.do(t, http.MethodPost, "/start-game", startGameBody(s.players))
	rec = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong_games_created_total 1")
}
