package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamBeresnev/pong-tracker/internal/store"
	"github.com/AdamBeresnev/pong-tracker/internal/testutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	playerID := uuid.New()

	got, err := verifier.Verify(signToken(t, testSecret, playerID.String(), time.Hour))
	require.NoError(t, err)
	assert.Equal(t, playerID, got)

	tests := map[string]string{
		"wrong secret":    signToken(t, "other", playerID.String(), time.Hour),
		"expired":         signToken(t, testSecret, playerID.String(), -time.Hour),
		"non-uuid":        signToken(t, testSecret, "someone", time.Hour),
		"garbage":         "not.a.token",
		"unsigned (none)": "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ4In0.",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthenticateAndRequireAuth(t *testing.T) {
	db := testutil.NewTestDB(t)
	players := testutil.SeedPlayers(t, db, 1)
	verifier := NewTokenVerifier(testSecret)

	handler := Authenticate(verifier, store.NewPlayerStore(db))(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetPlayerIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, players[0], id)
		p := GetAuthenticatedPlayer(r.Context())
		require.NotNil(t, p)
		assert.Equal(t, players[0], p.ID)
		w.WriteHeader(http.StatusNoContent)
	})))

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/start-game", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, players[0].String(), time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/start-game", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signToken(t, testSecret, players[0].String(), time.Hour)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start-game", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/start-game", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other", players[0].String(), time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetPlayerIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetPlayerIDFromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, GetAuthenticatedPlayer(req.Context()))
}
