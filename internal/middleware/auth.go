package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AdamBeresnev/pong-tracker/internal/httputil"
	"github.com/AdamBeresnev/pong-tracker/internal/player"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
)

type ContextKey string

const PlayerIDKey ContextKey = "playerID"

// TokenCookie is the cookie the web client stores its token in.
const TokenCookie = "jwt"

var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier checks HS256 tokens issued elsewhere. The subject claim is the player id.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	playerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return playerID, nil
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Authenticate puts the token's player on the request context when a valid
// token is present. Requests without one pass through untouched.
func Authenticate(verifier *TokenVerifier, playerStore *store.PlayerStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			playerID, err := verifier.Verify(raw)
			if err != nil {
				slog.Debug("Rejected token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), PlayerIDKey, playerID)

			// Add the player to context so that we can easily get it whenever we want
			p, err := playerStore.GetPlayer(ctx, playerID)
			if err == nil {
				ctx = context.WithValue(ctx, player.PlayerKey, p)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPlayerIDFromContext(r.Context()); !ok {
			httputil.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetPlayerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(PlayerIDKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetAuthenticatedPlayer(ctx context.Context) *player.Player {
	val := ctx.Value(player.PlayerKey)
	if val == nil {
		return nil
	}
	p, ok := val.(*player.Player)
	if !ok {
		return nil
	}
	return p
}
