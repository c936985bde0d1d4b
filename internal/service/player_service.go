package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/AdamBeresnev/pong-tracker/internal/player"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
)

type PlayerService struct {
	store *store.PlayerStore
}

func NewPlayerService(store *store.PlayerStore) *PlayerService {
	return &PlayerService{store: store}
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	return s.store.ListPlayers(ctx)
}

// CreateRandomPlayers registers n generated players. Generated names that
// collide with existing usernames or emails are retried.
func (s *PlayerService) CreateRandomPlayers(ctx context.Context, n int, faker *gofakeit.Faker) ([]player.Player, error) {
	created := make([]player.Player, 0, n)
	for attempts := 0; len(created) < n; attempts++ {
		if attempts >= n*10 {
			return created, fmt.Errorf("gave up after %d attempts, created %d of %d players", attempts, len(created), n)
		}

		first, last := faker.FirstName(), faker.LastName()
		username := strings.ToLower(first + "." + last + faker.Numerify("##"))
		p := player.Player{
			ID:        uuid.New(),
			Username:  username,
			Email:     username + "@example.com",
			FirstName: first,
			LastName:  last,
		}
		ok, err := s.store.CreatePlayer(ctx, &p)
		if err != nil {
			return created, fmt.Errorf("failed to create player %q: %w", username, err)
		}
		if !ok {
			slog.Debug("Skipped duplicate generated player", "username", username)
			continue
		}
		created = append(created, p)
	}
	return created, nil
}
