package player

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const PlayerKey ContextKey = "player"

type Player struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	CreatedAt time.Time `db:"created_at"`
}
