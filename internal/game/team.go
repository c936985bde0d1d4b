package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Team is a fixed roster. Slots 1-3 are always filled, 4-6 depend on team size.
type Team struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	Player1ID *uuid.UUID `db:"player_1_id"`
	Player2ID *uuid.UUID `db:"player_2_id"`
	Player3ID *uuid.UUID `db:"player_3_id"`
	Player4ID *uuid.UUID `db:"player_4_id"`
	Player5ID *uuid.UUID `db:"player_5_id"`
	Player6ID *uuid.UUID `db:"player_6_id"`
	CreatedAt time.Time  `db:"created_at"`
}

// NewTeam assigns players to slots in submission order.
func NewTeam(name string, players []uuid.UUID) (*Team, error) {
	if len(players) < MinTeamSize || len(players) > MaxTeamSize {
		return nil, fmt.Errorf("%w: team must have between %d and %d players", ErrInvalidInput, MinTeamSize, MaxTeamSize)
	}
	seen := make(map[uuid.UUID]struct{}, len(players))
	for _, p := range players {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: player %s listed twice on team %q", ErrInvalidInput, p, name)
		}
		seen[p] = struct{}{}
	}

	t := &Team{ID: uuid.New(), Name: name}
	slots := t.slots()
	for i, p := range players {
		id := p
		*slots[i] = &id
	}
	return t, nil
}

func (t *Team) slots() []**uuid.UUID {
	return []**uuid.UUID{&t.Player1ID, &t.Player2ID, &t.Player3ID, &t.Player4ID, &t.Player5ID, &t.Player6ID}
}

// Roster returns the filled slots in order.
func (t *Team) Roster() []uuid.UUID {
	roster := make([]uuid.UUID, 0, MaxTeamSize)
	for _, slot := range t.slots() {
		if *slot != nil {
			roster = append(roster, **slot)
		}
	}
	return roster
}

func (t *Team) Has(playerID uuid.UUID) bool {
	for _, p := range t.Roster() {
		if p == playerID {
			return true
		}
	}
	return false
}
