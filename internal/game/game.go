package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNotStarted Status = "Not-Started"
	StatusInProgress Status = "In-Progress"
	StatusCompleted  Status = "Completed"
)

type Mode string

const (
	ModeCasual      Mode = "Casual"
	ModeCompetitive Mode = "Competitive"
	ModeIFC         Mode = "IFC"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeCasual, ModeCompetitive, ModeIFC:
		return true
	}
	return false
}

type RackStatus string

const (
	RackInitial    RackStatus = "Initial"
	RackRerack     RackStatus = "Rerack"
	RackZipper7    RackStatus = "Zipper-7"
	RackGentlemans RackStatus = "Gentlemans"
)

// RackStatusFor buckets a side's remaining cups for re-racking guidance.
func RackStatusFor(remaining int) RackStatus {
	switch {
	case remaining <= 2:
		return RackGentlemans
	case remaining <= 7:
		return RackZipper7
	case remaining <= 21:
		return RackRerack
	default:
		return RackInitial
	}
}

const (
	MinTeamSize = 3
	MaxTeamSize = 6
)

type Game struct {
	ID       uuid.UUID `db:"id"`
	TeamAID  uuid.UUID `db:"team_a_id"`
	TeamBID  uuid.UUID `db:"team_b_id"`
	TeamSize int       `db:"team_size"`
	Mode     Mode      `db:"mode"`
	Status   Status    `db:"status"`

	RackStatusA    RackStatus `db:"rack_status_a"`
	RackStatusB    RackStatus `db:"rack_status_b"`
	CupsMadeA      int        `db:"cups_made_a"`
	CupsMadeB      int        `db:"cups_made_b"`
	CupsRemainingA int        `db:"cups_remaining_a"`
	CupsRemainingB int        `db:"cups_remaining_b"`

	WinnerID  *uuid.UUID `db:"winner_id"`
	CreatedBy *uuid.UUID `db:"created_by"`

	// Bumped on every locked write, used as the per-game row lock
	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
}

func NewGame(teamA, teamB *Team, size int, mode Mode) *Game {
	return &Game{
		ID:             uuid.New(),
		TeamAID:        teamA.ID,
		TeamBID:        teamB.ID,
		TeamSize:       size,
		Mode:           mode,
		Status:         StatusNotStarted,
		RackStatusA:    RackInitial,
		RackStatusB:    RackInitial,
		CupsRemainingA: CupsPerSide,
		CupsRemainingB: CupsPerSide,
	}
}

// CanTransition reports whether the status may move from s to next.
// The machine only moves forward and Completed is terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusNotStarted:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

func (g *Game) Transition(next Status) error {
	if !g.Status.CanTransition(next) {
		return fmt.Errorf("%w: cannot move game from %s to %s", ErrInvalidState, g.Status, next)
	}
	g.Status = next
	return nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusCompleted
}

func (g *Game) TeamID(side Side) uuid.UUID {
	if side == SideA {
		return g.TeamAID
	}
	return g.TeamBID
}

func (g *Game) CupsMade(side Side) int {
	if side == SideA {
		return g.CupsMadeA
	}
	return g.CupsMadeB
}

// recount rebuilds the aggregate counters from the full ledger.
func (g *Game) recount(ledger Ledger) {
	g.CupsMadeA = ledger.Made(SideA)
	g.CupsMadeB = ledger.Made(SideB)
	g.CupsRemainingA = CupsPerSide - g.CupsMadeA
	g.CupsRemainingB = CupsPerSide - g.CupsMadeB
}

func (g *Game) updateRackStatus() {
	g.RackStatusA = RackStatusFor(g.CupsRemainingA)
	g.RackStatusB = RackStatusFor(g.CupsRemainingB)
}

// finishIfCleared completes the game once a side's rack has no cups left.
// The opponent of the cleared side wins. Side A's rack is checked first.
func (g *Game) finishIfCleared() (bool, error) {
	var winner *uuid.UUID
	switch {
	case g.CupsRemainingA == 0:
		id := g.TeamBID
		winner = &id
	case g.CupsRemainingB == 0:
		id := g.TeamAID
		winner = &id
	default:
		return false, nil
	}
	if err := g.Transition(StatusCompleted); err != nil {
		return false, err
	}
	g.WinnerID = winner
	return true, nil
}
