package game

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Round is the snapshot of one applied batch. It is written once.
type Round struct {
	ID          uuid.UUID
	GameID      uuid.UUID
	RoundNumber int
	Cups        Ledger
	DeathCups   []string
	RackStatusA RackStatus
	RackStatusB RackStatus
	CreatedAt   time.Time
}

// RoundState is everything the processor needs about a game, loaded under
// the game's lock.
type RoundState struct {
	Game            *Game
	TeamA           *Team
	TeamB           *Team
	Ledger          Ledger
	Stats           map[uuid.UUID]*PlayerStats
	LastRoundNumber int
}

type RoundOutcome struct {
	Round Round
	// Stats rows for every roster player, keyed by player id
	Stats map[uuid.UUID]*PlayerStats
	// Player ids from the batch that matched nobody on either roster
	Skipped   []string
	Completed bool
}

// Processor applies cup batches to a game.
type Processor struct {
	// AutoRackStatus derives rack status from remaining cups after every round.
	// When off, rack statuses keep whatever the game already had.
	AutoRackStatus bool
}

func NewProcessor(autoRackStatus bool) Processor {
	return Processor{AutoRackStatus: autoRackStatus}
}

// Apply validates delta against the state and mutates state in place.
// On error the state is untouched.
func (p Processor) Apply(st *RoundState, delta Ledger, deathCups []string) (*RoundOutcome, error) {
	g := st.Game
	if g.IsFinished() {
		return nil, wrapf(ErrInvalidState, "game %s is already completed", g.ID)
	}
	if len(delta) == 0 {
		return nil, wrapf(ErrInvalidInput, "cups must not be empty")
	}
	if st.Ledger == nil {
		st.Ledger = make(Ledger)
	}
	if claimed := st.Ledger.Claimed(delta); len(claimed) > 0 {
		return nil, &ConflictError{CupIDs: claimed}
	}

	if g.Status == StatusNotStarted {
		if err := g.Transition(StatusInProgress); err != nil {
			return nil, err
		}
	}
	roundNumber := st.LastRoundNumber + 1

	st.Ledger.Merge(delta)
	g.recount(st.Ledger)
	if p.AutoRackStatus {
		g.updateRackStatus()
	}
	completed, err := g.finishIfCleared()
	if err != nil {
		return nil, err
	}

	roster := newRosterIndex(st.TeamA, st.TeamB)
	if st.Stats == nil {
		st.Stats = make(map[uuid.UUID]*PlayerStats)
	}
	for _, playerID := range roster.players() {
		if _, ok := st.Stats[playerID]; !ok {
			st.Stats[playerID] = NewPlayerStats(g.ID, playerID)
		}
		st.Stats[playerID].ShotsTaken++
	}

	var skipped []string
	scorers := map[Side]map[uuid.UUID]struct{}{SideA: {}, SideB: {}}
	for _, cup := range delta.SortedIDs() {
		raw := delta[cup]
		playerID, side, ok := roster.resolve(raw)
		if !ok {
			skipped = append(skipped, raw)
			continue
		}
		stats := st.Stats[playerID]
		if side == cup.Side {
			stats.CupsMade++
			scorers[side][playerID] = struct{}{}
		} else {
			stats.OwnCups++
		}
	}

	for _, side := range []Side{SideA, SideB} {
		if len(scorers[side]) != 1 {
			continue
		}
		for playerID := range scorers[side] {
			st.Stats[playerID].ClutchCups++
		}
	}

	for _, raw := range deathCups {
		playerID, _, ok := roster.resolve(raw)
		if !ok {
			skipped = append(skipped, raw)
			continue
		}
		st.Stats[playerID].DeathCups++
	}

	for _, playerID := range roster.players() {
		st.Stats[playerID].Recompute(g.CupsMade(roster.side[playerID]))
	}

	return &RoundOutcome{
		Round: Round{
			ID:          uuid.New(),
			GameID:      g.ID,
			RoundNumber: roundNumber,
			Cups:        delta,
			DeathCups:   append([]string(nil), deathCups...),
			RackStatusA: g.RackStatusA,
			RackStatusB: g.RackStatusB,
		},
		Stats:     st.Stats,
		Skipped:   skipped,
		Completed: completed,
	}, nil
}

type rosterIndex struct {
	order []uuid.UUID
	side  map[uuid.UUID]Side
}

func newRosterIndex(teamA, teamB *Team) rosterIndex {
	idx := rosterIndex{side: make(map[uuid.UUID]Side)}
	for _, p := range teamA.Roster() {
		idx.order = append(idx.order, p)
		idx.side[p] = SideA
	}
	for _, p := range teamB.Roster() {
		idx.order = append(idx.order, p)
		idx.side[p] = SideB
	}
	return idx
}

func (r rosterIndex) players() []uuid.UUID {
	return r.order
}

func (r rosterIndex) resolve(raw string) (uuid.UUID, Side, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", false
	}
	side, ok := r.side[id]
	return id, side, ok
}

// SortStats orders stats rows by player id for stable output.
func SortStats(rows []PlayerStats) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PlayerID.String() < rows[j].PlayerID.String()
	})
}
