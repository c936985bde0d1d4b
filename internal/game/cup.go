package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CupsPerSide is the number of cups a side has to make to win.
const CupsPerSide = 78

type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// CupID identifies a cup by the side that scores when it is made and its
// position (1-78) within that side's rack.
//
// On the wire cups are flat integers: 1-78 are side B's cups and 79-156 are
// side A's cups. Encode and DecodeCupID are the only places that know this.
type CupID struct {
	Side  Side
	Index int
}

func DecodeCupID(wire int) (CupID, error) {
	switch {
	case wire >= 1 && wire <= CupsPerSide:
		return CupID{Side: SideB, Index: wire}, nil
	case wire > CupsPerSide && wire <= 2*CupsPerSide:
		return CupID{Side: SideA, Index: wire - CupsPerSide}, nil
	}
	return CupID{}, fmt.Errorf("%w: cup id %d out of range 1-%d", ErrInvalidInput, wire, 2*CupsPerSide)
}

func ParseCupID(s string) (CupID, error) {
	wire, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return CupID{}, fmt.Errorf("%w: cup id %q is not a number", ErrInvalidInput, s)
	}
	return DecodeCupID(wire)
}

func (c CupID) Encode() int {
	if c.Side == SideA {
		return c.Index + CupsPerSide
	}
	return c.Index
}

func (c CupID) String() string {
	return strconv.Itoa(c.Encode())
}

// Ledger maps cups to the raw player id that made them. Entries are only
// ever added.
type Ledger map[CupID]string

// ParseCups converts a submitted {cupId: playerId} batch into a ledger delta.
func ParseCups(raw map[string]string) (Ledger, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: cups must not be empty", ErrInvalidInput)
	}
	delta := make(Ledger, len(raw))
	for key, playerID := range raw {
		id, err := ParseCupID(key)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(playerID) == "" {
			return nil, fmt.Errorf("%w: cup %s has no player", ErrInvalidInput, id)
		}
		if _, dup := delta[id]; dup {
			return nil, fmt.Errorf("%w: cup %s submitted more than once", ErrInvalidInput, id)
		}
		delta[id] = strings.TrimSpace(playerID)
	}
	return delta, nil
}

// Made counts cups with a hitter on the given side.
func (l Ledger) Made(side Side) int {
	n := 0
	for id, player := range l {
		if id.Side == side && player != "" {
			n++
		}
	}
	return n
}

// Claimed returns the sorted wire ids of delta cups that already have a hitter.
func (l Ledger) Claimed(delta Ledger) []int {
	var claimed []int
	for id := range delta {
		if l[id] != "" {
			claimed = append(claimed, id.Encode())
		}
	}
	sort.Ints(claimed)
	return claimed
}

// Merge adds delta entries without touching existing ones.
func (l Ledger) Merge(delta Ledger) {
	for id, player := range delta {
		if l[id] == "" {
			l[id] = player
		}
	}
}

// SortedIDs returns the ledger's cups in wire order.
func (l Ledger) SortedIDs() []CupID {
	ids := make([]CupID, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Encode() < ids[j].Encode()
	})
	return ids
}

// Wire returns the ledger keyed by flat wire ids.
func (l Ledger) Wire() map[string]string {
	out := make(map[string]string, len(l))
	for id, player := range l {
		out[id.String()] = player
	}
	return out
}
