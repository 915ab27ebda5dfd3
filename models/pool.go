package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScoringMode selects which winner-determination state machine a pool runs
type ScoringMode string

const (
	ScoringModeQuarter     ScoringMode = "quarter"
	ScoringModeScoreChange ScoringMode = "score_change"
	ScoringModeHybrid      ScoringMode = "hybrid"
)

// Valid returns true for a known scoring mode
func (m ScoringMode) Valid() bool {
	switch m {
	case ScoringModeQuarter, ScoringModeScoreChange, ScoringModeHybrid:
		return true
	}
	return false
}

// PayoutTable maps a win type (quarter modes) or ledger position
// (score-change modes) to a payout amount.
type PayoutTable struct {
	// ByWinType is consulted for quarter-boundary and final wins.
	ByWinType map[WinType]float64 `json:"byWinType,omitempty" bson:"byWinType,omitempty"`
	// PerScoreChange is the flat payout per ledger entry; the win event's
	// payout field still carries the sequence number for display.
	PerScoreChange float64 `json:"perScoreChange,omitempty" bson:"perScoreChange,omitempty"`
	// FinalBonus is the score_change_final payout, independent of sequence.
	FinalBonus float64 `json:"finalBonus,omitempty" bson:"finalBonus,omitempty"`
}

// Pool is one squares pool: a 10x10 grid tied to one or more games, with a
// scoring configuration fixed at creation and a grid configuration fixed at
// lock time. Ownership edits after lock are commissioner overrides.
type Pool struct {
	ID                    string      `json:"id" bson:"_id"`
	Name                  string      `json:"name" bson:"name"`
	CommissionerID        int         `json:"commissionerId" bson:"commissionerId"`
	Mode                  ScoringMode `json:"mode" bson:"mode"`
	ReverseScoringEnabled bool        `json:"reverseScoringEnabled" bson:"reverseScoringEnabled"`
	Payouts               PayoutTable `json:"payouts" bson:"payouts"`
	Grid                  GridConfig  `json:"grid" bson:"grid"`
	// Squares maps "row,col" to the owning participant's label. Absent keys
	// are unclaimed squares.
	Squares   map[string]string `json:"squares" bson:"squares"`
	GameIDs   []string          `json:"gameIds" bson:"gameIds"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
}

// NewPool creates an unlocked pool with the given scoring configuration
func NewPool(name string, commissionerID int, mode ScoringMode, reverse bool) (*Pool, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
	return &Pool{
		ID:                    uuid.NewString(),
		Name:                  name,
		CommissionerID:        commissionerID,
		Mode:                  mode,
		ReverseScoringEnabled: reverse,
		Squares:               make(map[string]string),
		CreatedAt:             time.Now(),
	}, nil
}

// OwnerOf returns the participant label owning a cell, empty if unclaimed
func (p *Pool) OwnerOf(cell Cell) string {
	return p.Squares[cell.String()]
}

// LockGrid assigns random digit permutations to both axes. Locking twice is
// an error: digits are immutable once drawn.
func (p *Pool) LockGrid() error {
	if p.Grid.IsLocked() {
		return fmt.Errorf("pool %s grid is already locked", p.ID)
	}
	p.Grid = NewRandomGridConfig()
	return nil
}

// QuarterPayout looks up the payout for a quarter-boundary win type.
// Reverse variants pay the same as their forward tier unless configured
// separately.
func (p *Pool) QuarterPayout(tag WinType) *float64 {
	if p.Payouts.ByWinType == nil {
		return nil
	}
	if v, ok := p.Payouts.ByWinType[tag]; ok {
		return &v
	}
	if v, ok := p.Payouts.ByWinType[ForwardOf(tag)]; ok {
		return &v
	}
	return nil
}
