package models

import (
	"fmt"
	"math/rand"
	"time"
)

// Cell identifies one of the 100 positions on a squares grid.
type Cell struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// String returns a compact "row,col" form used in dedupe keys and logs.
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// GridConfig holds the digit permutations assigned to each axis at lock time.
// Rows follow the home team's last digit, columns the away team's.
type GridConfig struct {
	RowDigits []int      `json:"rowDigits" bson:"rowDigits"`
	ColDigits []int      `json:"colDigits" bson:"colDigits"`
	LockedAt  *time.Time `json:"lockedAt,omitempty" bson:"lockedAt,omitempty"`
}

// IsLocked returns true once digits have been assigned
func (g *GridConfig) IsLocked() bool {
	return g.LockedAt != nil
}

// Validate checks that both axes carry a full permutation of 0-9
func (g *GridConfig) Validate() error {
	if err := validatePermutation(g.RowDigits); err != nil {
		return fmt.Errorf("row digits: %w", err)
	}
	if err := validatePermutation(g.ColDigits); err != nil {
		return fmt.Errorf("col digits: %w", err)
	}
	return nil
}

func validatePermutation(digits []int) error {
	if len(digits) != 10 {
		return fmt.Errorf("expected 10 digits, got %d", len(digits))
	}
	var seen [10]bool
	for _, d := range digits {
		if d < 0 || d > 9 {
			return fmt.Errorf("digit %d out of range", d)
		}
		if seen[d] {
			return fmt.Errorf("duplicate digit %d", d)
		}
		seen[d] = true
	}
	return nil
}

// NewRandomGridConfig assigns a fresh random permutation to each axis and
// stamps the lock time. Called exactly once, when the commissioner locks the
// grid after all squares are claimed.
func NewRandomGridConfig() GridConfig {
	now := time.Now()
	return GridConfig{
		RowDigits: shuffledDigits(),
		ColDigits: shuffledDigits(),
		LockedAt:  &now,
	}
}

func shuffledDigits() []int {
	digits := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	rand.Shuffle(len(digits), func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})
	return digits
}

// ResolveCell maps a score pair onto the grid using the last digit of each
// score. Forward resolution uses the home digit for the row axis; reverse
// swaps the digit roles. When both last digits are equal the forward and
// reverse cells are identical by construction.
func ResolveCell(homeScore, awayScore int, grid GridConfig, reverse bool) Cell {
	homeDigit := ((homeScore % 10) + 10) % 10
	awayDigit := ((awayScore % 10) + 10) % 10

	if reverse {
		homeDigit, awayDigit = awayDigit, homeDigit
	}

	return Cell{
		Row: indexOfDigit(grid.RowDigits, homeDigit),
		Col: indexOfDigit(grid.ColDigits, awayDigit),
	}
}

// indexOfDigit finds the position of a digit within an axis permutation.
// A validated permutation always contains every digit, so -1 is unreachable.
func indexOfDigit(digits []int, digit int) int {
	for i, d := range digits {
		if d == digit {
			return i
		}
	}
	return -1
}
