package models

import (
	"fmt"
	"strings"
	"time"
)

// WinType tags the scoring milestone that produced a win.
type WinType string

// In-game win types. The final-score forward tag is "normal" and its reverse
// counterpart is plain "reverse"; every other reverse variant appends
// "_reverse" to the forward tag.
const (
	WinTypeQ1       WinType = "q1"
	WinTypeHalftime WinType = "halftime"
	WinTypeQ3       WinType = "q3"
	WinTypeNormal   WinType = "normal"
	WinTypeReverse  WinType = "reverse"

	WinTypeScoreChange      WinType = "score_change"
	WinTypeScoreChangeFinal WinType = "score_change_final"

	WinTypeHybridQ1       WinType = "hybrid_q1"
	WinTypeHybridHalftime WinType = "hybrid_halftime"
	WinTypeHybridQ3       WinType = "hybrid_q3"
	WinTypeHybridNormal   WinType = "hybrid_normal"
)

// Playoff round win types, used when a pool spans multiple games across a
// postseason run. Ranked strictly below in-game tags of the championship
// game itself.
const (
	WinTypeWildCard          WinType = "wild_card"
	WinTypeDivisional        WinType = "divisional"
	WinTypeConference        WinType = "conference"
	WinTypeSuperBowlHalftime WinType = "super_bowl_halftime"
	WinTypeSuperBowl         WinType = "super_bowl"
)

// ReverseOf returns the reverse-scoring counterpart of a forward tag
func ReverseOf(tag WinType) WinType {
	if tag == WinTypeNormal {
		return WinTypeReverse
	}
	return tag + "_reverse"
}

// ForwardOf returns the forward tag behind a reverse variant. Tags that are
// already forward are returned unchanged.
func ForwardOf(tag WinType) WinType {
	if tag == WinTypeReverse {
		return WinTypeNormal
	}
	return WinType(strings.TrimSuffix(string(tag), "_reverse"))
}

// IsReverse reports whether the tag is a reverse-scoring variant
func IsReverse(tag WinType) bool {
	return tag == WinTypeReverse || strings.HasSuffix(string(tag), "_reverse")
}

// CompositeOf returns the combined tag reported when one cell wins both the
// forward and reverse variant of the same tier.
func CompositeOf(forward WinType) WinType {
	return forward + "_both"
}

// RoundRank is the static hierarchy over win types: when multiple win events
// land on the same cell, the highest rank is the cell's display badge.
// Composite tags always rank above either of their components.
var RoundRank = map[WinType]int{
	// Playoff round tiers
	WinTypeWildCard:          1,
	WinTypeDivisional:        2,
	WinTypeConference:        3,
	WinTypeSuperBowlHalftime: 4,
	WinTypeSuperBowl:         5,

	// Continuous score-change wins
	ReverseOf(WinTypeScoreChange):        10,
	WinTypeScoreChange:                   11,
	CompositeOf(WinTypeScoreChange):      12,
	ReverseOf(WinTypeScoreChangeFinal):   13,
	WinTypeScoreChangeFinal:              14,
	CompositeOf(WinTypeScoreChangeFinal): 15,

	// Hybrid-mode quarter boundaries
	ReverseOf(WinTypeHybridQ1):         20,
	WinTypeHybridQ1:                    21,
	CompositeOf(WinTypeHybridQ1):       22,
	ReverseOf(WinTypeHybridHalftime):   23,
	WinTypeHybridHalftime:              24,
	CompositeOf(WinTypeHybridHalftime): 25,
	ReverseOf(WinTypeHybridQ3):         26,
	WinTypeHybridQ3:                    27,
	CompositeOf(WinTypeHybridQ3):       28,
	ReverseOf(WinTypeHybridNormal):     29,
	WinTypeHybridNormal:                30,
	CompositeOf(WinTypeHybridNormal):   31,

	// Quarter-mode boundaries, final score on top
	ReverseOf(WinTypeQ1):         40,
	WinTypeQ1:                    41,
	CompositeOf(WinTypeQ1):       42,
	ReverseOf(WinTypeHalftime):   43,
	WinTypeHalftime:              44,
	CompositeOf(WinTypeHalftime): 45,
	ReverseOf(WinTypeQ3):         46,
	WinTypeQ3:                    47,
	CompositeOf(WinTypeQ3):       48,
	WinTypeReverse:               49,
	WinTypeNormal:                50,
	CompositeOf(WinTypeNormal):   51,
}

// Rank returns the hierarchy rank for a tag, 0 for unknown tags
func Rank(tag WinType) int {
	return RoundRank[tag]
}

// WinEvent is one recorded win for a scoring milestone. Events are created
// by the engine, persisted at most once per dedupe key, and never mutated;
// corrections delete a game's events wholesale and recompute.
type WinEvent struct {
	GameID           string    `json:"gameId" bson:"gameId"`
	PoolID           string    `json:"poolId" bson:"poolId"`
	WinType          WinType   `json:"winType" bson:"winType"`
	Cell             *Cell     `json:"cell" bson:"cell,omitempty"`
	Payout           *float64  `json:"payout" bson:"payout,omitempty"`
	ParticipantLabel string    `json:"participantLabel" bson:"participantLabel"`
	Sequence         *int      `json:"sequence,omitempty" bson:"sequence,omitempty"`
	DedupeKey        string    `json:"dedupeKey" bson:"dedupeKey"`
	RecordedAt       time.Time `json:"recordedAt" bson:"recordedAt"`
}

// BuildDedupeKey forms the natural key enforcing at-most-one stored win per
// (game, win type[, sequence]).
func BuildDedupeKey(gameID string, winType WinType, sequence *int) string {
	if sequence != nil {
		return fmt.Sprintf("%s:%s:%d", gameID, winType, *sequence)
	}
	return fmt.Sprintf("%s:%s", gameID, winType)
}
