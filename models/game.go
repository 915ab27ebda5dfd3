package models

import (
	"fmt"
	"time"
)

// GameStatus represents the normalized state of a game from the score feed
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinal      GameStatus = "final"
)

// PeriodScore holds the cumulative score at a period boundary
type PeriodScore struct {
	Home int `json:"home" bson:"home"`
	Away int `json:"away" bson:"away"`
}

// GameSnapshot is the normalized view of a game produced on every poll.
// It is a full replacement of the provider's current view, never a partial
// merge; it has no persistent identity of its own.
type GameSnapshot struct {
	GameID     string     `json:"gameId"`
	Status     GameStatus `json:"status"`
	HomeTeam   string     `json:"homeTeam"`
	AwayTeam   string     `json:"awayTeam"`
	HomeScore  *int       `json:"homeScore"`
	AwayScore  *int       `json:"awayScore"`
	Period     int        `json:"period"`
	Clock      string     `json:"clock"`
	IsHalftime bool       `json:"isHalftime"`

	// Cumulative scores at each quarter boundary, keyed by period number
	// (1 = end of Q1, 2 = halftime, 3 = end of Q3). Populated as boundaries
	// are reached; the final score lives in HomeScore/AwayScore.
	PeriodScores map[int]PeriodScore `json:"periodScores,omitempty"`
}

// HasScores returns true when both scores are present
func (s *GameSnapshot) HasScores() bool {
	return s.HomeScore != nil && s.AwayScore != nil
}

// IsFinal returns true if the game is finished
func (s *GameSnapshot) IsFinal() bool {
	return s.Status == GameStatusFinal
}

// ScoreString returns a formatted score for logging
func (s *GameSnapshot) ScoreString() string {
	if !s.HasScores() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", *s.HomeScore, *s.AwayScore)
}

// Quarter-mode watermark values. Halftime sits at the end of period 2 in the
// provider's numbering, so each boundary maps directly onto the period that
// just ended.
const (
	QuarterOneEnd   = 1
	HalftimeEnd     = 2
	QuarterThreeEnd = 3
	FinalPeriod     = 4
)

// GameState is the persisted record of where scoring processing stands for
// one game. ScoredPeriod is the quarter-mode watermark: the highest period
// boundary that has already fired a win event.
type GameState struct {
	GameID       string     `json:"gameId" bson:"gameId"`
	PoolID       string     `json:"poolId" bson:"poolId"`
	Status       GameStatus `json:"status" bson:"status"`
	HomeTeam     string     `json:"homeTeam" bson:"homeTeam"`
	AwayTeam     string     `json:"awayTeam" bson:"awayTeam"`
	HomeScore    int        `json:"homeScore" bson:"homeScore"`
	AwayScore    int        `json:"awayScore" bson:"awayScore"`
	Period       int        `json:"period" bson:"period"`
	Clock        string     `json:"clock" bson:"clock"`
	ScoredPeriod int        `json:"scoredPeriod" bson:"scoredPeriod"`
	// PeriodScores accumulates every boundary sub-score seen so far, so a
	// recompute can replay quarter boundaries from history.
	PeriodScores map[int]PeriodScore `json:"periodScores,omitempty" bson:"periodScores,omitempty"`
	LastSyncedAt time.Time           `json:"lastSyncedAt" bson:"lastSyncedAt"`
	LastError    string              `json:"lastError,omitempty" bson:"lastError,omitempty"`
}

// IsCompleted returns true once a final snapshot has been processed
func (g *GameState) IsCompleted() bool {
	return g.Status == GameStatusFinal
}

// ApplySnapshot copies the provider's current view onto the state record.
// The scoring watermark is advanced separately by the engine.
func (g *GameState) ApplySnapshot(snap *GameSnapshot) {
	g.Status = snap.Status
	g.HomeTeam = snap.HomeTeam
	g.AwayTeam = snap.AwayTeam
	if snap.HomeScore != nil {
		g.HomeScore = *snap.HomeScore
	}
	if snap.AwayScore != nil {
		g.AwayScore = *snap.AwayScore
	}
	g.Period = snap.Period
	g.Clock = snap.Clock
	for period, sub := range snap.PeriodScores {
		if g.PeriodScores == nil {
			g.PeriodScores = make(map[int]PeriodScore)
		}
		g.PeriodScores[period] = sub
	}
	g.LastSyncedAt = time.Now()
	g.LastError = ""
}
