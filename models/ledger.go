package models

import "time"

// ScoreChangeRecord is one entry in the append-only ledger of distinct score
// states for a game. Sequence numbers are assigned at insertion time,
// strictly increasing and gapless per game, and never reused. Sequence 0 is
// always the 0-0 kickoff state of a freshly started game.
type ScoreChangeRecord struct {
	GameID        string    `json:"gameId" bson:"gameId"`
	HomeScore     int       `json:"homeScore" bson:"homeScore"`
	AwayScore     int       `json:"awayScore" bson:"awayScore"`
	Sequence      int       `json:"sequence" bson:"sequence"`
	PeriodMarkers []string  `json:"periodMarkers,omitempty" bson:"periodMarkers,omitempty"`
	RecordedAt    time.Time `json:"recordedAt" bson:"recordedAt"`
}

// Matches reports whether the incoming score pair equals this ledger state
func (r *ScoreChangeRecord) Matches(home, away int) bool {
	return r.HomeScore == home && r.AwayScore == away
}
