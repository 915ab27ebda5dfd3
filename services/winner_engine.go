package services

import (
	"time"

	"squares-app-go/models"
)

// WinnerEngine runs the per-mode winner-determination state machines. It is
// pure: it consumes a snapshot plus the previously persisted state and
// returns candidate win events and ledger appends without touching storage.
// Idempotency comes from two guards layered on top of each other: the
// quarter watermark / ledger comparison here, and the recorder's dedupe key
// below.
type WinnerEngine struct{}

// NewWinnerEngine creates a winner determination engine
func NewWinnerEngine() *WinnerEngine {
	return &WinnerEngine{}
}

// EngineResult is the outcome of evaluating one snapshot for one pool
type EngineResult struct {
	// Events are candidate win events in emission order, not yet persisted
	Events []models.WinEvent
	// LedgerAppends are new score-change records, in sequence order
	LedgerAppends []models.ScoreChangeRecord
	// ScoredPeriod is the advanced quarter watermark to persist
	ScoredPeriod int
}

// Evaluate runs the pool's configured state machine against a snapshot.
// lastLedger is the most recent ledger entry for the game (nil when the
// ledger is empty); state carries the quarter watermark. A malformed
// snapshot yields a ValidationError and no events: the caller keeps the
// previous state and retries on the next poll.
func (e *WinnerEngine) Evaluate(pool *models.Pool, state *models.GameState, lastLedger *models.ScoreChangeRecord, snap *models.GameSnapshot) (*EngineResult, error) {
	result := &EngineResult{ScoredPeriod: state.ScoredPeriod}

	if snap.Status == models.GameStatusScheduled {
		return result, nil
	}
	if !snap.HasScores() {
		return nil, &ValidationError{GameID: snap.GameID, Reason: "missing scores while game is not scheduled"}
	}

	switch pool.Mode {
	case models.ScoringModeQuarter:
		e.evaluateQuarters(pool, snap, result, false)
	case models.ScoringModeScoreChange:
		if err := e.evaluateScoreChanges(pool, lastLedger, snap, result); err != nil {
			return nil, err
		}
	case models.ScoringModeHybrid:
		// Both machines run independently against the same snapshot.
		e.evaluateQuarters(pool, snap, result, true)
		if err := e.evaluateScoreChanges(pool, lastLedger, snap, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// quarterTag maps a period boundary to its win type for the given mode
func quarterTag(boundary int, hybrid bool) models.WinType {
	var tag models.WinType
	switch boundary {
	case models.QuarterOneEnd:
		tag = models.WinTypeQ1
	case models.HalftimeEnd:
		tag = models.WinTypeHalftime
	case models.QuarterThreeEnd:
		tag = models.WinTypeQ3
	case models.FinalPeriod:
		if hybrid {
			return models.WinTypeHybridNormal
		}
		return models.WinTypeNormal
	}
	if hybrid {
		return "hybrid_" + tag
	}
	return tag
}

// evaluateQuarters advances the monotonic period watermark, emitting one win
// per newly crossed boundary using the cumulative sub-score at that
// boundary. Re-ingesting a snapshot at the same period produces nothing: the
// watermark comparison is the idempotency guard. A boundary whose sub-score
// the provider has not reported yet halts the walk so it can fire later.
func (e *WinnerEngine) evaluateQuarters(pool *models.Pool, snap *models.GameSnapshot, result *EngineResult, hybrid bool) {
	for boundary := result.ScoredPeriod + 1; boundary <= models.FinalPeriod; boundary++ {
		var home, away int
		if boundary == models.FinalPeriod {
			if !snap.IsFinal() {
				return
			}
			home, away = *snap.HomeScore, *snap.AwayScore
		} else {
			sub, ok := snap.PeriodScores[boundary]
			if !ok {
				return
			}
			home, away = sub.Home, sub.Away
		}

		tag := quarterTag(boundary, hybrid)
		result.Events = append(result.Events, e.buildEventPair(pool, snap.GameID, tag, home, away, nil, pool.QuarterPayout(tag))...)
		result.ScoredPeriod = boundary
	}
}

// evaluateScoreChanges compares the incoming score against the ledger head
// and appends one record per distinct new score state. Seeing an already
// recorded score is a no-op, which is what makes repeated polling safe.
func (e *WinnerEngine) evaluateScoreChanges(pool *models.Pool, lastLedger *models.ScoreChangeRecord, snap *models.GameSnapshot, result *EngineResult) error {
	home, away := *snap.HomeScore, *snap.AwayScore

	if lastLedger == nil || !lastLedger.Matches(home, away) {
		seq := 0
		if lastLedger != nil {
			if home < lastLedger.HomeScore || away < lastLedger.AwayScore {
				// A provider-side score correction. Advancing the ledger on a
				// decrease would corrupt every later sequence, so the poll is
				// rejected; the admin scoring endpoint is the override path.
				return &ValidationError{
					GameID: snap.GameID,
					Reason: "score decreased between polls; manual correction required",
				}
			}
			seq = lastLedger.Sequence + 1
		}

		record := models.ScoreChangeRecord{
			GameID:        snap.GameID,
			HomeScore:     home,
			AwayScore:     away,
			Sequence:      seq,
			PeriodMarkers: periodMarkers(seq, snap),
			RecordedAt:    time.Now(),
		}
		result.LedgerAppends = append(result.LedgerAppends, record)

		payout := float64(seq)
		seqCopy := seq
		result.Events = append(result.Events,
			e.buildEventPair(pool, snap.GameID, models.WinTypeScoreChange, home, away, &seqCopy, &payout)...)
	}

	// The final score also pays a terminal bonus, keyed without a sequence
	// number and never added to the ledger.
	if snap.IsFinal() {
		bonus := pool.Payouts.FinalBonus
		result.Events = append(result.Events,
			e.buildEventPair(pool, snap.GameID, models.WinTypeScoreChangeFinal, home, away, nil, &bonus)...)
	}

	return nil
}

// periodMarkers tags a ledger record with the game moment it was captured at
func periodMarkers(seq int, snap *models.GameSnapshot) []string {
	var markers []string
	if seq == 0 {
		markers = append(markers, "kickoff")
	}
	if snap.IsHalftime {
		markers = append(markers, "halftime")
	}
	return markers
}

// ReplayLedger rebuilds the score-change win events implied by an existing
// ledger. Used by the recompute path, where the ledger survives a wipe of
// the win-event table and remains the source of truth for sequences.
func (e *WinnerEngine) ReplayLedger(pool *models.Pool, records []models.ScoreChangeRecord) []models.WinEvent {
	var events []models.WinEvent
	for _, record := range records {
		seq := record.Sequence
		payout := float64(seq)
		events = append(events,
			e.buildEventPair(pool, record.GameID, models.WinTypeScoreChange, record.HomeScore, record.AwayScore, &seq, &payout)...)
	}
	return events
}

// buildEventPair emits the forward win event and, when the pool has reverse
// scoring enabled, its reverse counterpart. When both last digits are equal
// the two resolutions land on the same cell, so only the forward tag is
// emitted: the same cell is never awarded twice under two labels for one
// milestone.
func (e *WinnerEngine) buildEventPair(pool *models.Pool, gameID string, tag models.WinType, home, away int, sequence *int, payout *float64) []models.WinEvent {
	forward := models.ResolveCell(home, away, pool.Grid, false)
	events := []models.WinEvent{e.buildEvent(pool, gameID, tag, forward, sequence, payout)}

	if pool.ReverseScoringEnabled {
		reverse := models.ResolveCell(home, away, pool.Grid, true)
		if reverse != forward {
			events = append(events, e.buildEvent(pool, gameID, models.ReverseOf(tag), reverse, sequence, payout))
		}
	}
	return events
}

func (e *WinnerEngine) buildEvent(pool *models.Pool, gameID string, tag models.WinType, cell models.Cell, sequence *int, payout *float64) models.WinEvent {
	return models.WinEvent{
		GameID:           gameID,
		PoolID:           pool.ID,
		WinType:          tag,
		Cell:             &cell,
		Payout:           payout,
		ParticipantLabel: pool.OwnerOf(cell),
		Sequence:         sequence,
		DedupeKey:        models.BuildDedupeKey(gameID, tag, sequence),
		RecordedAt:       time.Now(),
	}
}
