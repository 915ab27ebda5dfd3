package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"squares-app-go/database"
	"squares-app-go/models"
)

// PoolRepository is the slice of pool storage the scoring pipeline needs
type PoolRepository interface {
	GetByID(ctx context.Context, poolID string) (*models.Pool, error)
	FindByGameID(ctx context.Context, gameID string) (*models.Pool, error)
	Upsert(ctx context.Context, pool *models.Pool) error
}

// GameStateRepository persists per-game processing state
type GameStateRepository interface {
	Get(ctx context.Context, gameID string) (*models.GameState, error)
	Upsert(ctx context.Context, state *models.GameState) error
	RecordSyncError(ctx context.Context, gameID, message string) error
}

// WinEventRepository is the idempotent win recorder
type WinEventRepository interface {
	InsertIfAbsent(ctx context.Context, event *models.WinEvent) (bool, error)
	GetByGame(ctx context.Context, gameID string) ([]models.WinEvent, error)
	GetByPool(ctx context.Context, poolID string) ([]models.WinEvent, error)
	DeleteByGame(ctx context.Context, gameID string) (int64, error)
}

// ScoreChangeRepository is the append-only ledger
type ScoreChangeRepository interface {
	Append(ctx context.Context, record *models.ScoreChangeRecord) error
	Latest(ctx context.Context, gameID string) (*models.ScoreChangeRecord, error)
	ListByGame(ctx context.Context, gameID string) ([]models.ScoreChangeRecord, error)
}

// ProcessOutcome summarizes what one snapshot ingestion did
type ProcessOutcome struct {
	Snapshot       *models.GameSnapshot `json:"snapshot"`
	EventsInserted int                  `json:"eventsInserted"`
	LedgerAppends  int                  `json:"ledgerAppends"`
	Completed      bool                 `json:"completed"`
}

// ScoringService drives the winner-determination pipeline: it feeds
// snapshots through the engine, records win events idempotently, advances
// the ledger, and persists game state. Every entry point (poller, sync
// endpoint, admin corrections) converges here.
type ScoringService struct {
	engine     *WinnerEngine
	pools      PoolRepository
	gameStates GameStateRepository
	winEvents  WinEventRepository
	ledger     ScoreChangeRepository
}

// NewScoringService creates the scoring pipeline
func NewScoringService(pools PoolRepository, gameStates GameStateRepository, winEvents WinEventRepository, ledger ScoreChangeRepository) *ScoringService {
	return &ScoringService{
		engine:     NewWinnerEngine(),
		pools:      pools,
		gameStates: gameStates,
		winEvents:  winEvents,
		ledger:     ledger,
	}
}

// ProcessSnapshot ingests one normalized snapshot for the pool that owns the
// game. Safe to call with duplicate or re-delivered snapshots: the quarter
// watermark, ledger comparison and dedupe key each stop re-firing.
func (s *ScoringService) ProcessSnapshot(ctx context.Context, snap *models.GameSnapshot) (*ProcessOutcome, error) {
	pool, err := s.pools.FindByGameID(ctx, snap.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pool for game %s: %w", snap.GameID, err)
	}
	if pool == nil {
		return nil, fmt.Errorf("no pool tracks game %s", snap.GameID)
	}
	if !pool.Grid.IsLocked() {
		return nil, fmt.Errorf("pool %s grid is not locked yet", pool.ID)
	}

	state, err := s.gameStates.Get(ctx, snap.GameID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.GameState{GameID: snap.GameID, PoolID: pool.ID}
	}

	lastLedger, err := s.ledger.Latest(ctx, snap.GameID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Evaluate(pool, state, lastLedger, snap)
	if err != nil {
		// Malformed or regressing snapshots leave the previous state intact;
		// only the error message is surfaced to the UI.
		if IsValidationError(err) {
			log.Printf("ScoringService: Dropping snapshot for game %s: %v", snap.GameID, err)
			if recErr := s.gameStates.RecordSyncError(ctx, snap.GameID, err.Error()); recErr != nil {
				log.Printf("ScoringService: Failed to record sync error: %v", recErr)
			}
		}
		return nil, err
	}

	outcome := &ProcessOutcome{Snapshot: snap}

	// Win events go in before ledger appends: if the ledger write fails the
	// next poll recomputes the same candidates and the dedupe key swallows
	// the repeats. The reverse order could advance the ledger past an
	// unrecorded win and silence it forever.
	for i := range result.Events {
		inserted, err := s.winEvents.InsertIfAbsent(ctx, &result.Events[i])
		if err != nil {
			return nil, fmt.Errorf("failed to record win event %s: %w", result.Events[i].DedupeKey, err)
		}
		if inserted {
			outcome.EventsInserted++
		}
	}

	for i := range result.LedgerAppends {
		if err := s.ledger.Append(ctx, &result.LedgerAppends[i]); err != nil {
			if errors.Is(err, database.ErrSequenceConflict) {
				// Another writer advanced the ledger underneath us. Fatal for
				// this game until an operator recomputes; never auto-repaired.
				return nil, &ConcurrencyInvariantError{
					GameID:   snap.GameID,
					Expected: result.LedgerAppends[i].Sequence,
					Got:      result.LedgerAppends[i].Sequence,
				}
			}
			return nil, err
		}
		outcome.LedgerAppends++
	}

	state.ApplySnapshot(snap)
	state.ScoredPeriod = result.ScoredPeriod
	if err := s.gameStates.Upsert(ctx, state); err != nil {
		return nil, err
	}

	outcome.Completed = snap.IsFinal()
	if outcome.EventsInserted > 0 {
		log.Printf("ScoringService: Game %s processed - %d new wins, %d ledger appends, score %s",
			snap.GameID, outcome.EventsInserted, outcome.LedgerAppends, snap.ScoreString())
	}

	return outcome, nil
}

// RecomputeGame is the named wipe-and-replay correction: delete every win
// event for the game, rebuild score-change wins from the still-valid
// ledger, then re-run the engine from a zero watermark against the
// corrected snapshot. Deliberately whole-game rather than a diff.
func (s *ScoringService) RecomputeGame(ctx context.Context, gameID string, corrected *models.GameSnapshot) (*ProcessOutcome, error) {
	pool, err := s.pools.FindByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("no pool tracks game %s", gameID)
	}

	deleted, err := s.winEvents.DeleteByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to wipe win events for game %s: %w", gameID, err)
	}
	log.Printf("ScoringService: Recompute wiped %d win events for game %s", deleted, gameID)

	// Reset the quarter watermark so boundaries re-fire from scratch.
	state, err := s.gameStates.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		state.ScoredPeriod = 0
		if err := s.gameStates.Upsert(ctx, state); err != nil {
			return nil, err
		}
	}

	// Score-change wins replay straight off the ledger.
	if pool.Mode != models.ScoringModeQuarter {
		records, err := s.ledger.ListByGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		for _, event := range s.engine.ReplayLedger(pool, records) {
			if _, err := s.winEvents.InsertIfAbsent(ctx, &event); err != nil {
				return nil, fmt.Errorf("failed to replay win event %s: %w", event.DedupeKey, err)
			}
		}
	}

	return s.ProcessSnapshot(ctx, corrected)
}

// EventsForPool returns all recorded win events across a pool's games
func (s *ScoringService) EventsForPool(ctx context.Context, poolID string) ([]models.WinEvent, error) {
	return s.winEvents.GetByPool(ctx, poolID)
}

// StateForGame returns the persisted processing state for a game
func (s *ScoringService) StateForGame(ctx context.Context, gameID string) (*models.GameState, error) {
	return s.gameStates.Get(ctx, gameID)
}
