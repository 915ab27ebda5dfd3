package services

import (
	"context"
	"log"

	"squares-app-go/models"
)

// ScoreSource is the normalized external score feed contract
type ScoreSource interface {
	GetGameSnapshot(ctx context.Context, gameID string) (*models.GameSnapshot, error)
	HealthCheck() bool
}

// GameSyncService ties the score source to the scoring pipeline: one call
// fetches the provider's current view and runs it through winner
// determination. Both the poll scheduler and the manual sync endpoint go
// through here.
type GameSyncService struct {
	source  ScoreSource
	scoring *ScoringService
}

// NewGameSyncService creates a sync service over the given score source
func NewGameSyncService(source ScoreSource, scoring *ScoringService) *GameSyncService {
	return &GameSyncService{
		source:  source,
		scoring: scoring,
	}
}

// SyncGame fetches the current snapshot for a game and processes it.
// Provider failures are recorded on the game state (the UI keeps the last
// good scores) and returned to the caller.
func (s *GameSyncService) SyncGame(ctx context.Context, gameID string) (*ProcessOutcome, error) {
	snapshot, err := s.source.GetGameSnapshot(ctx, gameID)
	if err != nil {
		log.Printf("GameSyncService: Fetch failed for game %s: %v", gameID, err)
		if recErr := s.scoring.gameStates.RecordSyncError(ctx, gameID, err.Error()); recErr != nil {
			log.Printf("GameSyncService: Failed to record sync error for game %s: %v", gameID, recErr)
		}
		return nil, err
	}

	return s.scoring.ProcessSnapshot(ctx, snapshot)
}

// StateForGame returns the last synced state for a game, nil if never synced
func (s *GameSyncService) StateForGame(ctx context.Context, gameID string) (*models.GameState, error) {
	return s.scoring.StateForGame(ctx, gameID)
}

// HealthCheck reports whether the upstream provider is reachable
func (s *GameSyncService) HealthCheck() bool {
	return s.source.HealthCheck()
}
