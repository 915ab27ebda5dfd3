package interfaces

import (
	"context"

	"squares-app-go/models"
	"squares-app-go/services"
)

// ScoreSource defines the normalized external score feed contract. Both the
// live provider adapter and the deterministic mock implement it.
type ScoreSource interface {
	GetGameSnapshot(ctx context.Context, gameID string) (*models.GameSnapshot, error)
	HealthCheck() bool
}

// ScoringPipeline defines the winner determination entry points
type ScoringPipeline interface {
	ProcessSnapshot(ctx context.Context, snap *models.GameSnapshot) (*services.ProcessOutcome, error)
	RecomputeGame(ctx context.Context, gameID string, corrected *models.GameSnapshot) (*services.ProcessOutcome, error)
	EventsForPool(ctx context.Context, poolID string) ([]models.WinEvent, error)
	StateForGame(ctx context.Context, gameID string) (*models.GameState, error)
}

// BoardAggregator defines the read-side views over recorded win events
type BoardAggregator interface {
	BoardForPool(ctx context.Context, poolID string) ([]services.CellBadge, error)
	LeaderboardForPool(ctx context.Context, poolID string) ([]services.LeaderboardEntry, error)
}

// AuthService defines authentication operations used by handlers and middleware
type AuthService interface {
	Login(email, password string) (*models.AuthResponse, error)
	GenerateToken(user *models.User) (string, error)
	GetUserFromToken(tokenString string) (*models.User, error)
}
