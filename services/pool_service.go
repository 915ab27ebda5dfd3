package services

import (
	"context"
	"fmt"
	"log"

	"squares-app-go/models"
)

// PoolService covers the minimal pool lifecycle the scoring core depends
// on: creation with a scoring configuration, square assignment before lock,
// and the one-shot grid lock that draws the digit permutations.
type PoolService struct {
	pools PoolRepository
}

// NewPoolService creates a pool service
func NewPoolService(pools PoolRepository) *PoolService {
	return &PoolService{pools: pools}
}

// CreatePool creates an unlocked pool owned by a commissioner
func (s *PoolService) CreatePool(ctx context.Context, name string, commissionerID int, mode models.ScoringMode, reverse bool, payouts models.PayoutTable) (*models.Pool, error) {
	pool, err := models.NewPool(name, commissionerID, mode, reverse)
	if err != nil {
		return nil, err
	}
	pool.Payouts = payouts

	if err := s.pools.Upsert(ctx, pool); err != nil {
		return nil, err
	}

	log.Printf("PoolService: Created pool %s (%s, mode=%s, reverse=%t)", pool.ID, name, mode, reverse)
	return pool, nil
}

// GetPool returns a pool by id
func (s *PoolService) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	pool, err := s.pools.GetByID(ctx, poolID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("pool %s not found", poolID)
	}
	return pool, nil
}

// ClaimSquare assigns a cell to a participant label. After lock this is a
// commissioner override; before lock it is the normal claim path.
func (s *PoolService) ClaimSquare(ctx context.Context, poolID string, cell models.Cell, label string) (*models.Pool, error) {
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	if cell.Row < 0 || cell.Row > 9 || cell.Col < 0 || cell.Col > 9 {
		return nil, fmt.Errorf("cell %s out of range", cell)
	}
	if owner := pool.OwnerOf(cell); owner != "" && owner != label {
		return nil, fmt.Errorf("cell %s already owned by %q", cell, owner)
	}

	pool.Squares[cell.String()] = label
	if err := s.pools.Upsert(ctx, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// AttachGame ties a game id to a pool so polls can find the pool
func (s *PoolService) AttachGame(ctx context.Context, poolID, gameID string) (*models.Pool, error) {
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	for _, id := range pool.GameIDs {
		if id == gameID {
			return pool, nil
		}
	}
	pool.GameIDs = append(pool.GameIDs, gameID)
	if err := s.pools.Upsert(ctx, pool); err != nil {
		return nil, err
	}

	log.Printf("PoolService: Attached game %s to pool %s", gameID, poolID)
	return pool, nil
}

// LockGrid draws random digit permutations for both axes. Digits are
// immutable once drawn; locking twice is an error.
func (s *PoolService) LockGrid(ctx context.Context, poolID string) (*models.Pool, error) {
	pool, err := s.GetPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	if err := pool.LockGrid(); err != nil {
		return nil, err
	}
	if err := pool.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("generated grid invalid: %w", err)
	}

	if err := s.pools.Upsert(ctx, pool); err != nil {
		return nil, err
	}

	log.Printf("PoolService: Locked grid for pool %s", poolID)
	return pool, nil
}
