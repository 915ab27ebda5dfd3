package database

import (
	"context"
	"time"
)

// Common timeout durations for database operations
const (
	// ShortTimeout for single-document reads and writes
	ShortTimeout = 5 * time.Second

	// MediumTimeout for queries returning multiple documents
	MediumTimeout = 10 * time.Second

	// LongTimeout for bulk deletes and recompute sweeps
	LongTimeout = 30 * time.Second
)

// withTimeout bounds a caller context for one repository operation
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
