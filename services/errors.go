package services

import (
	"errors"
	"fmt"
)

// ErrGameNotFound means the provider has no game for the requested id.
// Polling for that game should stop; the operator sees the message.
var ErrGameNotFound = errors.New("game not found at score provider")

// ErrProviderUnavailable is a transient provider failure (network error or
// non-2xx). The next poll retries; nothing is surfaced beyond the log and
// the game state's lastError field.
var ErrProviderUnavailable = errors.New("score provider unavailable")

// ValidationError marks a malformed snapshot. The engine drops the poll and
// the previous state is retained.
type ValidationError struct {
	GameID string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot for game %s: %s", e.GameID, e.Reason)
}

// ConcurrencyInvariantError marks a ledger sequence gap or duplicate. This
// is fatal for the game's processing and requires a manual recompute; it is
// never silently repaired.
type ConcurrencyInvariantError struct {
	GameID   string
	Expected int
	Got      int
}

func (e *ConcurrencyInvariantError) Error() string {
	return fmt.Sprintf("ledger sequence invariant violated for game %s: expected %d, got %d",
		e.GameID, e.Expected, e.Got)
}

// IsValidationError reports whether err is a snapshot validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConcurrencyInvariantError reports whether err is a ledger invariant
// violation
func IsConcurrencyInvariantError(err error) bool {
	var ce *ConcurrencyInvariantError
	return errors.As(err, &ce)
}
