package services

import (
	"context"
	"sort"
	"testing"

	"squares-app-go/database"
	"squares-app-go/models"
)

// In-memory repository fakes shared by the service-layer tests.

type memPoolRepo struct {
	pools map[string]*models.Pool
}

func newMemPoolRepo(pools ...*models.Pool) *memPoolRepo {
	repo := &memPoolRepo{pools: make(map[string]*models.Pool)}
	for _, pool := range pools {
		repo.pools[pool.ID] = pool
	}
	return repo
}

func (r *memPoolRepo) GetByID(_ context.Context, poolID string) (*models.Pool, error) {
	return r.pools[poolID], nil
}

func (r *memPoolRepo) FindByGameID(_ context.Context, gameID string) (*models.Pool, error) {
	for _, pool := range r.pools {
		for _, id := range pool.GameIDs {
			if id == gameID {
				return pool, nil
			}
		}
	}
	return nil, nil
}

func (r *memPoolRepo) Upsert(_ context.Context, pool *models.Pool) error {
	r.pools[pool.ID] = pool
	return nil
}

type memGameStateRepo struct {
	states map[string]*models.GameState
}

func newMemGameStateRepo() *memGameStateRepo {
	return &memGameStateRepo{states: make(map[string]*models.GameState)}
}

func (r *memGameStateRepo) Get(_ context.Context, gameID string) (*models.GameState, error) {
	state, ok := r.states[gameID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (r *memGameStateRepo) Upsert(_ context.Context, state *models.GameState) error {
	copied := *state
	r.states[state.GameID] = &copied
	return nil
}

func (r *memGameStateRepo) RecordSyncError(_ context.Context, gameID, message string) error {
	state, ok := r.states[gameID]
	if !ok {
		state = &models.GameState{GameID: gameID}
		r.states[gameID] = state
	}
	state.LastError = message
	return nil
}

type memWinEventRepo struct {
	events map[string]models.WinEvent
}

func newMemWinEventRepo() *memWinEventRepo {
	return &memWinEventRepo{events: make(map[string]models.WinEvent)}
}

func (r *memWinEventRepo) InsertIfAbsent(_ context.Context, event *models.WinEvent) (bool, error) {
	if _, exists := r.events[event.DedupeKey]; exists {
		return false, nil
	}
	r.events[event.DedupeKey] = *event
	return true, nil
}

func (r *memWinEventRepo) GetByGame(_ context.Context, gameID string) ([]models.WinEvent, error) {
	var out []models.WinEvent
	for _, event := range r.events {
		if event.GameID == gameID {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DedupeKey < out[j].DedupeKey })
	return out, nil
}

func (r *memWinEventRepo) GetByPool(_ context.Context, poolID string) ([]models.WinEvent, error) {
	var out []models.WinEvent
	for _, event := range r.events {
		if event.PoolID == poolID {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DedupeKey < out[j].DedupeKey })
	return out, nil
}

func (r *memWinEventRepo) DeleteByGame(_ context.Context, gameID string) (int64, error) {
	var deleted int64
	for key, event := range r.events {
		if event.GameID == gameID {
			delete(r.events, key)
			deleted++
		}
	}
	return deleted, nil
}

type memLedgerRepo struct {
	records map[string][]models.ScoreChangeRecord
	// failNext forces the next Append to report a sequence conflict.
	failNext bool
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{records: make(map[string][]models.ScoreChangeRecord)}
}

func (r *memLedgerRepo) Append(_ context.Context, record *models.ScoreChangeRecord) error {
	if r.failNext {
		r.failNext = false
		return database.ErrSequenceConflict
	}
	for _, existing := range r.records[record.GameID] {
		if existing.Sequence == record.Sequence {
			return database.ErrSequenceConflict
		}
	}
	r.records[record.GameID] = append(r.records[record.GameID], *record)
	return nil
}

func (r *memLedgerRepo) Latest(_ context.Context, gameID string) (*models.ScoreChangeRecord, error) {
	records := r.records[gameID]
	if len(records) == 0 {
		return nil, nil
	}
	copied := records[len(records)-1]
	return &copied, nil
}

func (r *memLedgerRepo) ListByGame(_ context.Context, gameID string) ([]models.ScoreChangeRecord, error) {
	out := make([]models.ScoreChangeRecord, len(r.records[gameID]))
	copy(out, r.records[gameID])
	return out, nil
}

// newTestScoring wires a scoring service over in-memory fakes
func newTestScoring(pool *models.Pool) (*ScoringService, *memWinEventRepo, *memLedgerRepo, *memGameStateRepo) {
	winEvents := newMemWinEventRepo()
	ledger := newMemLedgerRepo()
	gameStates := newMemGameStateRepo()
	scoring := NewScoringService(newMemPoolRepo(pool), gameStates, winEvents, ledger)
	return scoring, winEvents, ledger, gameStates
}

func trackedPool(mode models.ScoringMode, reverse bool) *models.Pool {
	pool := testPool(mode, reverse)
	pool.GameIDs = []string{"g1"}
	return pool
}

func TestProcessSnapshotUntrackedGame(t *testing.T) {
	scoring, _, _, _ := newTestScoring(trackedPool(models.ScoringModeQuarter, false))

	snap := snapshot(models.GameStatusInProgress, 0, 0, 1)
	snap.GameID = "untracked-game"
	_, err := scoring.ProcessSnapshot(context.Background(), snap)
	if err == nil {
		t.Fatal("expected error for untracked game")
	}
}

func TestProcessSnapshotUnlockedGrid(t *testing.T) {
	pool := trackedPool(models.ScoringModeQuarter, false)
	pool.Grid.LockedAt = nil
	scoring, _, _, _ := newTestScoring(pool)

	snap := snapshot(models.GameStatusInProgress, 0, 0, 1)
	snap.GameID = "g1"
	if _, err := scoring.ProcessSnapshot(context.Background(), snap); err == nil {
		t.Fatal("expected error for unlocked grid")
	}
}

func TestProcessSnapshotScoreChangeFlow(t *testing.T) {
	scoring, winEvents, ledger, gameStates := newTestScoring(trackedPool(models.ScoringModeScoreChange, false))
	ctx := context.Background()

	// Kickoff.
	outcome, err := scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusInProgress, 0, 0, 1))
	if err != nil {
		t.Fatalf("ProcessSnapshot: %v", err)
	}
	if outcome.EventsInserted != 1 || outcome.LedgerAppends != 1 {
		t.Errorf("kickoff outcome = %+v", outcome)
	}
	if outcome.Completed {
		t.Error("kickoff should not complete the game")
	}

	// Redelivery of the same snapshot is a full no-op.
	outcome, err = scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusInProgress, 0, 0, 1))
	if err != nil {
		t.Fatalf("ProcessSnapshot redelivery: %v", err)
	}
	if outcome.EventsInserted != 0 || outcome.LedgerAppends != 0 {
		t.Errorf("redelivery outcome = %+v", outcome)
	}

	// Two touchdowns and a final.
	if _, err := scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusInProgress, 7, 0, 2)); err != nil {
		t.Fatalf("ProcessSnapshot: %v", err)
	}
	outcome, err = scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusFinal, 7, 3, 4))
	if err != nil {
		t.Fatalf("ProcessSnapshot final: %v", err)
	}
	if !outcome.Completed {
		t.Error("final snapshot should mark the game completed")
	}
	// New score state plus the terminal bonus.
	if outcome.EventsInserted != 2 || outcome.LedgerAppends != 1 {
		t.Errorf("final outcome = %+v", outcome)
	}

	records, _ := ledger.ListByGame(ctx, "g1")
	if len(records) != 3 {
		t.Errorf("ledger has %d records, want 3", len(records))
	}
	for i, record := range records {
		if record.Sequence != i {
			t.Errorf("record %d sequence = %d", i, record.Sequence)
		}
	}

	events, _ := winEvents.GetByGame(ctx, "g1")
	if len(events) != 4 {
		t.Errorf("recorded %d events, want 4", len(events))
	}

	state, _ := gameStates.Get(ctx, "g1")
	if state == nil || !state.IsCompleted() {
		t.Errorf("game state not completed: %+v", state)
	}
}

func TestProcessSnapshotValidationErrorRecorded(t *testing.T) {
	scoring, _, _, gameStates := newTestScoring(trackedPool(models.ScoringModeScoreChange, false))
	ctx := context.Background()

	if _, err := scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusInProgress, 14, 3, 3)); err != nil {
		t.Fatalf("ProcessSnapshot: %v", err)
	}

	// Score goes backwards: rejected, surfaced on the state record.
	_, err := scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusInProgress, 7, 3, 3))
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	state, _ := gameStates.Get(ctx, "g1")
	if state == nil || state.LastError == "" {
		t.Error("sync error not recorded on game state")
	}
	// The accepted score survives the rejected poll.
	if state.HomeScore != 14 {
		t.Errorf("state home score = %d, want 14", state.HomeScore)
	}
}

func TestProcessSnapshotSequenceConflict(t *testing.T) {
	scoring, _, ledger, _ := newTestScoring(trackedPool(models.ScoringModeScoreChange, false))
	ctx := context.Background()

	ledger.failNext = true
	_, err := scoring.ProcessSnapshot(ctx, snapshot(models.GameStatusInProgress, 0, 0, 1))
	if !IsConcurrencyInvariantError(err) {
		t.Errorf("expected concurrency invariant error, got %v", err)
	}
}

func TestRecomputeGameQuarterMode(t *testing.T) {
	scoring, winEvents, _, _ := newTestScoring(trackedPool(models.ScoringModeQuarter, false))
	ctx := context.Background()

	snap := snapshot(models.GameStatusFinal, 14, 10, 4)
	snap.PeriodScores = map[int]models.PeriodScore{
		1: {Home: 7, Away: 0},
		2: {Home: 7, Away: 3},
		3: {Home: 14, Away: 3},
	}
	if _, err := scoring.ProcessSnapshot(ctx, snap); err != nil {
		t.Fatalf("ProcessSnapshot: %v", err)
	}

	// The provider corrects the final score to 14-13.
	corrected := snapshot(models.GameStatusFinal, 14, 13, 4)
	corrected.PeriodScores = snap.PeriodScores

	outcome, err := scoring.RecomputeGame(ctx, "g1", corrected)
	if err != nil {
		t.Fatalf("RecomputeGame: %v", err)
	}
	if outcome.EventsInserted != 4 {
		t.Errorf("recompute inserted %d events, want 4", outcome.EventsInserted)
	}

	events, _ := winEvents.GetByGame(ctx, "g1")
	if len(events) != 4 {
		t.Fatalf("after recompute %d events, want 4", len(events))
	}
	for _, event := range events {
		if event.WinType == models.WinTypeNormal {
			// 14-13 resolves to row 4, col 3.
			if *event.Cell != (models.Cell{Row: 4, Col: 3}) {
				t.Errorf("corrected final cell = %v, want {4 3}", *event.Cell)
			}
		}
	}
}

func TestRecomputeGameScoreChangeReplaysLedger(t *testing.T) {
	scoring, winEvents, _, _ := newTestScoring(trackedPool(models.ScoringModeScoreChange, false))
	ctx := context.Background()

	for _, snap := range []*models.GameSnapshot{
		snapshot(models.GameStatusInProgress, 0, 0, 1),
		snapshot(models.GameStatusInProgress, 7, 0, 2),
		snapshot(models.GameStatusFinal, 7, 3, 4),
	} {
		if _, err := scoring.ProcessSnapshot(ctx, snap); err != nil {
			t.Fatalf("ProcessSnapshot: %v", err)
		}
	}

	before, _ := winEvents.GetByGame(ctx, "g1")

	corrected := snapshot(models.GameStatusFinal, 7, 3, 4)
	if _, err := scoring.RecomputeGame(ctx, "g1", corrected); err != nil {
		t.Fatalf("RecomputeGame: %v", err)
	}

	after, _ := winEvents.GetByGame(ctx, "g1")
	if len(after) != len(before) {
		t.Errorf("recompute changed event count: before %d after %d", len(before), len(after))
	}
	for i := range after {
		if after[i].DedupeKey != before[i].DedupeKey {
			t.Errorf("event %d key changed: %q -> %q", i, before[i].DedupeKey, after[i].DedupeKey)
		}
	}
}
