package services

import (
	"context"
	"testing"

	"squares-app-go/models"
)

func TestAdminScoringFullGame(t *testing.T) {
	scoring, winEvents, _, _ := newTestScoring(trackedPool(models.ScoringModeQuarter, false))
	admin := NewAdminScoringService(scoring)
	ctx := context.Background()

	steps := []AdminScoringRequest{
		{GameID: "g1", Action: AdminActionStartGame},
		{GameID: "g1", Action: AdminActionRecordScore, HomeScore: 7, Period: 1},
		{GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 7, Period: 1},
		{GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 7, AwayScore: 3, Period: 2},
		{GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 14, AwayScore: 3, Period: 3},
		{GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 14, AwayScore: 10, Period: 4},
	}

	var last *ProcessOutcome
	for i, step := range steps {
		outcome, err := admin.Apply(ctx, &step)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, step.Action, err)
		}
		last = outcome
	}

	if !last.Completed {
		t.Error("ending period 4 should complete the game")
	}

	events, _ := winEvents.GetByGame(ctx, "g1")
	want := map[models.WinType]bool{
		models.WinTypeQ1:       false,
		models.WinTypeHalftime: false,
		models.WinTypeQ3:       false,
		models.WinTypeNormal:   false,
	}
	for _, event := range events {
		if _, ok := want[event.WinType]; ok {
			want[event.WinType] = true
		}
	}
	for winType, seen := range want {
		if !seen {
			t.Errorf("missing %s win after full game", winType)
		}
	}
}

func TestAdminScoringValidation(t *testing.T) {
	scoring, _, _, _ := newTestScoring(trackedPool(models.ScoringModeQuarter, false))
	admin := NewAdminScoringService(scoring)
	ctx := context.Background()

	tests := []struct {
		name string
		req  AdminScoringRequest
	}{
		{"missing game id", AdminScoringRequest{Action: AdminActionStartGame}},
		{"unknown action", AdminScoringRequest{GameID: "g1", Action: "fumble"}},
		{"period zero", AdminScoringRequest{GameID: "g1", Action: AdminActionEndPeriod, Period: 0}},
		{"period five", AdminScoringRequest{GameID: "g1", Action: AdminActionEndPeriod, Period: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := admin.Apply(ctx, &tt.req); !IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAdminScoringHalftimeMarker(t *testing.T) {
	scoring, _, ledger, _ := newTestScoring(trackedPool(models.ScoringModeScoreChange, false))
	admin := NewAdminScoringService(scoring)
	ctx := context.Background()

	if _, err := admin.Apply(ctx, &AdminScoringRequest{GameID: "g1", Action: AdminActionStartGame}); err != nil {
		t.Fatalf("start_game: %v", err)
	}
	// Ending period 2 is halftime; a simultaneous score change gets tagged.
	if _, err := admin.Apply(ctx, &AdminScoringRequest{
		GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 7, AwayScore: 3, Period: 2,
	}); err != nil {
		t.Fatalf("end_period: %v", err)
	}

	records, _ := ledger.ListByGame(ctx, "g1")
	if len(records) != 2 {
		t.Fatalf("ledger has %d records, want 2", len(records))
	}
	markers := records[1].PeriodMarkers
	if len(markers) != 1 || markers[0] != "halftime" {
		t.Errorf("halftime markers = %v", markers)
	}
}

func TestAdminRecompute(t *testing.T) {
	scoring, winEvents, _, gameStates := newTestScoring(trackedPool(models.ScoringModeQuarter, false))
	admin := NewAdminScoringService(scoring)
	ctx := context.Background()

	if _, err := admin.Recompute(ctx, "g1"); err == nil {
		t.Error("recompute without recorded state should fail")
	}

	for _, req := range []AdminScoringRequest{
		{GameID: "g1", Action: AdminActionStartGame},
		{GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 7, Period: 1},
		{GameID: "g1", Action: AdminActionEndPeriod, HomeScore: 7, AwayScore: 3, Period: 2},
	} {
		if _, err := admin.Apply(ctx, &req); err != nil {
			t.Fatalf("apply %s: %v", req.Action, err)
		}
	}

	before, _ := winEvents.GetByGame(ctx, "g1")

	outcome, err := admin.Recompute(ctx, "g1")
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if outcome.Completed {
		t.Error("recompute of an in-progress game reported completion")
	}

	// Boundary history on the state record lets every fired quarter re-fire.
	after, _ := winEvents.GetByGame(ctx, "g1")
	if len(after) != len(before) {
		t.Errorf("recompute changed event count: before %d after %d", len(before), len(after))
	}

	state, _ := gameStates.Get(ctx, "g1")
	if state.ScoredPeriod != 2 {
		t.Errorf("watermark after recompute = %d, want 2", state.ScoredPeriod)
	}
}
