package models

import "testing"

func TestNewPoolRejectsUnknownMode(t *testing.T) {
	if _, err := NewPool("bad", 1, "best_ball", false); err == nil {
		t.Error("expected error for unknown scoring mode")
	}
}

func TestLockGridOnce(t *testing.T) {
	pool, err := NewPool("test", 1, ScoringModeQuarter, false)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	if pool.Grid.IsLocked() {
		t.Fatal("new pool should start unlocked")
	}
	if err := pool.LockGrid(); err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	if !pool.Grid.IsLocked() {
		t.Fatal("pool should be locked after LockGrid")
	}
	if err := pool.LockGrid(); err == nil {
		t.Error("second lock should fail")
	}
}

func TestOwnerOf(t *testing.T) {
	pool, _ := NewPool("test", 1, ScoringModeQuarter, false)
	pool.Squares["2,5"] = "alice"

	if got := pool.OwnerOf(Cell{Row: 2, Col: 5}); got != "alice" {
		t.Errorf("OwnerOf = %q, want alice", got)
	}
	if got := pool.OwnerOf(Cell{Row: 0, Col: 0}); got != "" {
		t.Errorf("unclaimed cell owner = %q, want empty", got)
	}
}

func TestQuarterPayoutFallsBackToForwardTier(t *testing.T) {
	pool, _ := NewPool("test", 1, ScoringModeQuarter, true)
	pool.Payouts = PayoutTable{
		ByWinType: map[WinType]float64{
			WinTypeQ1:     25,
			WinTypeNormal: 100,
		},
	}

	if got := pool.QuarterPayout(WinTypeQ1); got == nil || *got != 25 {
		t.Errorf("QuarterPayout(q1) = %v, want 25", got)
	}
	// Reverse variant not configured, pays the forward tier.
	if got := pool.QuarterPayout(ReverseOf(WinTypeQ1)); got == nil || *got != 25 {
		t.Errorf("QuarterPayout(q1_reverse) = %v, want 25", got)
	}
	if got := pool.QuarterPayout(WinTypeReverse); got == nil || *got != 100 {
		t.Errorf("QuarterPayout(reverse) = %v, want 100", got)
	}
	// Unconfigured tier pays nothing.
	if got := pool.QuarterPayout(WinTypeHalftime); got != nil {
		t.Errorf("QuarterPayout(halftime) = %v, want nil", got)
	}
}
