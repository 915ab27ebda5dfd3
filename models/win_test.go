package models

import "testing"

func TestReverseForwardRoundTrip(t *testing.T) {
	forwardTags := []WinType{
		WinTypeQ1, WinTypeHalftime, WinTypeQ3, WinTypeNormal,
		WinTypeScoreChange, WinTypeScoreChangeFinal,
		WinTypeHybridQ1, WinTypeHybridHalftime, WinTypeHybridQ3, WinTypeHybridNormal,
	}

	for _, tag := range forwardTags {
		reverse := ReverseOf(tag)
		if !IsReverse(reverse) {
			t.Errorf("ReverseOf(%s) = %s, not recognized as reverse", tag, reverse)
		}
		if IsReverse(tag) {
			t.Errorf("forward tag %s recognized as reverse", tag)
		}
		if got := ForwardOf(reverse); got != tag {
			t.Errorf("ForwardOf(ReverseOf(%s)) = %s, want %s", tag, got, tag)
		}
	}
}

func TestReverseOfNormalIsPlainReverse(t *testing.T) {
	if got := ReverseOf(WinTypeNormal); got != WinTypeReverse {
		t.Errorf("ReverseOf(normal) = %s, want %s", got, WinTypeReverse)
	}
	if got := ForwardOf(WinTypeReverse); got != WinTypeNormal {
		t.Errorf("ForwardOf(reverse) = %s, want %s", got, WinTypeNormal)
	}
}

func TestRoundRankOrdering(t *testing.T) {
	// Within every tier: reverse < forward < composite.
	tiers := []WinType{
		WinTypeScoreChange, WinTypeScoreChangeFinal,
		WinTypeHybridQ1, WinTypeHybridHalftime, WinTypeHybridQ3, WinTypeHybridNormal,
		WinTypeQ1, WinTypeHalftime, WinTypeQ3, WinTypeNormal,
	}
	for _, tier := range tiers {
		if !(Rank(ReverseOf(tier)) < Rank(tier)) {
			t.Errorf("rank of %s should exceed its reverse", tier)
		}
		if !(Rank(tier) < Rank(CompositeOf(tier))) {
			t.Errorf("composite of %s should outrank the forward tag", tier)
		}
	}

	// Playoff rounds escalate toward the championship.
	rounds := []WinType{
		WinTypeWildCard, WinTypeDivisional, WinTypeConference,
		WinTypeSuperBowlHalftime, WinTypeSuperBowl,
	}
	for i := 1; i < len(rounds); i++ {
		if !(Rank(rounds[i-1]) < Rank(rounds[i])) {
			t.Errorf("%s should outrank %s", rounds[i], rounds[i-1])
		}
	}

	// Every playoff round sits below in-game tags.
	if !(Rank(WinTypeSuperBowl) < Rank(ReverseOf(WinTypeScoreChange))) {
		t.Error("playoff rounds should rank below in-game tags")
	}

	// The final-score tag tops the quarter tiers.
	if !(Rank(WinTypeQ3) < Rank(WinTypeNormal)) {
		t.Error("normal should outrank q3")
	}
}

func TestRoundRankUnique(t *testing.T) {
	seen := make(map[int]WinType)
	for tag, rank := range RoundRank {
		if other, dup := seen[rank]; dup {
			t.Errorf("rank %d shared by %s and %s", rank, tag, other)
		}
		seen[rank] = tag
	}
}

func TestRankUnknownTag(t *testing.T) {
	if got := Rank("no_such_tag"); got != 0 {
		t.Errorf("Rank(unknown) = %d, want 0", got)
	}
}

func TestBuildDedupeKey(t *testing.T) {
	seq := 3
	tests := []struct {
		name     string
		winType  WinType
		sequence *int
		want     string
	}{
		{"without sequence", WinTypeHalftime, nil, "g1:halftime"},
		{"with sequence", WinTypeScoreChange, &seq, "g1:score_change:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildDedupeKey("g1", tt.winType, tt.sequence)
			if got != tt.want {
				t.Errorf("BuildDedupeKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
