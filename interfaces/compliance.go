package interfaces

import (
	"squares-app-go/services"
)

// Interface compliance checks - these will fail to compile if services don't implement interfaces
var (
	// Verify ScoreSource implementations
	_ ScoreSource = (*services.ESPNService)(nil)
	_ ScoreSource = (*services.MockScoreSource)(nil)

	// Verify scoring pipeline implementation
	_ ScoringPipeline = (*services.ScoringService)(nil)

	// Verify read-side implementation
	_ BoardAggregator = (*services.AggregatorService)(nil)

	// Verify auth implementation
	_ AuthService = (*services.AuthService)(nil)
)
