package services

import (
	"context"
	"log"
	"sync"

	"squares-app-go/models"
)

// MockScoreSource simulates a game's score progression for development and
// demos, serving as a drop-in ScoreSource without hitting the real
// provider. Each call advances the scripted game one step.
type MockScoreSource struct {
	mu    sync.Mutex
	steps map[string]int
}

// NewMockScoreSource creates a mock provider
func NewMockScoreSource() *MockScoreSource {
	return &MockScoreSource{steps: make(map[string]int)}
}

// mockStep is one frame of the scripted game
type mockStep struct {
	status     models.GameStatus
	home, away int
	period     int
	clock      string
	isHalftime bool
	boundaries map[int]models.PeriodScore
}

// A short but representative script: kickoff, a Q1 touchdown, the Q1
// boundary, a halftime field goal, second-half scoring, and a final.
var mockScript = []mockStep{
	{status: models.GameStatusScheduled},
	{status: models.GameStatusInProgress, period: 1, clock: "12:44"},
	{status: models.GameStatusInProgress, home: 7, period: 1, clock: "4:10"},
	{status: models.GameStatusInProgress, home: 7, period: 2, clock: "15:00",
		boundaries: map[int]models.PeriodScore{1: {Home: 7}}},
	{status: models.GameStatusInProgress, home: 7, away: 3, period: 2, clock: "0:00", isHalftime: true,
		boundaries: map[int]models.PeriodScore{1: {Home: 7}, 2: {Home: 7, Away: 3}}},
	{status: models.GameStatusInProgress, home: 14, away: 3, period: 4, clock: "11:02",
		boundaries: map[int]models.PeriodScore{1: {Home: 7}, 2: {Home: 7, Away: 3}, 3: {Home: 14, Away: 3}}},
	{status: models.GameStatusFinal, home: 14, away: 10, period: 4, clock: "0:00",
		boundaries: map[int]models.PeriodScore{1: {Home: 7}, 2: {Home: 7, Away: 3}, 3: {Home: 14, Away: 3}}},
}

// GetGameSnapshot returns the next frame of the scripted game. Once the
// script ends it keeps returning the final frame, like a real feed.
func (m *MockScoreSource) GetGameSnapshot(ctx context.Context, gameID string) (*models.GameSnapshot, error) {
	m.mu.Lock()
	step := m.steps[gameID]
	if step < len(mockScript)-1 {
		m.steps[gameID]++
	}
	m.mu.Unlock()

	frame := mockScript[step]
	snapshot := &models.GameSnapshot{
		GameID:     gameID,
		Status:     frame.status,
		HomeTeam:   "HOME",
		AwayTeam:   "AWAY",
		Period:     frame.period,
		Clock:      frame.clock,
		IsHalftime: frame.isHalftime,
	}
	if frame.status != models.GameStatusScheduled {
		home, away := frame.home, frame.away
		snapshot.HomeScore = &home
		snapshot.AwayScore = &away
		snapshot.PeriodScores = frame.boundaries
	}

	log.Printf("MockScoreSource: Game %s step %d status=%s score=%s",
		gameID, step, snapshot.Status, snapshot.ScoreString())
	return snapshot, nil
}

// HealthCheck always succeeds for the mock provider
func (m *MockScoreSource) HealthCheck() bool {
	return true
}
