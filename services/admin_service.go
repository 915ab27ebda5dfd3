package services

import (
	"context"
	"fmt"
	"log"

	"squares-app-go/models"
)

// AdminAction is a commissioner scoring correction
type AdminAction string

const (
	AdminActionStartGame   AdminAction = "start_game"
	AdminActionRecordScore AdminAction = "record_score"
	AdminActionEndPeriod   AdminAction = "end_period"
)

// AdminScoringRequest is the payload of the admin correction endpoint
type AdminScoringRequest struct {
	GameID    string      `json:"gameId"`
	Action    AdminAction `json:"action"`
	HomeScore int         `json:"homeScore"`
	AwayScore int         `json:"awayScore"`
	Period    int         `json:"period"`
}

// AdminScoringService translates commissioner actions into synthetic
// snapshots and feeds them through the same winner-determination pipeline
// the live poller uses. There is no second scoring path.
type AdminScoringService struct {
	scoring *ScoringService
}

// NewAdminScoringService creates the admin scoring front end
func NewAdminScoringService(scoring *ScoringService) *AdminScoringService {
	return &AdminScoringService{scoring: scoring}
}

// Apply executes one admin action
func (a *AdminScoringService) Apply(ctx context.Context, req *AdminScoringRequest) (*ProcessOutcome, error) {
	snapshot, err := a.buildSnapshot(req)
	if err != nil {
		return nil, err
	}

	log.Printf("AdminScoringService: %s game %s score %s period %d",
		req.Action, req.GameID, snapshot.ScoreString(), snapshot.Period)

	return a.scoring.ProcessSnapshot(ctx, snapshot)
}

// buildSnapshot produces the synthetic snapshot for an action.
// start_game seeds the 0-0 kickoff state; record_score advances the
// continuous machine; end_period closes a quarter boundary (period 4 closes
// the game).
func (a *AdminScoringService) buildSnapshot(req *AdminScoringRequest) (*models.GameSnapshot, error) {
	if req.GameID == "" {
		return nil, &ValidationError{GameID: req.GameID, Reason: "missing game id"}
	}

	switch req.Action {
	case AdminActionStartGame:
		zero := 0
		return &models.GameSnapshot{
			GameID:    req.GameID,
			Status:    models.GameStatusInProgress,
			HomeScore: &zero,
			AwayScore: &zero,
			Period:    1,
		}, nil

	case AdminActionRecordScore:
		home, away := req.HomeScore, req.AwayScore
		period := req.Period
		if period <= 0 {
			period = 1
		}
		return &models.GameSnapshot{
			GameID:    req.GameID,
			Status:    models.GameStatusInProgress,
			HomeScore: &home,
			AwayScore: &away,
			Period:    period,
		}, nil

	case AdminActionEndPeriod:
		home, away := req.HomeScore, req.AwayScore
		if req.Period < models.QuarterOneEnd || req.Period > models.FinalPeriod {
			return nil, &ValidationError{GameID: req.GameID, Reason: fmt.Sprintf("invalid period %d", req.Period)}
		}
		snapshot := &models.GameSnapshot{
			GameID:     req.GameID,
			Status:     models.GameStatusInProgress,
			HomeScore:  &home,
			AwayScore:  &away,
			Period:     req.Period + 1,
			IsHalftime: req.Period == models.HalftimeEnd,
		}
		if req.Period == models.FinalPeriod {
			snapshot.Status = models.GameStatusFinal
			snapshot.Period = models.FinalPeriod
		}
		if req.Period <= models.QuarterThreeEnd {
			snapshot.PeriodScores = map[int]models.PeriodScore{
				req.Period: {Home: home, Away: away},
			}
		}
		return snapshot, nil

	default:
		return nil, &ValidationError{GameID: req.GameID, Reason: fmt.Sprintf("unknown action %q", req.Action)}
	}
}

// Recompute wipes and replays a game using its current persisted state as
// the corrected snapshot.
func (a *AdminScoringService) Recompute(ctx context.Context, gameID string) (*ProcessOutcome, error) {
	state, err := a.scoring.StateForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("game %s has no recorded state", gameID)
	}

	home, away := state.HomeScore, state.AwayScore
	corrected := &models.GameSnapshot{
		GameID:    gameID,
		Status:    state.Status,
		HomeTeam:  state.HomeTeam,
		AwayTeam:  state.AwayTeam,
		HomeScore: &home,
		AwayScore: &away,
		Period:    state.Period,
		Clock:     state.Clock,
		// Boundary history accumulated on the state record lets quarter
		// boundaries re-fire after the wipe.
		PeriodScores: state.PeriodScores,
	}

	return a.scoring.RecomputeGame(ctx, gameID, corrected)
}
