package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"squares-app-go/models"
	"strconv"
	"strings"
	"time"
)

// ESPNService fetches single-game live data from ESPN and normalizes it
// into GameSnapshot form. This is the only component that knows the
// provider's wire format.
type ESPNService struct {
	client  *http.Client
	baseURL string
}

// NewESPNService creates a new ESPN score source
func NewESPNService(baseURL string) *ESPNService {
	if baseURL == "" {
		baseURL = "https://site.api.espn.com/apis/site/v2/sports/football/nfl/summary"
	}
	return &ESPNService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

// ESPN API response structures (game summary endpoint)
type espnSummaryResponse struct {
	Header espnHeader `json:"header"`
}

type espnHeader struct {
	ID           string            `json:"id"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnCompetition struct {
	Status      espnStatus       `json:"status"`
	Competitors []espnCompetitor `json:"competitors"`
}

type espnStatus struct {
	Type         espnStatusType `json:"type"`
	Period       int            `json:"period"`
	DisplayClock string         `json:"displayClock,omitempty"`
}

type espnStatusType struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

type espnCompetitor struct {
	HomeAway   string          `json:"homeAway"`
	Score      string          `json:"score"`
	Team       espnTeam        `json:"team"`
	Linescores []espnLinescore `json:"linescores"`
}

type espnTeam struct {
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
}

// espnLinescore is one quarter's points for one team (not cumulative)
type espnLinescore struct {
	Value float64
}

// UnmarshalJSON tolerates ESPN sending linescore values as either numbers
// or display strings depending on game state.
func (l *espnLinescore) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value        *float64 `json:"value"`
		DisplayValue string   `json:"displayValue"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Value != nil {
		l.Value = *raw.Value
		return nil
	}
	v, _ := strconv.ParseFloat(raw.DisplayValue, 64)
	l.Value = v
	return nil
}

// GetGameSnapshot fetches the live summary for one game and normalizes it
func (e *ESPNService) GetGameSnapshot(ctx context.Context, gameID string) (*models.GameSnapshot, error) {
	url := fmt.Sprintf("%s?event=%s", e.baseURL, gameID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build ESPN request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	log.Printf("ESPN API: Game %s summary response status %d", gameID, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: game id %s", ErrGameNotFound, gameID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: ESPN returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var summary espnSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("%w: failed to decode ESPN response: %v", ErrProviderUnavailable, err)
	}

	if len(summary.Header.Competitions) == 0 || len(summary.Header.Competitions[0].Competitors) < 2 {
		return nil, fmt.Errorf("%w: game id %s has no competition data", ErrGameNotFound, gameID)
	}

	return e.convertSummary(gameID, summary.Header.Competitions[0]), nil
}

// convertSummary normalizes one ESPN competition into a GameSnapshot
func (e *ESPNService) convertSummary(gameID string, comp espnCompetition) *models.GameSnapshot {
	snapshot := &models.GameSnapshot{
		GameID:     gameID,
		Status:     convertGameStatus(comp.Status),
		Period:     comp.Status.Period,
		Clock:      comp.Status.DisplayClock,
		IsHalftime: strings.EqualFold(comp.Status.Type.Name, "STATUS_HALFTIME"),
	}

	var home, away *espnCompetitor
	for i := range comp.Competitors {
		if comp.Competitors[i].HomeAway == "home" {
			home = &comp.Competitors[i]
		} else {
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return snapshot
	}

	snapshot.HomeTeam = home.Team.Abbreviation
	snapshot.AwayTeam = away.Team.Abbreviation

	// Scheduled games report "0" scores that mean "not started"; leave the
	// score pointers nil so downstream validation can tell the difference.
	if snapshot.Status != models.GameStatusScheduled {
		if hs, err := strconv.Atoi(home.Score); err == nil {
			snapshot.HomeScore = &hs
		}
		if as, err := strconv.Atoi(away.Score); err == nil {
			snapshot.AwayScore = &as
		}
		snapshot.PeriodScores = buildPeriodScores(home.Linescores, away.Linescores, comp.Status, snapshot.IsHalftime)
	}

	log.Printf("ESPN API: Game %s normalized - %s @ %s, status=%s period=%d score=%s",
		gameID, snapshot.AwayTeam, snapshot.HomeTeam, snapshot.Status, snapshot.Period, snapshot.ScoreString())

	return snapshot
}

// buildPeriodScores converts ESPN's per-quarter linescores into cumulative
// boundary scores. A boundary is only reported once play has moved past it,
// so an in-progress quarter never produces a premature entry.
func buildPeriodScores(home, away []espnLinescore, status espnStatus, isHalftime bool) map[int]models.PeriodScore {
	completed := status.Period - 1
	if isHalftime || status.Type.Completed {
		completed = status.Period
	}
	if completed > models.QuarterThreeEnd {
		completed = models.QuarterThreeEnd
	}
	if completed <= 0 {
		return nil
	}

	scores := make(map[int]models.PeriodScore, completed)
	homeTotal, awayTotal := 0, 0
	for period := 1; period <= completed; period++ {
		if period <= len(home) {
			homeTotal += int(home[period-1].Value)
		}
		if period <= len(away) {
			awayTotal += int(away[period-1].Value)
		}
		scores[period] = models.PeriodScore{Home: homeTotal, Away: awayTotal}
	}
	return scores
}

// convertGameStatus maps ESPN status to our normalized GameStatus. Halftime
// counts as in-progress; final and final/overtime both map to final;
// anything unrecognized is treated as scheduled.
func convertGameStatus(status espnStatus) models.GameStatus {
	switch strings.ToLower(status.Type.State) {
	case "in":
		return models.GameStatusInProgress
	case "post":
		if status.Type.Completed {
			return models.GameStatusFinal
		}
		return models.GameStatusScheduled
	default:
		return models.GameStatusScheduled
	}
}

// HealthCheck verifies the ESPN API is accessible
func (e *ESPNService) HealthCheck() bool {
	req, err := http.NewRequest(http.MethodHead, e.baseURL, nil)
	if err != nil {
		return false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}
