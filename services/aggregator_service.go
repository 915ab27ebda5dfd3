package services

import (
	"context"
	"sort"

	"squares-app-go/models"
)

// CellBadge is the single best win badge for one grid cell
type CellBadge struct {
	Cell             models.Cell    `json:"cell"`
	WinType          models.WinType `json:"winType"`
	ParticipantLabel string         `json:"participantLabel"`
}

// LeaderboardEntry is one participant's tally across all recorded wins
type LeaderboardEntry struct {
	ParticipantLabel string  `json:"participantLabel"`
	Wins             int     `json:"wins"`
	TotalPayout      float64 `json:"totalPayout"`
}

// AggregatorService reduces recorded win events into display form: one best
// badge per cell via the round hierarchy, and per-participant leaderboard
// tallies.
type AggregatorService struct {
	scoring *ScoringService
}

// NewAggregatorService creates an aggregator backed by the scoring store
func NewAggregatorService(scoring *ScoringService) *AggregatorService {
	return &AggregatorService{scoring: scoring}
}

// BoardForPool aggregates a pool's recorded wins into cell badges
func (a *AggregatorService) BoardForPool(ctx context.Context, poolID string) ([]CellBadge, error) {
	events, err := a.scoring.EventsForPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return AggregateBadges(events), nil
}

// LeaderboardForPool tallies a pool's recorded wins per participant
func (a *AggregatorService) LeaderboardForPool(ctx context.Context, poolID string) ([]LeaderboardEntry, error) {
	events, err := a.scoring.EventsForPool(ctx, poolID)
	if err != nil {
		return nil, err
	}
	return TallyLeaderboard(events), nil
}

// tierKey groups the forward and reverse variant of one milestone so the
// composite pass can pair them. Sequence-carrying tags stay distinct per
// sequence number.
type tierKey struct {
	forward  models.WinType
	sequence int
	hasSeq   bool
}

func keyFor(event *models.WinEvent) tierKey {
	key := tierKey{forward: models.ForwardOf(event.WinType)}
	if event.Sequence != nil {
		key.sequence = *event.Sequence
		key.hasSeq = true
	}
	return key
}

// AggregateBadges picks each cell's best badge. The composite pass runs
// first: a cell that won both the forward and reverse variant of the same
// tier reports the combined "_both" tag, which then competes on rank with
// the cell's other tiers.
func AggregateBadges(events []models.WinEvent) []CellBadge {
	type cellTier struct {
		cell models.Cell
		tier tierKey
	}

	// Which (cell, tier) pairs hold both variants.
	forwardSeen := make(map[cellTier]bool)
	reverseSeen := make(map[cellTier]bool)
	for i := range events {
		if events[i].Cell == nil {
			continue
		}
		ct := cellTier{cell: *events[i].Cell, tier: keyFor(&events[i])}
		if models.IsReverse(events[i].WinType) {
			reverseSeen[ct] = true
		} else {
			forwardSeen[ct] = true
		}
	}

	best := make(map[models.Cell]CellBadge)
	for i := range events {
		event := &events[i]
		if event.Cell == nil {
			continue
		}
		cell := *event.Cell

		tag := event.WinType
		ct := cellTier{cell: cell, tier: keyFor(event)}
		if forwardSeen[ct] && reverseSeen[ct] {
			tag = models.CompositeOf(ct.tier.forward)
		}

		current, exists := best[cell]
		if !exists || models.Rank(tag) > models.Rank(current.WinType) {
			best[cell] = CellBadge{
				Cell:             cell,
				WinType:          tag,
				ParticipantLabel: event.ParticipantLabel,
			}
		}
	}

	badges := make([]CellBadge, 0, len(best))
	for _, badge := range best {
		badges = append(badges, badge)
	}
	sort.Slice(badges, func(i, j int) bool {
		if badges[i].Cell.Row != badges[j].Cell.Row {
			return badges[i].Cell.Row < badges[j].Cell.Row
		}
		return badges[i].Cell.Col < badges[j].Cell.Col
	})
	return badges
}

// TallyLeaderboard groups win counts and payout sums per participant label.
// Unclaimed wins (empty label) are excluded. Ordering is wins descending,
// then payout descending, ties broken by a stable sort on name.
func TallyLeaderboard(events []models.WinEvent) []LeaderboardEntry {
	tallies := make(map[string]*LeaderboardEntry)
	for i := range events {
		label := events[i].ParticipantLabel
		if label == "" {
			continue
		}
		entry, ok := tallies[label]
		if !ok {
			entry = &LeaderboardEntry{ParticipantLabel: label}
			tallies[label] = entry
		}
		entry.Wins++
		if events[i].Payout != nil {
			entry.TotalPayout += *events[i].Payout
		}
	}

	board := make([]LeaderboardEntry, 0, len(tallies))
	for _, entry := range tallies {
		board = append(board, *entry)
	}
	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Wins != board[j].Wins {
			return board[i].Wins > board[j].Wins
		}
		if board[i].TotalPayout != board[j].TotalPayout {
			return board[i].TotalPayout > board[j].TotalPayout
		}
		return board[i].ParticipantLabel < board[j].ParticipantLabel
	})
	return board
}
