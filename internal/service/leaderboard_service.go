package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/tkaczmarz/rocket-arena/internal/bracket"
	"github.com/tkaczmarz/rocket-arena/internal/store"
	"github.com/tkaczmarz/rocket-arena/internal/utils"
)

// leaderboardSize caps each category's displayed list.
const leaderboardSize = 5

type LeaderboardService struct {
	store *store.TournamentStore
}

func NewLeaderboardService(store *store.TournamentStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// LeaderboardRow is one player's cumulative stats across completed matches.
type LeaderboardRow struct {
	PlayerID uuid.UUID `json:"player_id"`
	Name     string    `json:"name"`
	Goals    int       `json:"goals"`
	Assists  int       `json:"assists"`
	Saves    int       `json:"saves"`
}

type Leaderboard struct {
	TopScorers   []LeaderboardRow `json:"top_scorers"`
	TopAssisters []LeaderboardRow `json:"top_assisters"`
	TopSavers    []LeaderboardRow `json:"top_savers"`
}

// Compute folds every completed match into per-player totals and returns the
// top five of each category. Recomputed from scratch on every call; players
// with a zero in a category are left off that category's list entirely.
func (s *LeaderboardService) Compute(ctx context.Context, tournamentID uuid.UUID) (*Leaderboard, error) {
	roster, err := s.store.GetRoster(ctx, tournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}
	matches, err := s.store.GetMatches(ctx, tournamentID)
	if err != nil {
		return nil, storeErr(err, ErrTournamentNotFound)
	}

	totals := make(map[uuid.UUID]*LeaderboardRow, len(roster))
	rows := make([]*LeaderboardRow, 0, len(roster))
	for _, p := range roster {
		row := &LeaderboardRow{PlayerID: p.ID, Name: p.Username}
		totals[p.ID] = row
		rows = append(rows, row)
	}

	for _, m := range matches {
		if m.Status != bracket.MatchCompleted {
			continue
		}
		if m.Player1ID != nil {
			if row, ok := totals[*m.Player1ID]; ok {
				row.Goals += utils.OrZero(m.Score1)
				row.Assists += utils.OrZero(m.Assists1)
				row.Saves += utils.OrZero(m.Saves1)
			}
		}
		if m.Player2ID != nil {
			if row, ok := totals[*m.Player2ID]; ok {
				row.Goals += utils.OrZero(m.Score2)
				row.Assists += utils.OrZero(m.Assists2)
				row.Saves += utils.OrZero(m.Saves2)
			}
		}
	}

	return &Leaderboard{
		TopScorers:   topBy(rows, func(r *LeaderboardRow) int { return r.Goals }),
		TopAssisters: topBy(rows, func(r *LeaderboardRow) int { return r.Assists }),
		TopSavers:    topBy(rows, func(r *LeaderboardRow) int { return r.Saves }),
	}, nil
}

// topBy sorts descending by the given stat, truncates to the display size
// and drops zero entries.
func topBy(rows []*LeaderboardRow, stat func(*LeaderboardRow) int) []LeaderboardRow {
	sorted := make([]*LeaderboardRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return stat(sorted[i]) > stat(sorted[j])
	})

	top := make([]LeaderboardRow, 0, leaderboardSize)
	for _, row := range sorted {
		if len(top) == leaderboardSize {
			break
		}
		if stat(row) == 0 {
			break
		}
		top = append(top, *row)
	}
	return top
}
