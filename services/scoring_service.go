package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/models"
)

// ScoringService derives leaderboards, per-user stats and streaks from
// the set of (pick, game) pairs. A pick on a game without a winner (not
// yet concluded, or a tie) counts toward the total but never as correct;
// pending weeks therefore under-count, which is long-standing documented
// behavior the leaderboard consumers rely on.
type ScoringService struct {
	pickRepo *database.PickRepository
	userRepo *database.UserRepository
	season   int
	logger   *logging.Logger
}

// NewScoringService creates a new scoring service for the given season
func NewScoringService(pickRepo *database.PickRepository, userRepo *database.UserRepository, season int) *ScoringService {
	return &ScoringService{
		pickRepo: pickRepo,
		userRepo: userRepo,
		season:   season,
		logger:   logging.WithPrefix("ScoringService"),
	}
}

// Accuracy returns 100*correct/total rounded to two decimals, and 0 when
// total is zero.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}

func pickIsCorrect(pair models.PickWithGame) bool {
	return pair.Game.Winner != nil && pair.Pick.PickedTeam == *pair.Game.Winner
}

// SeasonLeaderboard returns the season standings: correct picks
// descending, username ascending on ties.
func (s *ScoringService) SeasonLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	return s.leaderboard(ctx, 0, true)
}

// WeeklyLeaderboard returns the standings for a single week
func (s *ScoringService) WeeklyLeaderboard(ctx context.Context, week int) ([]models.LeaderboardEntry, error) {
	if week < 1 || week > 18 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return s.leaderboard(ctx, week, false)
}

func (s *ScoringService) leaderboard(ctx context.Context, week int, includeWeeks bool) ([]models.LeaderboardEntry, error) {
	var (
		pairs []models.PickWithGame
		err   error
	)
	if week > 0 {
		pairs, err = s.pickRepo.ListWithGamesForWeek(ctx, s.season, week)
	} else {
		pairs, err = s.pickRepo.ListWithGamesForSeason(ctx, s.season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load picks: %w", err)
	}

	usernames, err := s.userRepo.UsernameMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load usernames: %w", err)
	}

	return buildLeaderboard(pairs, usernames, includeWeeks), nil
}

func buildLeaderboard(pairs []models.PickWithGame, usernames map[int64]string, includeWeeks bool) []models.LeaderboardEntry {
	type agg struct {
		correct int
		total   int
		weeks   map[int]struct{}
	}
	byUser := make(map[int64]*agg)

	for _, pair := range pairs {
		a := byUser[pair.Pick.UserID]
		if a == nil {
			a = &agg{weeks: make(map[int]struct{})}
			byUser[pair.Pick.UserID] = a
		}
		a.total++
		a.weeks[pair.Pick.Week] = struct{}{}
		if pickIsCorrect(pair) {
			a.correct++
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(byUser))
	for userID, a := range byUser {
		entry := models.LeaderboardEntry{
			UserID:   userID,
			Username: usernames[userID],
			Correct:  a.correct,
			Total:    a.total,
			Accuracy: Accuracy(a.correct, a.total),
		}
		if includeWeeks {
			entry.WeeksPlayed = len(a.weeks)
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Correct != entries[j].Correct {
			return entries[i].Correct > entries[j].Correct
		}
		return entries[i].Username < entries[j].Username
	})
	return entries
}

func computeUserStats(pairs []models.PickWithGame) *models.UserStats {
	stats := &models.UserStats{WeeklyStats: []models.WeeklyStat{}}

	type weekAgg struct {
		correct int
		total   int
	}
	byWeek := make(map[int]*weekAgg)

	for _, pair := range pairs {
		a := byWeek[pair.Pick.Week]
		if a == nil {
			a = &weekAgg{}
			byWeek[pair.Pick.Week] = a
		}
		a.total++
		stats.TotalPicks++
		if pickIsCorrect(pair) {
			a.correct++
			stats.TotalCorrect++
		}
	}

	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	for _, week := range weeks {
		a := byWeek[week]
		stats.WeeklyStats = append(stats.WeeklyStats, models.WeeklyStat{
			Week:     week,
			Correct:  a.correct,
			Total:    a.total,
			Accuracy: Accuracy(a.correct, a.total),
		})
		if stats.BestWeek == nil || a.correct > stats.BestWeek.Correct {
			stats.BestWeek = &models.BestWeek{Week: week, Correct: a.correct}
		}
	}

	stats.Accuracy = Accuracy(stats.TotalCorrect, stats.TotalPicks)
	stats.CurrentStreak = currentStreak(pairs)
	return stats
}

// currentStreak counts consecutive correct picks over concluded games,
// most recent first. pairs must be ordered by kickoff time descending.
func currentStreak(pairs []models.PickWithGame) int {
	streak := 0
	for _, pair := range pairs {
		if !pair.Game.IsCompleted() {
			continue
		}
		if !pickIsCorrect(pair) {
			break
		}
		streak++
	}
	return streak
}

// UserStats returns the season stat summary for one user
func (s *ScoringService) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	pairs, err := s.pickRepo.ListWithGamesForUser(ctx, userID, s.season)
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for user %d: %w", userID, err)
	}
	return computeUserStats(pairs), nil
}
