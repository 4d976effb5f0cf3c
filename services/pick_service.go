package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/models"
)

// PickService validates and stores weekly pick submissions
type PickService struct {
	pickRepo *database.PickRepository
	gameRepo *database.GameRepository
	logger   *logging.Logger
}

// NewPickService creates a new pick service
func NewPickService(pickRepo *database.PickRepository, gameRepo *database.GameRepository) *PickService {
	return &PickService{
		pickRepo: pickRepo,
		gameRepo: gameRepo,
		logger:   logging.WithPrefix("PickService"),
	}
}

// CanSubmit decides whether the actor may submit or modify a pick for the
// game right now. Regular users are allowed only while the game is still
// scheduled and kickoff has not passed; admins bypass the lock entirely.
func (s *PickService) CanSubmit(game *models.Game, actor *models.User, now time.Time) (bool, string) {
	if actor.IsAdmin {
		return true, ""
	}
	if game.IsLocked(now) {
		return false, fmt.Sprintf("picks for %s @ %s are locked", game.AwayTeam, game.HomeTeam)
	}
	return true, ""
}

// SubmitWeekPicks validates the whole batch and replaces the actor's
// picks for the week in one transaction. Any validation failure rejects
// the entire batch with no mutation.
func (s *PickService) SubmitWeekPicks(ctx context.Context, actor *models.User, submission models.WeekSubmission) error {
	if submission.Week < 1 || submission.Week > 18 {
		return fmt.Errorf("%w: %d", ErrInvalidWeek, submission.Week)
	}

	now := time.Now().UTC()
	picks := make([]models.Pick, 0, len(submission.Picks))

	for _, entry := range submission.Picks {
		game, err := s.gameRepo.GetByID(ctx, entry.GameID)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrGameNotFound, entry.GameID)
		}
		if err != nil {
			return fmt.Errorf("failed to load game %d: %w", entry.GameID, err)
		}

		// A pick filed under the wrong week would score there.
		if game.Week != submission.Week {
			return fmt.Errorf("%w: game %d belongs to week %d", ErrInvalidWeek, game.ID, game.Week)
		}

		// The marquee-game constraint applies regardless of lock state.
		if game.IsMNF && entry.MNFTotalPoints == nil {
			return fmt.Errorf("%w (game %d)", ErrMNFPointsRequired, game.ID)
		}

		if allowed, reason := s.CanSubmit(game, actor, now); !allowed {
			return fmt.Errorf("%w: %s", ErrPicksLocked, reason)
		}

		picks = append(picks, models.Pick{
			GameID:         game.ID,
			PickedTeam:     entry.PickedTeam,
			MNFTotalPoints: entry.MNFTotalPoints,
		})
	}

	if err := s.pickRepo.ReplaceWeekPicks(ctx, actor.ID, submission.Week, picks); err != nil {
		return fmt.Errorf("failed to store picks: %w", err)
	}

	s.logger.Infof("Picks submitted for user %s, week %d (%d picks)",
		actor.Username, submission.Week, len(picks))
	return nil
}

// GetUserWeekPicks returns the actor's picks for a week
func (s *PickService) GetUserWeekPicks(ctx context.Context, userID int64, week int) ([]models.Pick, error) {
	if week < 1 || week > 18 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return s.pickRepo.GetUserWeek(ctx, userID, week)
}

// GetWeekPicks returns every user's picks for a week
func (s *PickService) GetWeekPicks(ctx context.Context, week int) ([]models.Pick, error) {
	if week < 1 || week > 18 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return s.pickRepo.GetWeek(ctx, week)
}
