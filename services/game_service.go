package services

import (
	"context"
	"fmt"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/models"
)

// GameService serves the games read path. When the store has no rows for
// a requested week yet, the week's schedule is fetched from the feed and
// persisted so picks can be made before the synchronizer's next tick.
type GameService struct {
	gameRepo *database.GameRepository
	feed     ScoreFeed
	season   int
	logger   *logging.Logger
}

// NewGameService creates a new game service
func NewGameService(gameRepo *database.GameRepository, feed ScoreFeed, season int) *GameService {
	return &GameService{
		gameRepo: gameRepo,
		feed:     feed,
		season:   season,
		logger:   logging.WithPrefix("GameService"),
	}
}

// GetGamesForWeek returns the week's games, pulling the schedule from
// the feed on a store miss. A feed failure on the miss path is absorbed:
// the caller gets whatever the store holds.
func (s *GameService) GetGamesForWeek(ctx context.Context, week int) ([]models.Game, error) {
	if week < 1 || week > 18 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}

	games, err := s.gameRepo.GetByWeekSeason(ctx, week, s.season)
	if err != nil {
		return nil, err
	}
	if len(games) > 0 {
		return games, nil
	}

	s.logger.Infof("No stored games for week %d, fetching schedule from feed", week)
	feedGames, err := s.feed.GamesForWeek(ctx, week)
	if err != nil {
		s.logger.Errorf("Schedule fetch for week %d failed: %v", week, err)
		return games, nil
	}

	for i := range feedGames {
		record := &feedGames[i]
		if _, err := s.gameRepo.GetByESPNID(ctx, record.ESPNID); err == nil {
			continue
		}

		game := newGameFromFeed(record, s.season, feedGames)
		if err := s.gameRepo.Create(ctx, &game); err != nil {
			s.logger.Errorf("Failed to store game %s: %v", record.ESPNID, err)
			continue
		}
	}

	return s.gameRepo.GetByWeekSeason(ctx, week, s.season)
}
