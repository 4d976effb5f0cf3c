package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/models"
)

// GameUpdater is the periodic synchronizer: on a fixed interval it pulls
// the current week's scoreboard from the feed and drives the game
// lifecycle engine, persisting the results. It is the sole writer of
// game outcome fields.
//
// At most one synchronization runs at a time; a tick that fires while
// the previous one is still in flight is skipped.
type GameUpdater struct {
	feed     ScoreFeed
	db       *database.DB
	gameRepo *database.GameRepository
	season   int
	interval time.Duration

	ticker   *time.Ticker
	stopChan chan struct{}
	running  bool
	inFlight atomic.Bool

	logger *logging.Logger
}

// NewGameUpdater creates a new game updater
func NewGameUpdater(feed ScoreFeed, db *database.DB, gameRepo *database.GameRepository, season int, interval time.Duration) *GameUpdater {
	return &GameUpdater{
		feed:     feed,
		db:       db,
		gameRepo: gameRepo,
		season:   season,
		interval: interval,
		stopChan: make(chan struct{}),
		logger:   logging.WithPrefix("GameUpdater"),
	}
}

// Start begins the background update loop
func (u *GameUpdater) Start() {
	if u.running {
		u.logger.Warn("Already running")
		return
	}
	u.running = true

	u.logger.Infof("Starting score synchronization every %v for season %d", u.interval, u.season)
	// A prior Stop closed the channel, so a restart needs a fresh one.
	u.stopChan = make(chan struct{})
	u.ticker = time.NewTicker(u.interval)

	// Initial update without waiting for the first tick
	go u.runTick()

	go func() {
		for {
			select {
			case <-u.ticker.C:
				go u.runTick()
			case <-u.stopChan:
				u.logger.Info("Stopping score synchronization")
				return
			}
		}
	}()
}

// Stop halts the background update loop
func (u *GameUpdater) Stop() {
	if !u.running {
		return
	}
	u.running = false

	if u.ticker != nil {
		u.ticker.Stop()
	}
	close(u.stopChan)
}

// IsRunning returns whether the updater loop is active
func (u *GameUpdater) IsRunning() bool {
	return u.running
}

func (u *GameUpdater) runTick() {
	ctx, cancel := context.WithTimeout(context.Background(), u.interval)
	defer cancel()

	if err := u.RunOnce(ctx); err != nil {
		u.logger.Errorf("Synchronization failed: %v", err)
	}
}

// RunOnce performs one full synchronization: fetch the current week's
// scoreboard, upsert unseen games, advance the rest together with any
// games left active in earlier weeks, and persist every change in one
// transaction. A feed failure leaves the store untouched;
// a persistence failure rolls the whole tick back. Returns nil when the
// tick was skipped because another one is in flight.
func (u *GameUpdater) RunOnce(ctx context.Context) error {
	if !u.inFlight.CompareAndSwap(false, true) {
		u.logger.Warn("Previous synchronization still in flight, skipping tick")
		return nil
	}
	defer u.inFlight.Store(false)

	started := time.Now()

	week, err := u.feed.CurrentWeek(ctx)
	if err != nil {
		return fmt.Errorf("failed to determine current week: %w", err)
	}

	feedGames, err := u.feed.GamesForWeek(ctx, week)
	if err != nil {
		return fmt.Errorf("failed to fetch scoreboard for week %d: %w", week, err)
	}

	// Games still active in weeks the feed has moved past (the updater
	// may have been down when they ended) are fetched separately so a
	// missed final eventually lands and its picks score.
	stale, err := u.staleActive(ctx, week)
	if err != nil {
		return err
	}

	if len(feedGames) == 0 && len(stale) == 0 {
		u.logger.Infof("Week %d: feed returned no games", week)
		return nil
	}

	existing, err := u.gameRepo.GetByWeekSeason(ctx, week, u.season)
	if err != nil {
		return fmt.Errorf("failed to load existing games: %w", err)
	}
	byESPNID := make(map[string]models.Game, len(existing))
	for _, game := range existing {
		byESPNID[game.ESPNID] = game
	}

	now := time.Now().UTC()
	created, advanced := 0, 0

	err = u.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i := range feedGames {
			record := &feedGames[i]

			game, seen := byESPNID[record.ESPNID]
			if !seen {
				newGame := newGameFromFeed(record, u.season, feedGames)
				// A game first seen mid-flight or final lands with its
				// real status rather than scheduled.
				AdvanceGame(&newGame, record, now)
				if err := u.gameRepo.CreateTx(ctx, tx, &newGame); err != nil {
					return err
				}
				created++
				u.logger.Infof("New game: %s @ %s (week %d)", newGame.AwayTeam, newGame.HomeTeam, newGame.Week)
				continue
			}

			if game.IsCompleted() {
				continue
			}

			if AdvanceGame(&game, record, now) {
				if err := u.gameRepo.ApplyAdvanceTx(ctx, tx, &game); err != nil {
					return err
				}
				advanced++
				u.logger.Infof("Game %s @ %s -> %s", game.AwayTeam, game.HomeTeam, game.Status)
			}
		}

		for i := range stale {
			game := stale[i].game
			if AdvanceGame(&game, stale[i].record, now) {
				if err := u.gameRepo.ApplyAdvanceTx(ctx, tx, &game); err != nil {
					return err
				}
				advanced++
				u.logger.Infof("Game %s @ %s (week %d) -> %s", game.AwayTeam, game.HomeTeam, game.Week, game.Status)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist synchronization for week %d: %w", week, err)
	}

	u.logger.Infof("Week %d synchronized in %v: %d games, %d created, %d advanced",
		week, time.Since(started), len(feedGames), created, advanced)
	return nil
}

// staleGame pairs an active game from a past week with its feed record,
// which is nil when the feed no longer serves the game.
type staleGame struct {
	game   models.Game
	record *FeedGame
}

// staleActive collects season games still active outside the feed's
// current week and fetches their weeks' scoreboards. A fetch failure for
// one week is logged and skipped so the current week still synchronizes.
func (u *GameUpdater) staleActive(ctx context.Context, currentWeek int) ([]staleGame, error) {
	active, err := u.gameRepo.GetActiveBySeason(ctx, u.season)
	if err != nil {
		return nil, fmt.Errorf("failed to load active games: %w", err)
	}

	byWeek := make(map[int][]models.Game)
	for _, game := range active {
		if game.Week == currentWeek {
			continue
		}
		byWeek[game.Week] = append(byWeek[game.Week], game)
	}

	var pairs []staleGame
	for week, games := range byWeek {
		records, err := u.feed.GamesForWeek(ctx, week)
		if err != nil {
			u.logger.Errorf("Failed to fetch week %d for %d unresolved games: %v", week, len(games), err)
			continue
		}
		byESPNID := make(map[string]*FeedGame, len(records))
		for i := range records {
			byESPNID[records[i].ESPNID] = &records[i]
		}
		for _, game := range games {
			pairs = append(pairs, staleGame{game: game, record: byESPNID[game.ESPNID]})
		}
	}
	return pairs, nil
}

// newGameFromFeed builds a Game row for a feed record seen for the first
// time. The week's marquee Monday-night flag is set for the game(s) with
// the week's latest Monday kickoff (Eastern time).
func newGameFromFeed(record *FeedGame, season int, weekGames []FeedGame) models.Game {
	return models.Game{
		ESPNID:    record.ESPNID,
		Week:      record.Week,
		Season:    season,
		HomeTeam:  record.HomeTeam,
		AwayTeam:  record.AwayTeam,
		StartTime: record.StartTime,
		IsMNF:     isMondayNight(record, weekGames),
		Status:    models.GameStatusScheduled,
	}
}

// isMondayNight reports whether the record is the week's marquee game:
// the latest kickoff of the week that falls on a Monday in Eastern time.
func isMondayNight(record *FeedGame, weekGames []FeedGame) bool {
	if easternWeekday(record.StartTime) != time.Monday {
		return false
	}
	for _, other := range weekGames {
		if other.Week != record.Week {
			continue
		}
		if easternWeekday(other.StartTime) == time.Monday && other.StartTime.After(record.StartTime) {
			return false
		}
	}
	return true
}

func easternWeekday(t time.Time) time.Weekday {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// UTC-5 keeps the weekday correct for evening kickoffs
		return t.Add(-5 * time.Hour).Weekday()
	}
	return t.In(loc).Weekday()
}
