package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nfl-pickems-go/models"
)

// GameRepository provides access to the games table. Outcome fields are
// written only through ApplyAdvance so scores and winner always move
// together with the status.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new game and sets its generated ID
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	return r.createWith(ctx, r.db.conn, game)
}

// CreateTx inserts a new game inside an existing transaction
func (r *GameRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, game *models.Game) error {
	return r.createWith(ctx, tx, game)
}

func (r *GameRepository) createWith(ctx context.Context, ex sqlx.ExtContext, game *models.Game) error {
	if game.Status == "" {
		game.Status = models.GameStatusScheduled
	}

	res, err := ex.ExecContext(ctx,
		`INSERT INTO games (espn_id, week, season, home_team, away_team, start_time, is_mnf, status,
		                    final_score_home, final_score_away, winner)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.ESPNID, game.Week, game.Season, game.HomeTeam, game.AwayTeam, game.StartTime,
		game.IsMNF, game.Status, game.FinalScoreHome, game.FinalScoreAway, game.Winner)
	if err != nil {
		return fmt.Errorf("failed to insert game %s: %w", game.ESPNID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted game id: %w", err)
	}
	game.ID = id
	return nil
}

// GetByID returns the game with the given id
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	err := r.db.conn.GetContext(ctx, &game, `SELECT * FROM games WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return &game, nil
}

// GetByESPNID returns the game with the given external feed id
func (r *GameRepository) GetByESPNID(ctx context.Context, espnID string) (*models.Game, error) {
	var game models.Game
	err := r.db.conn.GetContext(ctx, &game, `SELECT * FROM games WHERE espn_id = ?`, espnID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by espn id %s: %w", espnID, err)
	}
	return &game, nil
}

// GetByWeekSeason returns all games for a week ordered by kickoff
func (r *GameRepository) GetByWeekSeason(ctx context.Context, week, season int) ([]models.Game, error) {
	var games []models.Game
	err := r.db.conn.SelectContext(ctx, &games,
		`SELECT * FROM games WHERE week = ? AND season = ? ORDER BY start_time, id`, week, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for week %d season %d: %w", week, season, err)
	}
	return games, nil
}

// GetActiveBySeason returns the season's games that have not reached the
// terminal state; these are the synchronizer's candidates.
func (r *GameRepository) GetActiveBySeason(ctx context.Context, season int) ([]models.Game, error) {
	var games []models.Game
	err := r.db.conn.SelectContext(ctx, &games,
		`SELECT * FROM games WHERE season = ? AND status != ? ORDER BY start_time, id`,
		season, models.GameStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get active games for season %d: %w", season, err)
	}
	return games, nil
}

// ApplyAdvance persists a lifecycle transition: status, both score fields
// and winner are written in a single statement so no partial outcome can
// be observed.
func (r *GameRepository) ApplyAdvance(ctx context.Context, game *models.Game) error {
	return r.applyAdvanceWith(ctx, r.db.conn, game)
}

// ApplyAdvanceTx persists a lifecycle transition inside an existing transaction
func (r *GameRepository) ApplyAdvanceTx(ctx context.Context, tx *sqlx.Tx, game *models.Game) error {
	return r.applyAdvanceWith(ctx, tx, game)
}

func (r *GameRepository) applyAdvanceWith(ctx context.Context, ex sqlx.ExtContext, game *models.Game) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE games SET status = ?, final_score_home = ?, final_score_away = ?, winner = ?
		 WHERE id = ?`,
		game.Status, game.FinalScoreHome, game.FinalScoreAway, game.Winner, game.ID)
	if err != nil {
		return fmt.Errorf("failed to apply advance for game %d: %w", game.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
