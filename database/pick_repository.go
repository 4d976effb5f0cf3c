package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nfl-pickems-go/models"
)

// PickRepository provides access to the picks table. Resubmission for a
// week is delete-then-insert inside one transaction, which is what keeps
// the one-pick-per-game invariant.
type PickRepository struct {
	db *DB
}

// NewPickRepository creates a new pick repository
func NewPickRepository(db *DB) *PickRepository {
	return &PickRepository{db: db}
}

// GetUserWeek returns a user's picks for a week
func (r *PickRepository) GetUserWeek(ctx context.Context, userID int64, week int) ([]models.Pick, error) {
	var picks []models.Pick
	err := r.db.conn.SelectContext(ctx, &picks,
		`SELECT * FROM picks WHERE user_id = ? AND week = ? ORDER BY game_id`, userID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks for user %d week %d: %w", userID, week, err)
	}
	return picks, nil
}

// GetWeek returns every user's picks for a week
func (r *PickRepository) GetWeek(ctx context.Context, week int) ([]models.Pick, error) {
	var picks []models.Pick
	err := r.db.conn.SelectContext(ctx, &picks,
		`SELECT * FROM picks WHERE week = ? ORDER BY user_id, game_id`, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks for week %d: %w", week, err)
	}
	return picks, nil
}

// ReplaceWeekPicks atomically replaces a user's picks for a week. Either
// the whole batch lands or none of it does.
func (r *PickRepository) ReplaceWeekPicks(ctx context.Context, userID int64, week int, picks []models.Pick) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM picks WHERE user_id = ? AND week = ?`, userID, week); err != nil {
			return fmt.Errorf("failed to delete prior picks: %w", err)
		}

		now := time.Now().UTC()
		for i := range picks {
			picks[i].UserID = userID
			picks[i].Week = week
			picks[i].CreatedAt = now

			res, err := tx.ExecContext(ctx,
				`INSERT INTO picks (user_id, game_id, picked_team, week, mnf_total_points, created_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				picks[i].UserID, picks[i].GameID, picks[i].PickedTeam, picks[i].Week,
				picks[i].MNFTotalPoints, picks[i].CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert pick for game %d: %w", picks[i].GameID, err)
			}

			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read inserted pick id: %w", err)
			}
			picks[i].ID = id
		}
		return nil
	})
}

// pickGameRow flattens one row of the picks-games join
type pickGameRow struct {
	Pick models.Pick `db:"pick"`
	Game models.Game `db:"game"`
}

const pickGameColumns = `
	p.id "pick.id", p.user_id "pick.user_id", p.game_id "pick.game_id",
	p.picked_team "pick.picked_team", p.week "pick.week",
	p.mnf_total_points "pick.mnf_total_points", p.created_at "pick.created_at",
	g.id "game.id", g.espn_id "game.espn_id", g.week "game.week", g.season "game.season",
	g.home_team "game.home_team", g.away_team "game.away_team", g.start_time "game.start_time",
	g.is_mnf "game.is_mnf", g.status "game.status",
	g.final_score_home "game.final_score_home", g.final_score_away "game.final_score_away",
	g.winner "game.winner"`

func toPairs(rows []pickGameRow) []models.PickWithGame {
	pairs := make([]models.PickWithGame, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, models.PickWithGame{Pick: row.Pick, Game: row.Game})
	}
	return pairs
}

// ListWithGamesForSeason returns every (pick, game) pair for a season
func (r *PickRepository) ListWithGamesForSeason(ctx context.Context, season int) ([]models.PickWithGame, error) {
	var rows []pickGameRow
	err := r.db.conn.SelectContext(ctx, &rows,
		`SELECT `+pickGameColumns+`
		 FROM picks p JOIN games g ON g.id = p.game_id
		 WHERE g.season = ?
		 ORDER BY p.user_id, g.start_time, g.id`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to join picks for season %d: %w", season, err)
	}
	return toPairs(rows), nil
}

// ListWithGamesForWeek returns every (pick, game) pair for a week
func (r *PickRepository) ListWithGamesForWeek(ctx context.Context, season, week int) ([]models.PickWithGame, error) {
	var rows []pickGameRow
	err := r.db.conn.SelectContext(ctx, &rows,
		`SELECT `+pickGameColumns+`
		 FROM picks p JOIN games g ON g.id = p.game_id
		 WHERE g.season = ? AND p.week = ?
		 ORDER BY p.user_id, g.start_time, g.id`, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to join picks for week %d: %w", week, err)
	}
	return toPairs(rows), nil
}

// ListWithGamesForUser returns a user's (pick, game) pairs for a season
// ordered by kickoff time descending, which is the order the streak
// calculation walks.
func (r *PickRepository) ListWithGamesForUser(ctx context.Context, userID int64, season int) ([]models.PickWithGame, error) {
	var rows []pickGameRow
	err := r.db.conn.SelectContext(ctx, &rows,
		`SELECT `+pickGameColumns+`
		 FROM picks p JOIN games g ON g.id = p.game_id
		 WHERE p.user_id = ? AND g.season = ?
		 ORDER BY g.start_time DESC, g.id DESC`, userID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to join picks for user %d: %w", userID, err)
	}
	return toPairs(rows), nil
}
