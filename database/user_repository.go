package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nfl-pickems-go/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// UserRepository provides access to the users table
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_admin, first_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.FirstLogin,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID returns the user with the given id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.conn.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// GetByUsername returns the user with the given username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.conn.GetContext(ctx, &user, `SELECT * FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &user, nil
}

// List returns all users ordered by username
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.conn.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update persists changes to an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, is_admin = ?, first_login = ?, updated_at = ?
		 WHERE id = ?`,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.FirstLogin,
		user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
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

// Delete removes a user; the foreign key cascades to the user's picks
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
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

// UsernameMap returns a user id to username lookup for leaderboard assembly
func (r *UserRepository) UsernameMap(ctx context.Context) (map[int64]string, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names, nil
}
