package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered pick'em player
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize password hash in JSON
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	FirstLogin   bool      `json:"first_login" db:"first_login"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// LoginRequest represents login form data
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned after a successful login
type AuthResponse struct {
	Success    bool   `json:"success"`
	IsAdmin    bool   `json:"is_admin"`
	FirstLogin bool   `json:"first_login"`
	Token      string `json:"token"`
}

// ChangePasswordRequest represents the password change form data
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// HashPassword hashes the user's password using bcrypt
func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies the provided password against the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// ToSafeUser returns a copy of the user without sensitive fields
func (u *User) ToSafeUser() User {
	return User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		FirstLogin: u.FirstLogin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
