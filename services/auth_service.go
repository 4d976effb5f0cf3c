package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
	"nfl-pickems-go/models"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo    *database.UserRepository
	jwtSecret   []byte
	tokenExpiry time.Duration
	logger      *logging.Logger
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo *database.UserRepository, jwtSecret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		logger:      logging.WithPrefix("AuthService"),
	}
}

// Login authenticates a user by username and returns a JWT token
func (a *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := a.userRepo.GetByUsername(ctx, username)
	if err != nil {
		a.logger.Warnf("Failed login attempt for username: %s", username)
		return nil, "", ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		a.logger.Warnf("Failed login attempt for username: %s", username)
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	a.logger.Infof("Successful login for user: %s", user.Username)
	return user, token, nil
}

// GenerateToken creates a new JWT token for the user
func (a *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := JWTClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "nfl-pickems-go",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (a *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetUserFromToken validates the token and loads the user it names
func (a *AuthService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// ChangePassword sets a new password for the user and clears the
// first-login flag.
func (a *AuthService) ChangePassword(ctx context.Context, user *models.User, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	if err := user.HashPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.FirstLogin = false

	if err := a.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Infof("Password changed for user: %s", user.Username)
	return nil
}
