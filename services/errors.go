package services

import "errors"

// Validation errors are surfaced to the caller as structured rejections;
// handlers map them onto HTTP status codes. Feed and persistence errors
// are absorbed and logged at the updater/engine boundary instead.
var (
	ErrInvalidWeek        = errors.New("invalid week")
	ErrGameNotFound       = errors.New("game not found")
	ErrPicksLocked        = errors.New("picks are locked for this game")
	ErrMNFPointsRequired  = errors.New("total points prediction required for the Monday night game")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
