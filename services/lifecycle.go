package services

import (
	"time"

	"nfl-pickems-go/models"
)

// AdvanceGame drives the game lifecycle state machine in place and
// reports whether anything changed.
//
// Transitions:
//   - scheduled -> in_progress once kickoff time passes (clock-driven,
//     feed may be nil)
//   - scheduled/in_progress -> completed when the feed reports the game
//     completed with both scores present; the winner is the team with
//     the strictly higher score, a tied score leaves the winner nil
//
// completed is terminal: further calls are no-ops regardless of feed
// content. Scores, winner and status always change together; a feed
// record that claims completion without both scores is ignored as
// malformed.
func AdvanceGame(game *models.Game, feed *FeedGame, now time.Time) bool {
	if game.IsCompleted() {
		return false
	}

	if feed != nil && feed.Completed && feed.HomeScore != nil && feed.AwayScore != nil {
		home := *feed.HomeScore
		away := *feed.AwayScore

		game.Status = models.GameStatusCompleted
		game.FinalScoreHome = &home
		game.FinalScoreAway = &away
		game.Winner = computeWinner(game.HomeTeam, game.AwayTeam, home, away)
		return true
	}

	if game.Status == models.GameStatusScheduled && game.HasStarted(now) {
		game.Status = models.GameStatusInProgress
		return true
	}

	return false
}

func computeWinner(homeTeam, awayTeam string, homeScore, awayScore int) *string {
	switch {
	case homeScore > awayScore:
		return &homeTeam
	case awayScore > homeScore:
		return &awayTeam
	default:
		return nil // tie
	}
}
