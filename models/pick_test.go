package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickIsCorrect(t *testing.T) {
	winner := "KC"
	home, away := 21, 20
	completed := &Game{
		HomeTeam: "KC", AwayTeam: "BUF",
		Status:         GameStatusCompleted,
		FinalScoreHome: &home, FinalScoreAway: &away,
		Winner: &winner,
	}

	homePick := Pick{PickedTeam: "KC"}
	awayPick := Pick{PickedTeam: "BUF"}

	require.NotNil(t, homePick.IsCorrect(completed))
	assert.True(t, *homePick.IsCorrect(completed))
	require.NotNil(t, awayPick.IsCorrect(completed))
	assert.False(t, *awayPick.IsCorrect(completed))
}

func TestPickIsCorrectUnresolved(t *testing.T) {
	pick := Pick{PickedTeam: "KC"}

	assert.Nil(t, pick.IsCorrect(nil))
	assert.Nil(t, pick.IsCorrect(&Game{Status: GameStatusScheduled}))
	assert.Nil(t, pick.IsCorrect(&Game{Status: GameStatusInProgress}))
}

func TestPickIsCorrectTie(t *testing.T) {
	score := 17
	tie := &Game{
		HomeTeam: "KC", AwayTeam: "BUF",
		Status:         GameStatusCompleted,
		FinalScoreHome: &score, FinalScoreAway: &score,
	}

	pick := Pick{PickedTeam: "KC"}
	require.NotNil(t, pick.IsCorrect(tie))
	assert.False(t, *pick.IsCorrect(tie))
}

func TestGameIsLocked(t *testing.T) {
	now := time.Date(2025, 9, 21, 17, 0, 0, 0, time.UTC)

	upcoming := Game{Status: GameStatusScheduled, StartTime: now.Add(time.Hour)}
	assert.False(t, upcoming.IsLocked(now))

	started := Game{Status: GameStatusScheduled, StartTime: now}
	assert.True(t, started.IsLocked(now))

	inProgress := Game{Status: GameStatusInProgress, StartTime: now.Add(time.Hour)}
	assert.True(t, inProgress.IsLocked(now))
}
