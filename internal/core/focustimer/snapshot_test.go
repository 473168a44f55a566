package focustimer_test

import (
	"testing"
	"time"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_RemainingIsAnchoredToDeadline(t *testing.T) {
	snapshot := focustimer.Snapshot{
		Mode:      focustimer.ModeWork,
		IsRunning: true,
		Deadline:  epoch.Add(100 * time.Second),
	}

	for _, sample := range []struct {
		at   time.Duration
		want int
	}{
		{0, 100},
		{50 * time.Second, 50},
		{100 * time.Second, 0},
		{150 * time.Second, 0},
	} {
		assert.Equal(t, sample.want, snapshot.RemainingAt(epoch.Add(sample.at)), "at t=%s", sample.at)
	}
}

func TestSnapshot_RemainingWhilePausedIgnoresClock(t *testing.T) {
	snapshot := focustimer.Snapshot{Mode: focustimer.ModeBreak, TimeRemaining: 120}

	assert.Equal(t, 120, snapshot.RemainingAt(epoch))
	assert.Equal(t, 120, snapshot.RemainingAt(epoch.Add(time.Hour)))
}

func TestDefaultSnapshot_UsesConfiguredWorkLength(t *testing.T) {
	snapshot := focustimer.DefaultSnapshot(model.TimerConfig{WorkDuration: 50 * time.Minute, BreakDuration: 10 * time.Minute})

	assert.Equal(t, focustimer.ModeWork, snapshot.Mode)
	assert.Equal(t, 3000, snapshot.TimeRemaining)
	assert.False(t, snapshot.IsRunning)
}

func TestMode_Next(t *testing.T) {
	assert.Equal(t, focustimer.ModeBreak, focustimer.ModeWork.Next())
	assert.Equal(t, focustimer.ModeWork, focustimer.ModeBreak.Next())
}

func TestCompletionNotification_Wording(t *testing.T) {
	config := model.TimerConfig{WorkDuration: 50 * time.Minute, BreakDuration: 10 * time.Minute}

	work := focustimer.CompletionNotification(focustimer.ModeWork, focustimer.Snapshot{SessionsCompleted: 4}, config)
	assert.Equal(t, "Focus Session Complete!", work.Title)
	assert.Equal(t, "Great work! Time for a 10-minute break. Sessions: 4", work.Body)

	rest := focustimer.CompletionNotification(focustimer.ModeBreak, focustimer.Snapshot{SessionsCompleted: 4}, config)
	assert.Equal(t, "Break Over!", rest.Title)
	assert.Equal(t, "Ready to start another 50-minute focus session?", rest.Body)
}
