package display_test

import (
	"testing"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/ui/display"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", display.FormatClock(1500))
	assert.Equal(t, "04:05", display.FormatClock(245))
	assert.Equal(t, "00:00", display.FormatClock(0))
	assert.Equal(t, "00:00", display.FormatClock(-3))
	assert.Equal(t, "120:00", display.FormatClock(7200))
}

func TestProgress_Clamped(t *testing.T) {
	assert.Equal(t, 0.5, display.Progress(150, 300))
	assert.Equal(t, 1.0, display.Progress(400, 300))
	assert.Equal(t, 0.0, display.Progress(-1, 300))
	assert.Equal(t, 0.0, display.Progress(10, 0))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Focus time...", display.Status(focustimer.ModeWork, true, false))
	assert.Equal(t, "Break time!", display.Status(focustimer.ModeBreak, true, true))
	assert.Equal(t, "Ready to focus", display.Status(focustimer.ModeWork, false, true))
	assert.Equal(t, "Ready for break", display.Status(focustimer.ModeBreak, false, true))
	assert.Equal(t, "Paused", display.Status(focustimer.ModeWork, false, false))
}

func TestRender(t *testing.T) {
	config := model.DefaultTimerConfig()
	snapshot := focustimer.Snapshot{Mode: focustimer.ModeBreak, SessionsCompleted: 3, IsRunning: true}

	view := display.Render(snapshot, 150, config)

	assert.Equal(t, "02:30", view.Time)
	assert.Equal(t, "Break time!", view.Status)
	assert.Equal(t, 3, view.Sessions)
	assert.Equal(t, 0.5, view.Progress)
	assert.InDelta(t, display.RingCircumference/2, view.RingOffset, 1e-9)
	assert.True(t, view.Running)
}

func TestRender_FreshPhaseHasEmptyRingOffset(t *testing.T) {
	config := model.DefaultTimerConfig()

	view := display.Render(focustimer.DefaultSnapshot(config), 1500, config)

	assert.Equal(t, "25:00", view.Time)
	assert.Equal(t, "Ready to focus", view.Status)
	assert.Equal(t, 0.0, view.RingOffset)
}
