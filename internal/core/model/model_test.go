package model_test

import (
	"testing"
	"time"

	"aetheris/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func TestMockClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	clock := model.NewMockClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), clock.Now())

	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestRealClock_ReturnsCurrentTime(t *testing.T) {
	before := time.Now()
	now := model.RealClock{}.Now()
	after := time.Now()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
}

func TestTimerConfig_NormalizedFillsDefaults(t *testing.T) {
	config := model.TimerConfig{BreakDuration: 10 * time.Minute}.Normalized()

	assert.Equal(t, model.DefaultWorkDuration, config.WorkDuration)
	assert.Equal(t, 10*time.Minute, config.BreakDuration)

	config = model.TimerConfig{WorkDuration: 500 * time.Millisecond}.Normalized()
	assert.Equal(t, model.DefaultWorkDuration, config.WorkDuration)
	assert.Equal(t, model.DefaultBreakDuration, config.BreakDuration)
}

func TestDefaultSettings_TimerConfig(t *testing.T) {
	settings := model.DefaultSettings()

	assert.Equal(t, model.DefaultTimerConfig(), settings.TimerConfig())
	assert.Equal(t, model.StorageSQLite, settings.Storage)
	assert.True(t, settings.Notifications)
	assert.Empty(t, settings.HTTPAddr)
}

func TestValidTickInterval(t *testing.T) {
	assert.True(t, model.ValidTickInterval(time.Second))
	assert.True(t, model.ValidTickInterval(250*time.Millisecond))
	assert.False(t, model.ValidTickInterval(2*time.Second))
	assert.False(t, model.ValidTickInterval(time.Minute))
	assert.False(t, model.ValidTickInterval(10*time.Millisecond))
}

func TestCheckLoopback(t *testing.T) {
	for _, addr := range []string{"127.0.0.1:7435", "localhost:7435", "[::1]:7435", "127.0.0.2:80"} {
		assert.NoError(t, model.CheckLoopback(addr), addr)
	}
	for _, addr := range []string{"0.0.0.0:7435", ":7435", "192.168.1.10:7435", "example.com:80", "[::]:7435", "127.0.0.1"} {
		assert.ErrorIs(t, model.CheckLoopback(addr), model.ErrNotLoopback, addr)
	}
}
