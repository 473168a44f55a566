package model

import "time"

const (
	// DefaultWorkDuration is the length of a focus phase.
	DefaultWorkDuration = 25 * time.Minute
	// DefaultBreakDuration is the length of a break phase.
	DefaultBreakDuration = 5 * time.Minute
)

// TimerConfig contains the phase lengths used by the focus timer.
type TimerConfig struct {
	WorkDuration  time.Duration
	BreakDuration time.Duration
}

// DefaultTimerConfig returns the classic 25/5 schedule.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:  DefaultWorkDuration,
		BreakDuration: DefaultBreakDuration,
	}
}

// Normalized replaces unset or sub-second durations with defaults.
func (config TimerConfig) Normalized() TimerConfig {
	if config.WorkDuration < time.Second {
		config.WorkDuration = DefaultWorkDuration
	}
	if config.BreakDuration < time.Second {
		config.BreakDuration = DefaultBreakDuration
	}
	return config
}
