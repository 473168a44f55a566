package focustimer

import (
	"time"

	"aetheris/internal/core/model"
)

// Snapshot is the complete persisted state of the timer.
//
// TimeRemaining (whole seconds) is authoritative while paused; Deadline is
// authoritative while running and zero otherwise.
type Snapshot struct {
	Mode              Mode
	SessionsCompleted int
	IsRunning         bool
	TimeRemaining     int
	Deadline          time.Time
}

// DefaultSnapshot returns the first-use state: a paused, full work phase.
func DefaultSnapshot(config model.TimerConfig) Snapshot {
	return Snapshot{
		Mode:          ModeWork,
		TimeRemaining: durationOf(ModeWork, config),
	}
}

// RemainingAt reports the whole seconds left in the phase at now.
func (snapshot Snapshot) RemainingAt(now time.Time) int {
	if !snapshot.IsRunning {
		return snapshot.TimeRemaining
	}
	return secondsUntil(snapshot.Deadline, now)
}

// paused freezes the countdown at now.
func (snapshot Snapshot) paused(now time.Time) Snapshot {
	if snapshot.IsRunning {
		snapshot.TimeRemaining = secondsUntil(snapshot.Deadline, now)
	}
	snapshot.IsRunning = false
	snapshot.Deadline = time.Time{}
	return snapshot
}

// running anchors the remaining time to an absolute deadline.
func (snapshot Snapshot) running(now time.Time) Snapshot {
	snapshot.IsRunning = true
	snapshot.Deadline = now.Add(time.Duration(snapshot.TimeRemaining) * time.Second).Truncate(time.Millisecond)
	return snapshot
}

// rewound restarts the current phase from its full length, paused.
func (snapshot Snapshot) rewound(config model.TimerConfig) Snapshot {
	snapshot.IsRunning = false
	snapshot.Deadline = time.Time{}
	snapshot.TimeRemaining = durationOf(snapshot.Mode, config)
	return snapshot
}

// completed applies the single end-of-phase transition. The next phase is
// left paused.
func (snapshot Snapshot) completed(config model.TimerConfig) Snapshot {
	if snapshot.Mode == ModeWork {
		snapshot.SessionsCompleted++
	}
	snapshot.Mode = snapshot.Mode.Next()
	return snapshot.rewound(config)
}

func durationOf(mode Mode, config model.TimerConfig) int {
	if mode == ModeBreak {
		return int(config.BreakDuration / time.Second)
	}
	return int(config.WorkDuration / time.Second)
}

// secondsUntil rounds up to whole seconds and never goes below zero.
func secondsUntil(deadline, now time.Time) int {
	left := deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}
