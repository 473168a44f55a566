package focustimer

import "time"

// Mode is the active phase of the timer.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeBreak Mode = "break"
)

// Next returns the phase that follows mode.
func (mode Mode) Next() Mode {
	if mode == ModeWork {
		return ModeBreak
	}
	return ModeWork
}

// EventType defines the type of Engine event.
type EventType string

const (
	EventTick           EventType = "tick"
	EventPhaseCompleted EventType = "phase_completed"
	EventStateChanged   EventType = "state_changed"
)

// Event represents an Engine update for observers.
//
// Tick events carry Mode and Remaining. PhaseCompleted events carry
// PreviousMode and SessionsCompleted. Every event carries the Snapshot
// taken right after the change.
type Event struct {
	Type              EventType
	Mode              Mode
	Remaining         time.Duration
	PreviousMode      Mode
	SessionsCompleted int
	Snapshot          Snapshot
	At                time.Time
}
