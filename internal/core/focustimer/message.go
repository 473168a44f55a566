package focustimer

import (
	"fmt"
	"time"

	"aetheris/internal/core/model"
)

// Notifier delivers phase-completion messages to the user.
type Notifier interface {
	Notify(title, body string)
}

// Notification is the user-facing text for a completed phase.
type Notification struct {
	Title string
	Body  string
}

// CompletionNotification words the message for a finished phase. after is
// the snapshot right after the transition.
func CompletionNotification(finished Mode, after Snapshot, config model.TimerConfig) Notification {
	if finished == ModeWork {
		return Notification{
			Title: "Focus Session Complete!",
			Body: fmt.Sprintf("Great work! Time for a %d-minute break. Sessions: %d",
				int(config.BreakDuration/time.Minute), after.SessionsCompleted),
		}
	}
	return Notification{
		Title: "Break Over!",
		Body: fmt.Sprintf("Ready to start another %d-minute focus session?",
			int(config.WorkDuration/time.Minute)),
	}
}
