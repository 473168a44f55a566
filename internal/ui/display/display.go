// Package display turns timer state into the text and geometry the
// widgets render.
package display

import (
	"fmt"
	"math"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
)

// RingRadius is the radius of the progress ring in the widget's SVG.
const RingRadius = 52

// RingCircumference is the dash length of a full progress ring.
var RingCircumference = 2 * math.Pi * RingRadius

// View is everything a widget needs to draw the timer.
type View struct {
	Time       string
	Status     string
	Sessions   int
	Progress   float64
	RingOffset float64
	Running    bool
	Mode       focustimer.Mode
}

// Render builds the view for a snapshot with remaining seconds left.
func Render(snapshot focustimer.Snapshot, remaining int, config model.TimerConfig) View {
	total := PhaseSeconds(snapshot.Mode, config)
	progress := Progress(remaining, total)
	return View{
		Time:       FormatClock(remaining),
		Status:     Status(snapshot.Mode, snapshot.IsRunning, remaining == total),
		Sessions:   snapshot.SessionsCompleted,
		Progress:   progress,
		RingOffset: RingCircumference * (1 - progress),
		Running:    snapshot.IsRunning,
		Mode:       snapshot.Mode,
	}
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Progress is the fraction of the phase still remaining, in [0, 1].
func Progress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	fraction := float64(remaining) / float64(total)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// Status is the label under the clock.
func Status(mode focustimer.Mode, running, atStart bool) string {
	switch {
	case running && mode == focustimer.ModeWork:
		return "Focus time..."
	case running:
		return "Break time!"
	case atStart && mode == focustimer.ModeWork:
		return "Ready to focus"
	case atStart:
		return "Ready for break"
	default:
		return "Paused"
	}
}

// PhaseSeconds is the full length of mode in seconds.
func PhaseSeconds(mode focustimer.Mode, config model.TimerConfig) int {
	if mode == focustimer.ModeBreak {
		return int(config.BreakDuration.Seconds())
	}
	return int(config.WorkDuration.Seconds())
}
