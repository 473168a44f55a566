package terminal_test

import (
	"testing"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/ui/terminal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	snapshot focustimer.Snapshot
	calls    []string
}

func (f *fakeTimer) Start() {
	f.calls = append(f.calls, "start")
	f.snapshot.IsRunning = true
}

func (f *fakeTimer) Pause() {
	f.calls = append(f.calls, "pause")
	f.snapshot.IsRunning = false
}

func (f *fakeTimer) Reset() {
	f.calls = append(f.calls, "reset")
	f.snapshot.IsRunning = false
	f.snapshot.TimeRemaining = 1500
}

func (f *fakeTimer) Snapshot() focustimer.Snapshot { return f.snapshot }
func (f *fakeTimer) Remaining() int               { return f.snapshot.TimeRemaining }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ViewShowsInitialState(t *testing.T) {
	timer := &fakeTimer{snapshot: focustimer.DefaultSnapshot(model.DefaultTimerConfig())}
	m := terminal.New(timer, model.DefaultTimerConfig(), make(chan focustimer.Event))

	view := m.View()

	assert.Contains(t, view, "25:00")
	assert.Contains(t, view, "Ready to focus")
	assert.Contains(t, view, "Sessions: 0")
}

func TestModel_KeysDriveTimer(t *testing.T) {
	timer := &fakeTimer{snapshot: focustimer.DefaultSnapshot(model.DefaultTimerConfig())}
	var m tea.Model = terminal.New(timer, model.DefaultTimerConfig(), make(chan focustimer.Event))

	m, _ = m.Update(key("s"))
	assert.Contains(t, m.View(), "Focus time...")

	m, _ = m.Update(key("p"))
	m, _ = m.Update(key("r"))

	assert.Equal(t, []string{"start", "pause", "reset"}, timer.calls)
}

func TestModel_QuitKey(t *testing.T) {
	timer := &fakeTimer{snapshot: focustimer.DefaultSnapshot(model.DefaultTimerConfig())}
	m := terminal.New(timer, model.DefaultTimerConfig(), make(chan focustimer.Event))

	_, cmd := m.Update(key("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EventsRefreshAndAnnounceCompletion(t *testing.T) {
	config := model.DefaultTimerConfig()
	timer := &fakeTimer{snapshot: focustimer.DefaultSnapshot(config)}
	events := make(chan focustimer.Event, 1)
	m := terminal.New(timer, config, events)

	after := focustimer.Snapshot{Mode: focustimer.ModeBreak, SessionsCompleted: 1, TimeRemaining: 300}
	timer.snapshot = after
	events <- focustimer.Event{
		Type:              focustimer.EventPhaseCompleted,
		PreviousMode:      focustimer.ModeWork,
		SessionsCompleted: 1,
		Snapshot:          after,
	}

	msg := m.Init()()
	require.IsType(t, terminal.EventMsg{}, msg)

	updated, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "keeps listening for events")

	view := updated.View()
	assert.Contains(t, view, "05:00")
	assert.Contains(t, view, "BREAK")
	assert.Contains(t, view, "Focus Session Complete!")
	assert.Contains(t, view, "Sessions: 1")
}

func TestModel_QuitsWhenEventsClose(t *testing.T) {
	timer := &fakeTimer{snapshot: focustimer.DefaultSnapshot(model.DefaultTimerConfig())}
	events := make(chan focustimer.Event)
	close(events)
	m := terminal.New(timer, model.DefaultTimerConfig(), events)

	_, cmd := m.Update(m.Init()())

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
