// Package terminal renders the focus timer as a bubbletea program.
package terminal

import (
	"fmt"
	"strings"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/ui/display"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

// Controller is the part of the engine the terminal drives.
type Controller interface {
	Start()
	Pause()
	Reset()
	Snapshot() focustimer.Snapshot
	Remaining() int
}

// EventMsg carries an engine event into the program.
type EventMsg focustimer.Event

// closedMsg reports that the engine stopped publishing events.
type closedMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#8B5CF6")).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	workStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)
)

// Model is the bubbletea model of the timer widget.
type Model struct {
	timer  Controller
	config model.TimerConfig
	events <-chan focustimer.Event
	view   display.View
	notice string
}

// New creates the widget model. events should come from the engine's
// Subscribe.
func New(timer Controller, config model.TimerConfig, events <-chan focustimer.Event) Model {
	m := Model{timer: timer, config: config, events: events}
	m.refresh()
	return m
}

// Init starts listening for engine events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan focustimer.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return EventMsg(event)
	}
}

// Update handles keys and engine events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s", " ":
			m.notice = ""
			m.timer.Start()
		case "p":
			m.timer.Pause()
		case "r":
			m.notice = ""
			m.timer.Reset()
		}
		m.refresh()
	case EventMsg:
		if msg.Type == focustimer.EventPhaseCompleted {
			message := focustimer.CompletionNotification(msg.PreviousMode, msg.Snapshot, m.config)
			m.notice = message.Title + " " + message.Body
		}
		m.refresh()
		return m, waitForEvent(m.events)
	case closedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) refresh() {
	m.view = display.Render(m.timer.Snapshot(), m.timer.Remaining(), m.config)
}

// View renders the widget.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Aetheris focus timer"))
	b.WriteString("\n\n")

	phase := workStyle.Render("FOCUS")
	if m.view.Mode == focustimer.ModeBreak {
		phase = breakStyle.Render("BREAK")
	}

	body := fmt.Sprintf("%s  %s\n\n%s\n%s\n\nSessions: %d",
		phase,
		clockStyle.Render(m.view.Time),
		progressBar(m.view.Progress),
		m.view.Status,
		m.view.Sessions,
	)
	b.WriteString(boxStyle.Render(body))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("s start · p pause · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

// progressBar draws the elapsed part of the phase.
func progressBar(remaining float64) string {
	filled := int((1 - remaining) * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}
