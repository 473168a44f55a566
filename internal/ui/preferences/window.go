package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"aetheris/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	workMinutes   *widget.Entry
	breakMinutes  *widget.Entry
	tickMillis    *widget.Entry
	storage       *widget.Select
	notifications *widget.Check
	httpAddr      *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Aetheris Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		workMinutes:   widget.NewEntry(),
		breakMinutes:  widget.NewEntry(),
		tickMillis:    widget.NewEntry(),
		storage:       widget.NewSelect([]string{string(model.StorageSQLite), string(model.StorageYAML)}, nil),
		notifications: widget.NewCheck("Notify when a phase ends", nil),
		httpAddr:      widget.NewEntry(),
	}
	prefs.httpAddr.SetPlaceHolder("127.0.0.1:7435 (loopback only, empty = off)")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus length"), prefs.workMinutes, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break length"), prefs.breakMinutes, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Refresh every"), prefs.tickMillis, widget.NewLabel("ms (100-1000)")),
		prefs.notifications,
		widget.NewLabelWithStyle("Storage", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.storage,
		widget.NewLabel("Local control API"),
		prefs.httpAddr,
		widget.NewLabel("Storage and API changes apply after restart."),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 420))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.workMinutes.SetText(fmt.Sprintf("%d", int(settings.WorkDuration.Minutes())))
	prefs.breakMinutes.SetText(fmt.Sprintf("%d", int(settings.BreakDuration.Minutes())))
	prefs.tickMillis.SetText(fmt.Sprintf("%d", settings.TickInterval.Milliseconds()))
	prefs.storage.SetSelected(string(settings.Storage))
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.httpAddr.SetText(settings.HTTPAddr)
}

func (prefs *Window) handleSave() {
	settings := applyForm(prefs.settings, formValues{
		workMinutes:   prefs.workMinutes.Text,
		breakMinutes:  prefs.breakMinutes.Text,
		tickMillis:    prefs.tickMillis.Text,
		storage:       prefs.storage.Selected,
		notifications: prefs.notifications.Checked,
		httpAddr:      prefs.httpAddr.Text,
	})

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

type formValues struct {
	workMinutes   string
	breakMinutes  string
	tickMillis    string
	storage       string
	notifications bool
	httpAddr      string
}

// applyForm merges the raw form input into settings. Invalid fields keep
// their previous value.
func applyForm(settings model.Settings, form formValues) model.Settings {
	if minutes, ok := parsePositiveInt(form.workMinutes); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(form.breakMinutes); ok {
		settings.BreakDuration = time.Duration(minutes) * time.Minute
	}
	if millis, ok := parsePositiveInt(form.tickMillis); ok {
		if tick := time.Duration(millis) * time.Millisecond; model.ValidTickInterval(tick) {
			settings.TickInterval = tick
		}
	}
	switch backend := model.StorageBackend(form.storage); backend {
	case model.StorageSQLite, model.StorageYAML:
		settings.Storage = backend
	}
	settings.Notifications = form.notifications
	if addr := strings.TrimSpace(form.httpAddr); addr == "" || model.CheckLoopback(addr) == nil {
		settings.HTTPAddr = addr
	}
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
