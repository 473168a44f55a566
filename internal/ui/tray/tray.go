package tray

import (
	"fmt"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnPause       func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager renders the timer in the system tray menu.
type Manager struct {
	app          desktop.App
	callbacks    Callbacks
	statusItem   *fyne.MenuItem
	sessionsItem *fyne.MenuItem
	startItem    *fyne.MenuItem
	pauseItem    *fyne.MenuItem
	resetItem    *fyne.MenuItem
	running      bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Focus: 25:00", nil)
	manager.statusItem.Disabled = true
	manager.sessionsItem = fyne.NewMenuItem("Sessions: 0", nil)
	manager.sessionsItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnStart != nil {
			manager.callbacks.OnStart()
		}
	})
	manager.pauseItem = fyne.NewMenuItem("Pause", func() {
		if manager.callbacks.OnPause != nil {
			manager.callbacks.OnPause()
		}
	})
	manager.pauseItem.Disabled = true
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.refreshIcon()
	manager.refreshMenu()
	return manager
}

// Render updates the menu from a timer view. Call it on the fyne thread.
func (manager *Manager) Render(view display.View) {
	phase := "Focus"
	if view.Mode == focustimer.ModeBreak {
		phase = "Break"
	}
	manager.statusItem.Label = fmt.Sprintf("%s: %s (%s)", phase, view.Time, view.Status)
	manager.sessionsItem.Label = fmt.Sprintf("Sessions: %d", view.Sessions)

	manager.startItem.Disabled = view.Running
	manager.pauseItem.Disabled = !view.Running
	if manager.running != view.Running {
		manager.running = view.Running
		manager.refreshIcon()
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshIcon() {
	if manager.running {
		manager.app.SetSystemTrayIcon(theme.MediaPlayIcon())
		return
	}
	manager.app.SetSystemTrayIcon(theme.MediaPauseIcon())
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Aetheris",
		manager.statusItem,
		manager.sessionsItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.resetItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		manager.quitItem(),
	))
}

func (manager *Manager) quitItem() *fyne.MenuItem {
	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true
	return quit
}
