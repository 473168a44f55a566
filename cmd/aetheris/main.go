package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/core/widgets"
	"aetheris/internal/httpapi"
	"aetheris/internal/platform"
	"aetheris/internal/storage"
	"aetheris/internal/ui/display"
	"aetheris/internal/ui/notify"
	"aetheris/internal/ui/preferences"
	"aetheris/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/google/logger"
)

const (
	appName = "Aetheris"
	logName = "aetheris.log"
)

func main() {
	dir, err := platform.ConfigDir(appName)
	if err != nil {
		logger.Init(appName, true, false, io.Discard)
		logger.Fatalf("config dir: %v", err)
	}
	defer logger.Init(appName, true, false, openLog(dir)).Close()

	guard, err := platform.AcquireOwnerLock(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Infof("%s is already running", appName)
			return
		}
		logger.Fatalf("owner lock: %v", err)
	}
	defer func() {
		_ = guard.Release()
	}()

	settingsPath := filepath.Join(dir, storage.SettingsFileName)
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		logger.Warningf("settings: %v, using defaults", err)
		settings = model.DefaultSettings()
	}

	store, closeStore, err := storage.Open(settings.Storage, dir)
	if err != nil {
		logger.Fatalf("open %s store: %v", settings.Storage, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warningf("close store: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := focustimer.New(store, model.RealClock{}, settings.TimerConfig(), focustimer.Config{
		TickInterval: settings.TickInterval,
	})
	defer engine.Close()
	engine.SetErrorHook(func(err error) {
		logger.Warningf("timer: %v", err)
	})

	fyneApp := app.NewWithID("com.aetheris.focus")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Errorf("system tray unsupported on this platform")
		return
	}
	engine.SetNotifier(notifierFor(fyneApp, settings))

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Aetheris is running in the system tray."))
	trayWindow.SetCloseIntercept(trayWindow.Hide)
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	prefsWindow := preferences.New(fyneApp, settings, func(updated model.Settings) {
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Warningf("save settings: %v", err)
		}
		settings = updated
		engine.UpdateConfig(settings.TimerConfig())
		engine.SetNotifier(notifierFor(fyneApp, settings))
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart:       engine.Start,
		OnPause:       engine.Pause,
		OnReset:       engine.Reset,
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			engine.Close()
			fyneApp.Quit()
		},
	})

	events := engine.Subscribe(16)
	go func() {
		for event := range events {
			view := display.Render(event.Snapshot, int(event.Remaining/time.Second), engine.Config())
			fyne.Do(func() {
				trayManager.Render(view)
			})
		}
	}()

	loaded := engine.Load(ctx)
	logger.Infof("timer loaded: mode=%s running=%t sessions=%d", loaded.Mode, loaded.IsRunning, loaded.SessionsCompleted)

	todos, notes := loadWidgets(ctx, store)
	defer func() {
		if err := notes.Close(); err != nil {
			logger.Warningf("notes: %v", err)
		}
	}()

	if settings.HTTPAddr != "" {
		server := httpapi.New(settings.HTTPAddr, engine)
		server.MountTodos(todos)
		server.MountNotes(notes)
		go func() {
			logger.Infof("control API listening on %s", settings.HTTPAddr)
			if err := server.Run(ctx); err != nil {
				logger.Errorf("control API: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
}

func loadWidgets(ctx context.Context, store widgets.Store) (*widgets.TodoList, *widgets.Notes) {
	todos := widgets.NewTodoList(store, model.RealClock{})
	if err := todos.Load(ctx); err != nil {
		logger.Warningf("todos: %v", err)
	}
	notes := widgets.NewNotes(store, widgets.DefaultNotesDelay)
	notes.SetErrorHook(func(err error) {
		logger.Warningf("notes: %v", err)
	})
	if err := notes.Load(ctx); err != nil {
		logger.Warningf("notes: %v", err)
	}
	return todos, notes
}

func notifierFor(fyneApp fyne.App, settings model.Settings) focustimer.Notifier {
	if !settings.Notifications {
		return notify.Discard{}
	}
	return notify.NewDesktop(fyneApp)
}

func openLog(dir string) io.Writer {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return io.Discard
	}
	file, err := os.OpenFile(filepath.Join(dir, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard
	}
	return file
}
