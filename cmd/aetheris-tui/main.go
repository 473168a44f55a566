package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"

	"aetheris/internal/core/focustimer"
	"aetheris/internal/core/model"
	"aetheris/internal/core/widgets"
	"aetheris/internal/httpapi"
	"aetheris/internal/platform"
	"aetheris/internal/storage"
	"aetheris/internal/ui/terminal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/logger"
)

const appName = "Aetheris"

func main() {
	verbose := flag.Bool("v", false, "log to stderr as well as the log file")
	flag.Parse()

	dir, err := platform.ConfigDir(appName)
	if err != nil {
		logger.Init(appName, true, false, io.Discard)
		logger.Fatalf("config dir: %v", err)
	}
	logFile := io.Writer(io.Discard)
	_ = os.MkdirAll(dir, 0o755)
	if file, err := os.OpenFile(filepath.Join(dir, "aetheris-tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer file.Close()
		logFile = file
	}
	defer logger.Init(appName, *verbose, false, logFile).Close()

	if err := run(dir); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	guard, err := platform.AcquireOwnerLock(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			return errors.New("another Aetheris process owns the timer; close it first")
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(filepath.Join(dir, storage.SettingsFileName))
	if err != nil {
		logger.Warningf("settings: %v, using defaults", err)
		settings = model.DefaultSettings()
	}

	store, closeStore, err := storage.Open(settings.Storage, dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warningf("close store: %v", err)
		}
	}()

	engine := focustimer.New(store, model.RealClock{}, settings.TimerConfig(), focustimer.Config{
		TickInterval: settings.TickInterval,
	})
	defer engine.Close()
	engine.SetErrorHook(func(err error) {
		logger.Warningf("timer: %v", err)
	})

	events := engine.Subscribe(16)
	engine.Load(context.Background())

	if settings.HTTPAddr != "" {
		defer serveAPI(settings.HTTPAddr, engine, store)()
	}

	program := tea.NewProgram(terminal.New(engine, engine.Config(), events), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// serveAPI runs the control API in the background. Widget state shares the
// timer's store. The returned func stops the server and flushes pending
// notes.
func serveAPI(addr string, engine *focustimer.Engine, store widgets.Store) func() {
	ctx, cancel := context.WithCancel(context.Background())

	todos := widgets.NewTodoList(store, model.RealClock{})
	if err := todos.Load(ctx); err != nil {
		logger.Warningf("todos: %v", err)
	}
	notes := widgets.NewNotes(store, widgets.DefaultNotesDelay)
	if err := notes.Load(ctx); err != nil {
		logger.Warningf("notes: %v", err)
	}

	server := httpapi.New(addr, engine)
	server.MountTodos(todos)
	server.MountNotes(notes)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := server.Run(ctx); err != nil {
			logger.Errorf("control API: %v", err)
		}
	}()

	return func() {
		cancel()
		<-done
		if err := notes.Close(); err != nil {
			logger.Warningf("notes: %v", err)
		}
	}
}
