package focustimer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aetheris/internal/core/model"
)

// DefaultStoreKey is the store key holding the timer snapshot.
const DefaultStoreKey = "aetheris_pomodoro"

// Store is the asynchronous key/value medium the snapshot lives in.
// Get omits keys that are not present.
type Store interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, record map[string][]byte) error
}

// Config contains runtime options for Engine.
type Config struct {
	// TickInterval is capped at one second.
	TickInterval time.Duration
	StoreKey     string
	Scheduler    Scheduler
}

// Engine is the work/break state machine.
//
// All transitions run under one mutex, so the ticking callback and user
// actions never interleave. The countdown is anchored to an absolute
// deadline and every tick recomputes the remaining time from the clock.
type Engine struct {
	mu         sync.Mutex
	config     model.TimerConfig
	options    Config
	clock      model.Clock
	writer     *snapshotWriter
	notifier   Notifier
	onError    func(error)
	snapshot   Snapshot
	cancelTick CancelFunc
	generation uint64
	events     []chan Event
	closed     bool

	// errors raised under mu, handed to onError by unlock
	pendingErrs []error
}

// New creates an Engine in the first-use state. Call Load to restore the
// persisted snapshot.
func New(store Store, clock model.Clock, config model.TimerConfig, options Config) *Engine {
	if options.TickInterval <= 0 || options.TickInterval > model.MaxTickInterval {
		options.TickInterval = model.MaxTickInterval
	}
	if options.StoreKey == "" {
		options.StoreKey = DefaultStoreKey
	}
	if options.Scheduler == nil {
		options.Scheduler = TickerScheduler{}
	}
	if clock == nil {
		clock = model.RealClock{}
	}
	config = config.Normalized()

	engine := &Engine{
		config:   config,
		options:  options,
		clock:    clock,
		snapshot: DefaultSnapshot(config),
	}
	engine.writer = newSnapshotWriter(store, options.StoreKey, engine.reportError)
	return engine
}

// SetNotifier injects the notifier used on live phase completions.
func (engine *Engine) SetNotifier(notifier Notifier) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.notifier = notifier
}

// SetErrorHook registers an observer for store and decode failures. The
// hook never changes control flow: failures still fall back to defaults
// or are dropped. It runs without the engine lock held, so it may call
// back into the engine.
func (engine *Engine) SetErrorHook(hook func(error)) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.onError = hook
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Snapshot returns a copy of the in-memory state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshot
}

// Remaining reports the whole seconds left in the current phase.
func (engine *Engine) Remaining() int {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshot.RemainingAt(engine.clock.Now())
}

// Config returns the phase lengths in use.
func (engine *Engine) Config() model.TimerConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config
}

// UpdateConfig replaces the phase lengths. A paused phase that has not
// been started yet is stretched to the new length; otherwise the change
// applies from the next reset or transition.
func (engine *Engine) UpdateConfig(config model.TimerConfig) {
	engine.mu.Lock()
	defer engine.unlock()
	config = config.Normalized()
	previous := engine.config
	engine.config = config
	if engine.closed || engine.snapshot.IsRunning {
		return
	}
	if engine.snapshot.TimeRemaining != durationOf(engine.snapshot.Mode, previous) {
		return
	}
	if durationOf(engine.snapshot.Mode, config) == engine.snapshot.TimeRemaining {
		return
	}
	engine.snapshot = engine.snapshot.rewound(config)
	engine.changedLocked(engine.clock.Now())
}

// Load restores the persisted snapshot and reconciles it with the clock.
// A running snapshot whose deadline is still ahead resumes counting; one
// whose deadline passed gets exactly one phase transition and is left
// paused, without a notification. Store failures fall back to defaults.
func (engine *Engine) Load(ctx context.Context) Snapshot {
	snapshot := engine.read(ctx)

	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return snapshot
	}
	now := engine.clock.Now()
	engine.stopTickLocked()
	engine.snapshot = reconcile(snapshot, now, engine.config)
	if engine.snapshot.IsRunning {
		engine.scheduleTickLocked()
	}
	engine.changedLocked(now)
	result := engine.snapshot
	engine.unlock()
	return result
}

// Start begins or resumes the countdown. It is a no-op while running.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.unlock()
	if engine.closed || engine.snapshot.IsRunning {
		return
	}
	now := engine.clock.Now()
	engine.snapshot = engine.snapshot.running(now)
	engine.scheduleTickLocked()
	engine.changedLocked(now)
}

// Pause freezes the countdown. Any pending completion check is cancelled
// before Pause returns.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.unlock()
	engine.stopTickLocked()
	if engine.closed || !engine.snapshot.IsRunning {
		return
	}
	now := engine.clock.Now()
	engine.snapshot = engine.snapshot.paused(now)
	engine.changedLocked(now)
}

// Reset rewinds the current phase to its full length, paused. Any pending
// completion check is cancelled before Reset returns.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.unlock()
	engine.stopTickLocked()
	if engine.closed {
		return
	}
	engine.snapshot = engine.snapshot.rewound(engine.config)
	engine.changedLocked(engine.clock.Now())
}

// Close stops the countdown, flushes the last write and closes observers.
// The snapshot stays as it is so the next Load can reconcile it.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.stopTickLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	engine.writer.close()
	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) read(ctx context.Context) Snapshot {
	record, err := engine.writer.store.Get(ctx, engine.options.StoreKey)
	if err != nil {
		engine.reportError(fmt.Errorf("load snapshot: %w", err))
		return DefaultSnapshot(engine.config)
	}
	snapshot, err := DecodeSnapshot(record[engine.options.StoreKey], engine.config)
	if err != nil {
		engine.reportError(err)
	}
	return snapshot
}

// reconcile brings a stored snapshot up to now. At most one transition is
// applied no matter how many phases would have elapsed.
func reconcile(snapshot Snapshot, now time.Time, config model.TimerConfig) Snapshot {
	if !snapshot.IsRunning {
		return snapshot
	}
	if secondsUntil(snapshot.Deadline, now) > 0 {
		return snapshot
	}
	return snapshot.completed(config)
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	if generation != engine.generation || engine.closed || !engine.snapshot.IsRunning {
		engine.mu.Unlock()
		return
	}

	now := engine.clock.Now()
	remaining := secondsUntil(engine.snapshot.Deadline, now)
	if remaining > 0 {
		engine.emitLocked(Event{
			Type:      EventTick,
			Mode:      engine.snapshot.Mode,
			Remaining: time.Duration(remaining) * time.Second,
			Snapshot:  engine.snapshot,
			At:        now,
		})
		engine.mu.Unlock()
		return
	}

	// Stop the loop before transitioning so no later callback can
	// complete the same phase twice.
	engine.stopTickLocked()
	finished := engine.snapshot.Mode
	engine.snapshot = engine.snapshot.completed(engine.config)
	engine.emitLocked(Event{
		Type:              EventPhaseCompleted,
		Mode:              engine.snapshot.Mode,
		Remaining:         time.Duration(engine.snapshot.TimeRemaining) * time.Second,
		PreviousMode:      finished,
		SessionsCompleted: engine.snapshot.SessionsCompleted,
		Snapshot:          engine.snapshot,
		At:                now,
	})
	engine.changedLocked(now)
	notifier := engine.notifier
	message := CompletionNotification(finished, engine.snapshot, engine.config)
	engine.unlock()

	if notifier != nil {
		notifier.Notify(message.Title, message.Body)
	}
}

func (engine *Engine) scheduleTickLocked() {
	engine.stopTickLocked()
	generation := engine.generation
	engine.cancelTick = engine.options.Scheduler.Every(engine.options.TickInterval, func() {
		engine.tick(generation)
	})
}

// stopTickLocked cancels the countdown and invalidates callbacks that are
// already in flight.
func (engine *Engine) stopTickLocked() {
	engine.generation++
	if engine.cancelTick != nil {
		engine.cancelTick()
		engine.cancelTick = nil
	}
}

// changedLocked persists the current snapshot and announces it.
func (engine *Engine) changedLocked(now time.Time) {
	data, err := EncodeSnapshot(engine.snapshot)
	if err != nil {
		engine.reportErrorLocked(err)
	} else {
		engine.writer.submit(data)
	}
	engine.emitLocked(Event{
		Type:              EventStateChanged,
		Mode:              engine.snapshot.Mode,
		Remaining:         time.Duration(engine.snapshot.RemainingAt(now)) * time.Second,
		SessionsCompleted: engine.snapshot.SessionsCompleted,
		Snapshot:          engine.snapshot,
		At:                now,
	})
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func (engine *Engine) reportError(err error) {
	engine.mu.Lock()
	hook := engine.onError
	engine.mu.Unlock()
	if hook != nil {
		hook(err)
	}
}

func (engine *Engine) reportErrorLocked(err error) {
	engine.pendingErrs = append(engine.pendingErrs, err)
}

// unlock releases mu and then reports errors raised while it was held.
func (engine *Engine) unlock() {
	errs := engine.pendingErrs
	engine.pendingErrs = nil
	hook := engine.onError
	engine.mu.Unlock()
	if hook == nil {
		return
	}
	for _, err := range errs {
		hook(err)
	}
}
