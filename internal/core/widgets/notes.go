package widgets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultNotesDelay is how long typing has to pause before notes are saved.
const DefaultNotesDelay = 500 * time.Millisecond

const notesWriteTimeout = 5 * time.Second

// Notes is a free-text scratchpad saved shortly after the last edit.
type Notes struct {
	store Store
	delay time.Duration

	// saveMu orders writes so an older text never lands after a newer one.
	saveMu sync.Mutex

	mu      sync.Mutex
	text    string
	dirty   bool
	timer   *time.Timer
	onError func(error)
}

// NewNotes creates an empty pad. delay <= 0 uses DefaultNotesDelay.
func NewNotes(store Store, delay time.Duration) *Notes {
	if delay <= 0 {
		delay = DefaultNotesDelay
	}
	return &Notes{store: store, delay: delay}
}

// SetErrorHook observes failures of the delayed saves.
func (notes *Notes) SetErrorHook(hook func(error)) {
	notes.mu.Lock()
	defer notes.mu.Unlock()
	notes.onError = hook
}

// Load replaces the text with the stored one.
func (notes *Notes) Load(ctx context.Context) error {
	record, err := notes.store.Get(ctx, NotesKey)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}

	var text string
	if data := record[NotesKey]; len(data) > 0 {
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode notes: %w", err)
		}
	}

	notes.mu.Lock()
	notes.text = text
	notes.dirty = false
	notes.mu.Unlock()
	return nil
}

// Text returns the current text.
func (notes *Notes) Text() string {
	notes.mu.Lock()
	defer notes.mu.Unlock()
	return notes.text
}

// Length counts the characters in the text.
func (notes *Notes) Length() int {
	return utf8.RuneCountInString(notes.Text())
}

// Update replaces the text and restarts the save delay.
func (notes *Notes) Update(text string) {
	notes.mu.Lock()
	defer notes.mu.Unlock()

	notes.text = text
	notes.dirty = true
	if notes.timer != nil {
		notes.timer.Stop()
	}
	notes.timer = time.AfterFunc(notes.delay, notes.save)
}

// Flush writes unsaved text right away.
func (notes *Notes) Flush(ctx context.Context) error {
	notes.saveMu.Lock()
	defer notes.saveMu.Unlock()

	notes.mu.Lock()
	if notes.timer != nil {
		notes.timer.Stop()
		notes.timer = nil
	}
	if !notes.dirty {
		notes.mu.Unlock()
		return nil
	}
	text := notes.text
	notes.dirty = false
	notes.mu.Unlock()

	data, err := json.Marshal(text)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := notes.store.Set(ctx, map[string][]byte{NotesKey: data}); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}

// Close saves anything still pending.
func (notes *Notes) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), notesWriteTimeout)
	defer cancel()
	return notes.Flush(ctx)
}

func (notes *Notes) save() {
	ctx, cancel := context.WithTimeout(context.Background(), notesWriteTimeout)
	defer cancel()
	if err := notes.Flush(ctx); err != nil {
		notes.mu.Lock()
		hook := notes.onError
		notes.mu.Unlock()
		if hook != nil {
			hook(err)
		}
	}
}
