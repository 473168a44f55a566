// Package widgets holds the dashboard's task list and quick notes. Both
// live in the same key/value store as the focus timer, each under its own
// key.
package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"aetheris/internal/core/model"
)

// Store keys shared with earlier versions of the dashboard.
const (
	TodosKey = "aetheris_todos"
	NotesKey = "aetheris_notes"
)

var (
	ErrEmptyTodo    = errors.New("todo text is empty")
	ErrTodoNotFound = errors.New("todo not found")
	ErrBadPosition  = errors.New("todo position out of range")
)

// Store is the key/value medium the widgets persist to.
type Store interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, record map[string][]byte) error
}

// Todo is one task. IDs are creation times in epoch milliseconds.
type Todo struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TodoList is an ordered task list. Every change is written through to
// the store; a failed write leaves the change in memory and is returned.
type TodoList struct {
	mu    sync.Mutex
	store Store
	clock model.Clock
	items []Todo
}

// NewTodoList creates an empty list. Call Load to restore stored tasks.
func NewTodoList(store Store, clock model.Clock) *TodoList {
	if clock == nil {
		clock = model.RealClock{}
	}
	return &TodoList{store: store, clock: clock}
}

// Load replaces the list with the stored one. A missing record is an
// empty list; an unreadable one leaves the list empty and is reported.
func (list *TodoList) Load(ctx context.Context) error {
	record, err := list.store.Get(ctx, TodosKey)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}

	var items []Todo
	if data := record[TodosKey]; len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode todos: %w", err)
		}
	}

	list.mu.Lock()
	list.items = items
	list.mu.Unlock()
	return nil
}

// Items returns a copy of the tasks in display order.
func (list *TodoList) Items() []Todo {
	list.mu.Lock()
	defer list.mu.Unlock()
	return append([]Todo(nil), list.items...)
}

// ActiveCount reports the tasks not yet completed.
func (list *TodoList) ActiveCount() int {
	list.mu.Lock()
	defer list.mu.Unlock()
	count := 0
	for _, item := range list.items {
		if !item.Completed {
			count++
		}
	}
	return count
}

// Add appends a task with trimmed text.
func (list *TodoList) Add(ctx context.Context, text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, ErrEmptyTodo
	}

	list.mu.Lock()
	defer list.mu.Unlock()

	todo := Todo{ID: list.nextIDLocked(), Text: text}
	list.items = append(list.items, todo)
	return todo, list.saveLocked(ctx)
}

// Toggle flips the completed flag of the task with id.
func (list *TodoList) Toggle(ctx context.Context, id int64) (Todo, error) {
	list.mu.Lock()
	defer list.mu.Unlock()

	index := list.indexLocked(id)
	if index < 0 {
		return Todo{}, ErrTodoNotFound
	}
	list.items[index].Completed = !list.items[index].Completed
	return list.items[index], list.saveLocked(ctx)
}

// Delete removes the task with id.
func (list *TodoList) Delete(ctx context.Context, id int64) error {
	list.mu.Lock()
	defer list.mu.Unlock()

	index := list.indexLocked(id)
	if index < 0 {
		return ErrTodoNotFound
	}
	list.items = append(list.items[:index], list.items[index+1:]...)
	return list.saveLocked(ctx)
}

// ClearCompleted removes every completed task and reports how many went.
func (list *TodoList) ClearCompleted(ctx context.Context) (int, error) {
	list.mu.Lock()
	defer list.mu.Unlock()

	kept := list.items[:0]
	for _, item := range list.items {
		if !item.Completed {
			kept = append(kept, item)
		}
	}
	removed := len(list.items) - len(kept)
	list.items = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, list.saveLocked(ctx)
}

// Move takes the task at position from and reinserts it at position to.
func (list *TodoList) Move(ctx context.Context, from, to int) error {
	list.mu.Lock()
	defer list.mu.Unlock()

	if from < 0 || from >= len(list.items) || to < 0 || to >= len(list.items) {
		return ErrBadPosition
	}
	if from == to {
		return nil
	}

	moved := list.items[from]
	list.items = append(list.items[:from], list.items[from+1:]...)
	list.items = append(list.items[:to], append([]Todo{moved}, list.items[to:]...)...)
	return list.saveLocked(ctx)
}

func (list *TodoList) indexLocked(id int64) int {
	for i, item := range list.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked uses the clock in milliseconds, bumped past existing IDs so
// two tasks added within one millisecond stay distinct.
func (list *TodoList) nextIDLocked() int64 {
	id := list.clock.Now().UnixMilli()
	for _, item := range list.items {
		if item.ID >= id {
			id = item.ID + 1
		}
	}
	return id
}

func (list *TodoList) saveLocked(ctx context.Context) error {
	items := list.items
	if items == nil {
		items = []Todo{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode todos: %w", err)
	}
	if err := list.store.Set(ctx, map[string][]byte{TodosKey: data}); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}
