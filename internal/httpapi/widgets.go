package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"aetheris/internal/core/widgets"

	"github.com/go-chi/chi/v5"
)

// Todos is the task list the API drives.
type Todos interface {
	Items() []widgets.Todo
	Add(ctx context.Context, text string) (widgets.Todo, error)
	Toggle(ctx context.Context, id int64) (widgets.Todo, error)
	Delete(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context) (int, error)
	Move(ctx context.Context, from, to int) error
}

// Notepad is the notes widget the API drives.
type Notepad interface {
	Text() string
	Update(text string)
}

// TodosResponse lists the tasks in display order.
type TodosResponse struct {
	Items  []widgets.Todo `json:"items"`
	Active int            `json:"active"`
}

// NotesResponse carries the notes text.
type NotesResponse struct {
	Text   string `json:"text"`
	Length int    `json:"length"`
}

type addTodoRequest struct {
	Text string `json:"text"`
}

type moveTodoRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type clearedResponse struct {
	Removed int `json:"removed"`
}

// MountTodos serves todos under /todos. Call it before Run.
func (s *Server) MountTodos(todos Todos) {
	h := &todoHandlers{todos: todos}
	s.router.Route("/todos", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.add)
		r.Post("/clear-completed", h.clearCompleted)
		r.Post("/move", h.move)
		r.Post("/{id}/toggle", h.toggle)
		r.Delete("/{id}", h.delete)
	})
}

// MountNotes serves notes under /notes. Call it before Run.
func (s *Server) MountNotes(notes Notepad) {
	h := &notesHandlers{notes: notes}
	s.router.Route("/notes", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.put)
	})
}

type todoHandlers struct {
	todos Todos
}

func (h *todoHandlers) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.describe())
}

func (h *todoHandlers) add(w http.ResponseWriter, r *http.Request) {
	var req addTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	todo, err := h.todos.Add(r.Context(), req.Text)
	if err != nil {
		writeWidgetError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *todoHandlers) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	todo, err := h.todos.Toggle(r.Context(), id)
	if err != nil {
		writeWidgetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *todoHandlers) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	if err := h.todos.Delete(r.Context(), id); err != nil {
		writeWidgetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.describe())
}

func (h *todoHandlers) clearCompleted(w http.ResponseWriter, r *http.Request) {
	removed, err := h.todos.ClearCompleted(r.Context())
	if err != nil {
		writeWidgetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearedResponse{Removed: removed})
}

func (h *todoHandlers) move(w http.ResponseWriter, r *http.Request) {
	var req moveTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if err := h.todos.Move(r.Context(), req.From, req.To); err != nil {
		writeWidgetError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.describe())
}

func (h *todoHandlers) describe() TodosResponse {
	items := h.todos.Items()
	if items == nil {
		items = []widgets.Todo{}
	}
	active := 0
	for _, item := range items {
		if !item.Completed {
			active++
		}
	}
	return TodosResponse{Items: items, Active: active}
}

type notesHandlers struct {
	notes Notepad
}

func (h *notesHandlers) get(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.describe())
}

func (h *notesHandlers) put(w http.ResponseWriter, r *http.Request) {
	var req NotesResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	h.notes.Update(req.Text)
	writeJSON(w, http.StatusOK, h.describe())
}

func (h *notesHandlers) describe() NotesResponse {
	text := h.notes.Text()
	return NotesResponse{Text: text, Length: utf8.RuneCountInString(text)}
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid todo id"})
		return 0, false
	}
	return id, true
}

func writeWidgetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, widgets.ErrTodoNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, widgets.ErrBadPosition), errors.Is(err, widgets.ErrEmptyTodo):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
