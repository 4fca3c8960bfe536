// Package todo keeps a client-side view of the remote todo list consistent
// with the server. It never mutates the local list optimistically: after any
// settled create/toggle/delete the authoritative list is re-fetched. That
// trades a round-trip of latency for having no divergence window at all.
package todo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/idilsaglam/todo-remote/internal/model"
)

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrCreatePending = errors.New("a create is already in flight")
	ErrTogglePending = errors.New("a toggle is already in flight")
	ErrDeletePending = errors.New("a delete is already in flight")
)

// Client is the slice of the API client the controller needs.
type Client interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// State is a snapshot of the list view. The pending IDs implement
// single-flight per action class: at most one toggle and one delete may be
// outstanding from this client, and the UI disables the matching controls
// while one is.
type State struct {
	Items           []model.Todo
	Loading         bool
	Err             string
	Creating        bool
	PendingToggleID string
	PendingDeleteID string
}

type Controller struct {
	mu  sync.Mutex
	api Client
	st  State

	// gen counts list fetches. A fetch that settles after a newer one
	// started is stale and its result is dropped, so navigation races and
	// overlapping refreshes cannot roll the view backwards.
	gen int
}

func NewController(api Client) *Controller {
	return &Controller{api: api}
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.st
	st.Items = append([]model.Todo(nil), c.st.Items...)
	return st
}

// Reset discards all view state, e.g. on logout or navigation away.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st = State{}
	c.gen++
}

// Refresh fetches the authoritative list. A fetch error is recorded but
// does not clear previously displayed items.
func (c *Controller) Refresh(ctx context.Context) ([]model.Todo, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.st.Loading = true
	c.mu.Unlock()

	var raw json.RawMessage
	err := c.api.Get(ctx, "/todo", &raw)
	var items []model.Todo
	if err == nil {
		items, err = decodeTodoList(raw)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer fetch started while this one was in flight.
		return c.st.Items, err
	}
	c.st.Loading = false
	if err != nil {
		c.st.Err = err.Error()
		return c.st.Items, err
	}
	c.st.Err = ""
	c.st.Items = items
	return items, nil
}

// Create submits a new item. The empty title is rejected before any
// request goes out. Callers re-fetch after a successful create.
func (c *Controller) Create(ctx context.Context, title string) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, ErrEmptyTitle
	}

	c.mu.Lock()
	if c.st.Creating {
		c.mu.Unlock()
		return model.Todo{}, ErrCreatePending
	}
	c.st.Creating = true
	c.mu.Unlock()

	var created model.Todo
	err := c.api.Post(ctx, "/todo", map[string]any{
		"title":     title,
		"completed": false,
	}, &created)

	c.mu.Lock()
	c.st.Creating = false
	c.mu.Unlock()
	return created, err
}

// Toggle sends the negation of the item's current completed flag. While in
// flight the item's id is recorded so its checkbox can be disabled.
func (c *Controller) Toggle(ctx context.Context, t model.Todo) error {
	c.mu.Lock()
	if c.st.PendingToggleID != "" {
		c.mu.Unlock()
		return ErrTogglePending
	}
	c.st.PendingToggleID = t.ID
	c.mu.Unlock()

	err := c.api.Patch(ctx, "/todo/"+t.ID, map[string]any{
		"completed": !t.Completed,
	}, nil)

	c.mu.Lock()
	c.st.PendingToggleID = ""
	c.mu.Unlock()
	return err
}

// Delete removes an item. While one delete is pending every delete control
// is disabled; a second call is rejected outright.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.st.PendingDeleteID != "" {
		c.mu.Unlock()
		return ErrDeletePending
	}
	c.st.PendingDeleteID = id
	c.mu.Unlock()

	err := c.api.Delete(ctx, "/todo/"+id)

	c.mu.Lock()
	c.st.PendingDeleteID = ""
	c.mu.Unlock()
	return err
}

// decodeTodoList accepts both list shapes the server has been seen to
// return: a bare array, or an object wrapping it under "todos". The
// wrapped form is the compat shim; everything downstream only ever sees
// the normalized slice.
func decodeTodoList(raw json.RawMessage) ([]model.Todo, error) {
	if len(raw) == 0 {
		return []model.Todo{}, nil
	}
	var items []model.Todo
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Todos []model.Todo `json:"todos"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.New("unexpected todo list shape")
	}
	if wrapped.Todos == nil {
		wrapped.Todos = []model.Todo{}
	}
	return wrapped.Todos, nil
}
