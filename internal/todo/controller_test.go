package todo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo-remote/internal/api"
	"github.com/idilsaglam/todo-remote/internal/model"
	"github.com/idilsaglam/todo-remote/internal/todo"
)

type noTokens struct{}

func (noTokens) Get() model.Session { return model.Session{} }

func newController(srv *httptest.Server) *todo.Controller {
	return todo.NewController(api.NewClient(srv.URL, 5*time.Second, noTokens{}))
}

func TestRefreshBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/todo", r.URL.Path)
		w.Write([]byte(`[{"_id":"1","title":"Buy milk","completed":false}]`))
	}))
	defer srv.Close()

	c := newController(srv)
	items, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Title)

	st := c.Snapshot()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
}

func TestRefreshWrappedObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"todos":[{"_id":"1","title":"a"},{"_id":"2","title":"b"}]}`))
	}))
	defer srv.Close()

	items, err := newController(srv).Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[1].ID)
}

func TestRefreshUnexpectedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"nonsense"`))
	}))
	defer srv.Close()

	_, err := newController(srv).Refresh(context.Background())
	assert.EqualError(t, err, "unexpected todo list shape")
}

func TestRefreshErrorKeepsPriorItems(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"_id":"1","title":"keep me"}]`))
	}))
	defer srv.Close()

	c := newController(srv)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = c.Refresh(context.Background())
	require.Error(t, err)

	st := c.Snapshot()
	assert.NotEmpty(t, st.Err)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "keep me", st.Items[0].Title)
}

func TestCreateEmptyTitleSendsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := newController(srv)
	_, err := c.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, todo.ErrEmptyTitle)
	assert.Zero(t, hits.Load())
}

func TestCreateSendsTitleAndCompletedFalse(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/todo", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"_id":"9","title":"Buy milk","completed":false}`))
	}))
	defer srv.Close()

	created, err := newController(srv).Create(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "9", created.ID)
	assert.Equal(t, map[string]any{"title": "Buy milk", "completed": false}, body)
}

func TestToggleSendsNegation(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/todo/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newController(srv)
	err := c.Toggle(context.Background(), model.Todo{ID: "7", Completed: false})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"completed": true}, body)

	// pending id is cleared once the toggle settles
	assert.Empty(t, c.Snapshot().PendingToggleID)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDeleteSingleFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newController(srv)
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Delete(context.Background(), "1") }()

	waitFor(t, func() bool { return c.Snapshot().PendingDeleteID == "1" })

	// a second delete is rejected while the first is in flight
	err := c.Delete(context.Background(), "2")
	assert.ErrorIs(t, err, todo.ErrDeletePending)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Empty(t, c.Snapshot().PendingDeleteID)
}

func TestToggleSingleFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newController(srv)
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Toggle(context.Background(), model.Todo{ID: "1"}) }()

	waitFor(t, func() bool { return c.Snapshot().PendingToggleID == "1" })

	err := c.Toggle(context.Background(), model.Todo{ID: "2"})
	assert.ErrorIs(t, err, todo.ErrTogglePending)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestPendingDeleteClearedOnFailureToo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such todo"}`))
	}))
	defer srv.Close()

	c := newController(srv)
	err := c.Delete(context.Background(), "nope")
	require.Error(t, err)
	assert.Empty(t, c.Snapshot().PendingDeleteID)
}

func TestStaleFetchResultDropped(t *testing.T) {
	var n atomic.Int32
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			w.Write([]byte(`[{"_id":"old","title":"stale"}]`))
			return
		}
		w.Write([]byte(`[{"_id":"new","title":"fresh"}]`))
	}))
	defer srv.Close()

	c := newController(srv)
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = c.Refresh(context.Background())
	}()
	<-firstStarted

	// a newer fetch settles while the first is still in flight
	items, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].Title)

	close(releaseFirst)
	<-firstDone

	// the stale settle did not roll the view back
	st := c.Snapshot()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "fresh", st.Items[0].Title)
}

func TestResetDiscardsState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"1","title":"a"}]`))
	}))
	defer srv.Close()

	c := newController(srv)
	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	c.Reset()
	assert.Empty(t, c.Snapshot().Items)
}
