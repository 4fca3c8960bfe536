package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo-remote/internal/model"
)

type staticTokens struct {
	sess model.Session
}

func (s staticTokens) Get() model.Session { return s.sess }

func TestBearerAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{model.Session{Token: "tok"}})
	require.NoError(t, c.Get(context.Background(), "/todo", nil))
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestRequestGoesOutWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{})
	require.NoError(t, c.Get(context.Background(), "/todo", nil))
	assert.Empty(t, gotAuth)
}

func TestApiErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"title already exists"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{})
	err := c.Post(context.Background(), "/todo", map[string]string{"title": "x"}, nil)

	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "title already exists", apiErr.Error())
}

func TestApiErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{})
	err := c.Get(context.Background(), "/todo", nil)

	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 500", apiErr.Error())
}

func TestApiErrorAcceptsErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{})
	err := c.Post(context.Background(), "/user/login", map[string]string{}, nil)

	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestTransportErrorWhenNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewClient(srv.URL, time.Second, staticTokens{})
	err := c.Get(context.Background(), "/todo", nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	var apiErr *ApiError
	assert.False(t, errors.As(err, &apiErr))
}

func TestUnauthorizedHookPolicy(t *testing.T) {
	status := http.StatusUnauthorized
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	fired := 0
	c := NewClient(srv.URL, time.Second, staticTokens{}, WithUnauthorizedHook(func() { fired++ }))

	_ = c.Get(context.Background(), "/todo", nil)
	assert.Equal(t, 1, fired)

	// only 401 triggers the hook
	status = http.StatusForbidden
	_ = c.Get(context.Background(), "/todo", nil)
	assert.Equal(t, 1, fired)

	// without the hook a 401 is just an ApiError
	status = http.StatusUnauthorized
	plain := NewClient(srv.URL, time.Second, staticTokens{})
	err := plain.Get(context.Background(), "/todo", nil)
	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestDecodesSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/todo/42", r.URL.Path)
		w.Write([]byte(`{"_id":"42","title":"Buy milk","completed":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{})
	var out model.Todo
	require.NoError(t, c.Patch(context.Background(), "/todo/42", map[string]bool{"completed": true}, &out))
	assert.Equal(t, "Buy milk", out.Title)
	assert.True(t, out.Completed)
}

func TestDeleteSendsNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticTokens{})
	require.NoError(t, c.Delete(context.Background(), "/todo/42"))
}
