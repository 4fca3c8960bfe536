package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo-remote/internal/api"
	"github.com/idilsaglam/todo-remote/internal/auth"
	"github.com/idilsaglam/todo-remote/internal/model"
)

type noTokens struct{}

func (noTokens) Get() model.Session { return model.Session{} }

func client(srv *httptest.Server) *api.Client {
	return api.NewClient(srv.URL, 5*time.Second, noTokens{})
}

func TestLogin(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"token":"tok","user":{"id":"u1","email":"a@example.com"}}`))
	}))
	defer srv.Close()

	resp, err := auth.Login(context.Background(), client(srv), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "a@example.com", "password": "secret"}, body)
	assert.Equal(t, "tok", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	resp, err := auth.Login(context.Background(), client(srv), "a@example.com", "wrong")
	require.Error(t, err)
	assert.Empty(t, resp.Token)
	assert.Nil(t, resp.User)
}

func TestSignup(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	require.NoError(t, auth.Signup(context.Background(), client(srv), "Ada", "ada@example.com", "abcdef"))
	assert.Equal(t, "Ada", body["name"])
}

func TestForgotPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/forgot-password", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	require.NoError(t, auth.ForgotPassword(context.Background(), client(srv), "ada@example.com"))
}

func TestResetPasswordTokenInPath(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/reset-password/tok123", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	require.NoError(t, auth.ResetPassword(context.Background(), client(srv), "tok123", "abcdef"))
	assert.Equal(t, map[string]string{"password": "abcdef"}, body)
}
