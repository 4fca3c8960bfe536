// Package auth holds the four account flows. Each is exactly one request;
// the screens and CLI prompts share these so the wire shapes live in one
// place.
package auth

import (
	"context"

	"github.com/idilsaglam/todo-remote/internal/model"
)

// Client is the slice of the API client the flows use.
type Client interface {
	Post(ctx context.Context, path string, body, out any) error
}

// LoginResponse is the success shape of POST /user/login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func Login(ctx context.Context, c Client, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.Post(ctx, "/user/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	return resp, err
}

func Signup(ctx context.Context, c Client, name, email, password string) error {
	return c.Post(ctx, "/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

// ForgotPassword requests reset instructions. The server answers the same
// way whether or not the account exists; the caller shows a neutral
// message either way to avoid account enumeration.
func ForgotPassword(ctx context.Context, c Client, email string) error {
	return c.Post(ctx, "/auth/forgot-password", map[string]string{
		"email": email,
	}, nil)
}

func ResetPassword(ctx context.Context, c Client, token, password string) error {
	return c.Post(ctx, "/auth/reset-password/"+token, map[string]string{
		"password": password,
	}, nil)
}
