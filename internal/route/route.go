// Package route mirrors the client's navigation structure: a small fixed
// route table plus the guard that keeps unauthenticated users out of the
// todo view. The app holds only the current route, so every guard redirect
// has replace semantics; there is no history to go back to.
package route

import "strings"

type Name int

const (
	Login Name = iota
	Signup
	ForgotPassword
	ResetPassword
	Todos
	NotFound
)

// Route is a parsed location. Param carries the reset-password token.
type Route struct {
	Name  Name
	Param string
}

// Parse maps a path to a route. Unknown paths land on NotFound.
func Parse(path string) Route {
	path = strings.TrimSuffix(path, "/")
	switch path {
	case "", "/":
		return Route{Name: Login}
	case "/signup":
		return Route{Name: Signup}
	case "/forgot-password":
		return Route{Name: ForgotPassword}
	case "/todos":
		return Route{Name: Todos}
	}
	if token, ok := strings.CutPrefix(path, "/reset-password/"); ok && token != "" && !strings.Contains(token, "/") {
		return Route{Name: ResetPassword, Param: token}
	}
	if path == "/reset-password" {
		return Route{Name: ResetPassword}
	}
	return Route{Name: NotFound}
}

// Guard resolves where a navigation actually lands given the session:
//   - the todo view requires a token; without one it redirects to login
//   - reset-password without a token param falls back to forgot-password
//   - the catch-all sends authenticated users home, others to login
func Guard(r Route, authenticated bool) Route {
	switch r.Name {
	case Todos:
		if !authenticated {
			return Route{Name: Login}
		}
	case ResetPassword:
		if r.Param == "" {
			return Route{Name: ForgotPassword}
		}
	case NotFound:
		if authenticated {
			return Route{Name: Todos}
		}
		return Route{Name: Login}
	}
	return r
}

func (r Route) Path() string {
	switch r.Name {
	case Login:
		return "/"
	case Signup:
		return "/signup"
	case ForgotPassword:
		return "/forgot-password"
	case ResetPassword:
		if r.Param == "" {
			return "/reset-password"
		}
		return "/reset-password/" + r.Param
	case Todos:
		return "/todos"
	}
	return "/404"
}
