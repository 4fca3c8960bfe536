package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"/", Route{Name: Login}},
		{"", Route{Name: Login}},
		{"/signup", Route{Name: Signup}},
		{"/forgot-password", Route{Name: ForgotPassword}},
		{"/reset-password/tok123", Route{Name: ResetPassword, Param: "tok123"}},
		{"/reset-password", Route{Name: ResetPassword}},
		{"/reset-password/", Route{Name: ResetPassword}},
		{"/todos", Route{Name: Todos}},
		{"/todos/", Route{Name: Todos}},
		{"/bogus", Route{Name: NotFound}},
		{"/reset-password/a/b", Route{Name: NotFound}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.path))
		})
	}
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name          string
		in            Route
		authenticated bool
		want          Route
	}{
		{"todos without token", Route{Name: Todos}, false, Route{Name: Login}},
		{"todos with token", Route{Name: Todos}, true, Route{Name: Todos}},
		{"reset without token param", Route{Name: ResetPassword}, false, Route{Name: ForgotPassword}},
		{"reset with token param", Route{Name: ResetPassword, Param: "t"}, false, Route{Name: ResetPassword, Param: "t"}},
		{"catch-all authenticated", Route{Name: NotFound}, true, Route{Name: Todos}},
		{"catch-all anonymous", Route{Name: NotFound}, false, Route{Name: Login}},
		{"login passes through", Route{Name: Login}, true, Route{Name: Login}},
		{"signup passes through", Route{Name: Signup}, false, Route{Name: Signup}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guard(tt.in, tt.authenticated))
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	for _, path := range []string{"/", "/signup", "/forgot-password", "/reset-password/abc", "/todos"} {
		assert.Equal(t, path, Parse(path).Path())
	}
}
