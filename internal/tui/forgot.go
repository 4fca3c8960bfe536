package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-remote/internal/api"
	"github.com/idilsaglam/todo-remote/internal/auth"
	"github.com/idilsaglam/todo-remote/internal/form"
	"github.com/idilsaglam/todo-remote/internal/route"
	"github.com/idilsaglam/todo-remote/internal/ui"
)

// neutralSentMessage deliberately does not reveal whether the account
// exists.
const neutralSentMessage = "If an account with that email exists, we've sent password reset instructions."

type forgotScreen struct {
	client *api.Client

	f          *fields
	submitting bool
	sent       bool
	apiErr     string
}

type forgotDoneMsg struct{ err error }

func newForgotScreen(client *api.Client) forgotScreen {
	return forgotScreen{
		client: client,
		f: newFields(
			fieldSpec{name: "email", label: "Email address", placeholder: "Enter your email"},
		),
	}
}

func (m forgotScreen) Init() tea.Cmd { return nil }

func (m forgotScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			if m.sent {
				return m, navigate(route.Route{Name: route.Login})
			}
			if !m.f.validate(form.ForgotPassword()) {
				return m, nil
			}
			m.submitting = true
			m.apiErr = ""
			email := m.f.values()["email"]
			return m, func() tea.Msg {
				return forgotDoneMsg{err: auth.ForgotPassword(context.Background(), m.client, email)}
			}
		case "esc":
			return m, navigate(route.Route{Name: route.Login})
		}
	case forgotDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.apiErr = msg.err.Error()
			return m, nil
		}
		m.sent = true
		return m, nil
	}
	return m, m.f.update(msg)
}

func (m forgotScreen) View() string {
	var b strings.Builder
	b.WriteString(ui.Title.Render("Forgot password"))
	b.WriteString("\n\n")
	if m.sent {
		b.WriteString(ui.Success.Render(neutralSentMessage))
		b.WriteString("\n\n")
		b.WriteString(ui.Help.Render("enter back to login"))
		return ui.Panel(b.String())
	}
	b.WriteString(ui.Muted.Render("Enter your account email and we'll send instructions to reset your password."))
	b.WriteString("\n\n")
	b.WriteString(m.f.view())
	if m.apiErr != "" {
		b.WriteString(ui.Error.Render(m.apiErr))
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString(ui.Muted.Render("Sending..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.Help.Render("enter send reset link • esc back to login • ctrl+c quit"))
	return ui.Panel(b.String())
}
