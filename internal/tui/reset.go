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

// resetScreen is only ever mounted with a token; the guard sends tokenless
// navigations to the forgot-password flow instead.
type resetScreen struct {
	client *api.Client
	token  string

	f          *fields
	submitting bool
	done       bool
	apiErr     string
}

type resetDoneMsg struct{ err error }

func newResetScreen(client *api.Client, token string) resetScreen {
	return resetScreen{
		client: client,
		token:  token,
		f: newFields(
			fieldSpec{name: "password", label: "New password", placeholder: "Enter new password", secret: true},
			fieldSpec{name: "confirmPassword", label: "Confirm password", placeholder: "Confirm new password", secret: true},
		),
	}
}

func (m resetScreen) Init() tea.Cmd { return nil }

func (m resetScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			if !m.done {
				m.f.next()
			}
			return m, nil
		case "shift+tab", "up":
			if !m.done {
				m.f.prev()
			}
			return m, nil
		case "enter":
			if m.done {
				return m, navigate(route.Route{Name: route.Login})
			}
			if !m.f.last() {
				m.f.next()
				return m, nil
			}
			if !m.f.validate(form.ResetPassword()) {
				return m, nil
			}
			m.submitting = true
			m.apiErr = ""
			password := m.f.values()["password"]
			return m, func() tea.Msg {
				return resetDoneMsg{err: auth.ResetPassword(context.Background(), m.client, m.token, password)}
			}
		case "esc":
			return m, navigate(route.Route{Name: route.ForgotPassword})
		}
	case resetDoneMsg:
		m.submitting = false
		m.f.clearSecrets()
		if msg.err != nil {
			m.apiErr = msg.err.Error()
			return m, nil
		}
		m.done = true
		return m, nil
	}
	return m, m.f.update(msg)
}

func (m resetScreen) View() string {
	var b strings.Builder
	b.WriteString(ui.Title.Render("Reset password"))
	b.WriteString("\n\n")
	if m.done {
		b.WriteString(ui.Success.Render("Your password has been reset successfully."))
		b.WriteString("\n\n")
		b.WriteString(ui.Help.Render("enter go to login"))
		return ui.Panel(b.String())
	}
	b.WriteString(ui.Muted.Render("Create a new password for your account."))
	b.WriteString("\n\n")
	b.WriteString(m.f.view())
	if m.apiErr != "" {
		b.WriteString(ui.Error.Render(m.apiErr))
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString(ui.Muted.Render("Resetting..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.Help.Render("enter submit • esc back • ctrl+c quit"))
	return ui.Panel(b.String())
}
