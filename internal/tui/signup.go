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

type signupScreen struct {
	client *api.Client

	f          *fields
	submitting bool
	apiErr     string
}

type signupDoneMsg struct{ err error }

func newSignupScreen(client *api.Client) signupScreen {
	return signupScreen{
		client: client,
		f: newFields(
			fieldSpec{name: "name", label: "Name", placeholder: "Enter your name"},
			fieldSpec{name: "email", label: "Email", placeholder: "Enter your email"},
			fieldSpec{name: "password", label: "Password", placeholder: "Enter your password", secret: true},
		),
	}
}

func (m signupScreen) Init() tea.Cmd { return nil }

func (m signupScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.f.next()
			return m, nil
		case "shift+tab", "up":
			m.f.prev()
			return m, nil
		case "enter":
			if !m.f.last() {
				m.f.next()
				return m, nil
			}
			if !m.f.validate(form.Signup()) {
				return m, nil
			}
			m.submitting = true
			m.apiErr = ""
			v := m.f.values()
			return m, func() tea.Msg {
				err := auth.Signup(context.Background(), m.client, v["name"], v["email"], v["password"])
				return signupDoneMsg{err: err}
			}
		case "esc":
			return m, navigate(route.Route{Name: route.Login})
		}
	case signupDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.apiErr = msg.err.Error()
			m.f.clearSecrets()
			return m, nil
		}
		return m, navigateNotice(route.Route{Name: route.Login}, "Account created. Log in to continue.")
	}
	return m, m.f.update(msg)
}

func (m signupScreen) View() string {
	var b strings.Builder
	b.WriteString(ui.Title.Render("Signup"))
	b.WriteString("\n\n")
	b.WriteString(m.f.view())
	if m.apiErr != "" {
		b.WriteString(ui.Error.Render(m.apiErr))
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString(ui.Muted.Render("Creating account..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.Help.Render("enter submit • esc back to login • ctrl+c quit"))
	return ui.Panel(b.String())
}
