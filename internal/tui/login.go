package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-remote/internal/api"
	"github.com/idilsaglam/todo-remote/internal/auth"
	"github.com/idilsaglam/todo-remote/internal/form"
	"github.com/idilsaglam/todo-remote/internal/route"
	"github.com/idilsaglam/todo-remote/internal/session"
	"github.com/idilsaglam/todo-remote/internal/ui"
)

type loginScreen struct {
	client *api.Client
	sess   *session.Store

	f          *fields
	submitting bool
	apiErr     string
	notice     string
}

type loginDoneMsg struct {
	resp auth.LoginResponse
	err  error
}

func newLoginScreen(client *api.Client, sess *session.Store, notice string) loginScreen {
	return loginScreen{
		client: client,
		sess:   sess,
		notice: notice,
		f: newFields(
			fieldSpec{name: "email", label: "Email", placeholder: "Enter your email"},
			fieldSpec{name: "password", label: "Password", placeholder: "Enter your password", secret: true},
		),
	}
}

func (m loginScreen) Init() tea.Cmd { return nil }

func (m loginScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil // submit control disabled while the call runs
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
			if !m.f.validate(form.Login()) {
				return m, nil
			}
			m.submitting = true
			m.apiErr = ""
			v := m.f.values()
			return m, func() tea.Msg {
				resp, err := auth.Login(context.Background(), m.client, v["email"], v["password"])
				return loginDoneMsg{resp: resp, err: err}
			}
		case "ctrl+s":
			return m, navigate(route.Route{Name: route.Signup})
		case "ctrl+r":
			return m, navigate(route.Route{Name: route.ForgotPassword})
		}
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.apiErr = msg.err.Error()
			m.f.clearSecrets()
			return m, nil
		}
		if err := m.sess.SetAuth(msg.resp.Token, msg.resp.User); err != nil {
			m.apiErr = err.Error()
			return m, nil
		}
		return m, navigate(route.Route{Name: route.Todos})
	}
	return m, m.f.update(msg)
}

func (m loginScreen) View() string {
	var b strings.Builder
	b.WriteString(ui.Title.Render("Login"))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(ui.Success.Render(m.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(m.f.view())
	if m.apiErr != "" {
		b.WriteString(ui.Error.Render(m.apiErr))
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString(ui.Muted.Render("Logging in..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.Help.Render("enter submit • ctrl+s sign up • ctrl+r forgot password • ctrl+c quit"))
	return ui.Panel(b.String())
}
