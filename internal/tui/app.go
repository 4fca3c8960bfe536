// Package tui is the interactive client: one bubbletea program owning a
// current route and one screen model per route. Navigation goes through
// the guard, so a screen can never be mounted for a session that is not
// allowed to see it.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-remote/internal/api"
	"github.com/idilsaglam/todo-remote/internal/route"
	"github.com/idilsaglam/todo-remote/internal/session"
	"github.com/idilsaglam/todo-remote/internal/todo"
)

// navigateMsg moves the app to another route. notice is an optional line
// shown by the target screen (e.g. "account created" after signup).
type navigateMsg struct {
	to     route.Route
	notice string
}

func navigate(to route.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

func navigateNotice(to route.Route, notice string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, notice: notice} }
}

type App struct {
	sess   *session.Store
	client *api.Client
	ctrl   *todo.Controller

	route  route.Route
	screen tea.Model

	width, height int
}

// Run starts the program at startPath (guarded) in the alternate screen.
func Run(sess *session.Store, client *api.Client, ctrl *todo.Controller, startPath string) error {
	a := &App{sess: sess, client: client, ctrl: ctrl}
	a.route = route.Guard(route.Parse(startPath), sess.Get().Authenticated())
	a.screen = a.newScreen(a.route, "")

	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a *App) newScreen(r route.Route, notice string) tea.Model {
	switch r.Name {
	case route.Signup:
		return newSignupScreen(a.client)
	case route.ForgotPassword:
		return newForgotScreen(a.client)
	case route.ResetPassword:
		return newResetScreen(a.client, r.Param)
	case route.Todos:
		// Fresh view state on every mount.
		a.ctrl.Reset()
		return newTodosScreen(a.ctrl, a.sess)
	default:
		return newLoginScreen(a.client, a.sess, notice)
	}
}

func (a *App) Init() tea.Cmd {
	return a.screen.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case navigateMsg:
		a.route = route.Guard(msg.to, a.sess.Get().Authenticated())
		a.screen = a.newScreen(a.route, msg.notice)
		cmds := []tea.Cmd{a.screen.Init()}
		if a.width > 0 {
			var cmd tea.Cmd
			a.screen, cmd = a.screen.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.screen.View()
}
