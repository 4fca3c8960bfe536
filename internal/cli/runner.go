package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-remote/internal/api"
	"github.com/idilsaglam/todo-remote/internal/auth"
	"github.com/idilsaglam/todo-remote/internal/config"
	"github.com/idilsaglam/todo-remote/internal/form"
	"github.com/idilsaglam/todo-remote/internal/session"
	"github.com/idilsaglam/todo-remote/internal/todo"
	"github.com/idilsaglam/todo-remote/internal/tui"
	"github.com/idilsaglam/todo-remote/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	BaseURL string // overrides config and env
	Debug   bool   // write request logs to the dotdir
}

// app bundles the wired collaborators every subcommand works against.
type app struct {
	cfg    config.Config
	sess   *session.Store
	client *api.Client
	ctrl   *todo.Controller
}

func setup(opt Options) (*app, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if opt.BaseURL != "" {
		cfg.BaseURL = opt.BaseURL
	}

	sess, err := session.Open(dir)
	if err != nil {
		return nil, err
	}

	if opt.Debug {
		// routes the standard logger away from the terminal the TUI owns
		if _, err := tea.LogToFile(filepath.Join(dir, "todo.log"), "todo"); err == nil {
			cfg.LogRequests = true
		}
	}

	opts := []api.Option{api.WithRequestLogging(cfg.LogRequests)}
	if cfg.LogoutOn401 {
		opts = append(opts, api.WithUnauthorizedHook(func() {
			_ = sess.Logout()
		}))
	}
	client := api.NewClient(cfg.BaseURL, cfg.Timeout, sess, opts...)

	return &app{
		cfg:    cfg,
		sess:   sess,
		client: client,
		ctrl:   todo.NewController(client),
	}, nil
}

// Run routes a subcommand and returns the process exit code.
func Run(args []string, opt Options) int {
	a, err := setup(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}

	if len(args) == 0 {
		return a.doTUI("/todos")
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls", "todos":
		return a.doTUI("/todos")

	case "login":
		return a.doLogin()
	case "signup":
		return a.doSignup()
	case "forgot-password":
		return a.doForgotPassword()
	case "reset-password":
		if len(rest) != 1 {
			ui.Fail("usage: todo reset-password <token>")
			return 2
		}
		return a.doResetPassword(rest[0])
	case "logout":
		return a.doLogout()
	case "status":
		return a.doStatus()
	case "whoami":
		return a.doWhoAmI()

	case "add":
		if len(rest) == 0 {
			ui.Fail("usage: todo add <title...>")
			return 2
		}
		return a.doAdd(strings.Join(rest, " "))
	case "done":
		if len(rest) != 1 {
			ui.Fail("usage: todo done <index>")
			return 2
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			ui.Fail("done: not a number: " + rest[0])
			return 2
		}
		return a.doToggle(n)
	case "rm":
		if len(rest) != 1 {
			ui.Fail("usage: todo rm <index>")
			return 2
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			ui.Fail("rm: not a number: " + rest[0])
			return 2
		}
		return a.doRemove(n)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`todo - a remote-backed todo client

Usage:
  todo <subcommand> [args]

Subcommands:
  ls                       Open the interactive list (default)
  add <title...>           Add a new item
  done <index>             Toggle the item at 1-based index
  rm <index>               Remove the item at 1-based index

  login                    Log in with email and password
  signup                   Create an account
  logout                   Drop the stored session
  status                   Show token source and expiry
  whoami                   Show the logged-in identity
  forgot-password          Request reset instructions by email
  reset-password <token>   Set a new password with a reset token

Examples:
  todo add "Buy milk"
  todo done 2
  todo login
`)
}

// ---------------------------------------------------
// Interactive list
// ---------------------------------------------------

func (a *app) doTUI(startPath string) int {
	if err := tui.Run(a.sess, a.client, a.ctrl, startPath); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

// ---------------------------------------------------
// Auth flows (prompted, same schemas as the screens)
// ---------------------------------------------------

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label + ": ")
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// validateOrFail prints every schema error and reports whether the input
// may be submitted. Validation failures never reach the network.
func validateOrFail(schema form.Schema, values map[string]string) bool {
	errs := schema.Validate(values)
	for _, f := range schema {
		if msg, bad := errs[f.Name]; bad {
			ui.Fail(f.Name + ": " + msg)
		}
	}
	return errs == nil
}

func (a *app) doLogin() int {
	r := bufio.NewReader(os.Stdin)
	values := map[string]string{
		"email":    prompt(r, "Email"),
		"password": prompt(r, "Password"),
	}
	if !validateOrFail(form.Login(), values) {
		return 2
	}
	resp, err := auth.Login(context.Background(), a.client, values["email"], values["password"])
	if err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}
	if err := a.sess.SetAuth(resp.Token, resp.User); err != nil {
		ui.Fail("save session: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func (a *app) doSignup() int {
	r := bufio.NewReader(os.Stdin)
	values := map[string]string{
		"name":     prompt(r, "Name"),
		"email":    prompt(r, "Email"),
		"password": prompt(r, "Password"),
	}
	if !validateOrFail(form.Signup(), values) {
		return 2
	}
	if err := auth.Signup(context.Background(), a.client, values["name"], values["email"], values["password"]); err != nil {
		ui.Fail("signup: " + err.Error())
		return 1
	}
	ui.OK("account created, run `todo login`")
	return 0
}

func (a *app) doForgotPassword() int {
	r := bufio.NewReader(os.Stdin)
	values := map[string]string{"email": prompt(r, "Email")}
	if !validateOrFail(form.ForgotPassword(), values) {
		return 2
	}
	if err := auth.ForgotPassword(context.Background(), a.client, values["email"]); err != nil {
		ui.Fail("forgot-password: " + err.Error())
		return 1
	}
	// neutral on purpose: no account enumeration
	ui.OK("if an account with that email exists, reset instructions were sent")
	return 0
}

func (a *app) doResetPassword(token string) int {
	r := bufio.NewReader(os.Stdin)
	values := map[string]string{
		"password":        prompt(r, "New password"),
		"confirmPassword": prompt(r, "Confirm password"),
	}
	if !validateOrFail(form.ResetPassword(), values) {
		return 2
	}
	if err := auth.ResetPassword(context.Background(), a.client, token, values["password"]); err != nil {
		ui.Fail("reset-password: " + err.Error())
		return 1
	}
	ui.OK("password reset, run `todo login`")
	return 0
}

func (a *app) doLogout() int {
	if os.Getenv(session.EnvToken) != "" {
		ui.OK("token is provided by " + session.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := a.sess.Logout(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func (a *app) doStatus() int {
	s := a.sess.Get()
	if !s.Authenticated() {
		fmt.Println(ui.Muted.Render("not logged in"))
		fmt.Println("Run: todo login")
		return 0
	}
	if s.User != nil && s.User.Email != "" {
		fmt.Printf("user: %s\n", s.User.Email)
	}
	if exp := session.Expiry(s.Token); exp != nil {
		fmt.Printf("expires: %s\n", exp.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + session.EnvToken)
	return 0
}

func (a *app) doWhoAmI() int {
	s := a.sess.Get()
	if !s.Authenticated() {
		ui.Fail("not logged in. Run: todo login")
		return 2
	}
	if s.User != nil {
		fmt.Printf("id: %s\n", s.User.ID)
		if s.User.Email != "" {
			fmt.Printf("email: %s\n", s.User.Email)
		}
	}
	claims, err := session.Claims(s.Token)
	if err != nil {
		fmt.Println("Opaque token (cannot introspect locally).")
		return 0
	}
	fmt.Println("JWT claims:")
	for k, v := range claims {
		fmt.Printf("  %s: %v\n", k, v)
	}
	return 0
}

// ---------------------------------------------------
// Non-interactive CRUD against the remote list
// ---------------------------------------------------

func (a *app) doAdd(title string) int {
	if _, err := a.ctrl.Create(context.Background(), title); err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK("added")
	return 0
}

func (a *app) doToggle(userIndex int) int {
	items, err := a.ctrl.Refresh(context.Background())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		fmt.Fprintln(os.Stderr, ui.Muted.Render("Hint: run `todo ls` to see valid indexes"))
		return 2
	}
	if err := a.ctrl.Toggle(context.Background(), items[userIndex-1]); err != nil {
		ui.Fail("done: " + err.Error())
		return 1
	}
	ui.OK("toggled")
	return 0
}

func (a *app) doRemove(userIndex int) int {
	items, err := a.ctrl.Refresh(context.Background())
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if userIndex < 1 || userIndex > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), userIndex))
		fmt.Fprintln(os.Stderr, ui.Muted.Render("Hint: run `todo ls` to see valid indexes"))
		return 2
	}
	if err := a.ctrl.Delete(context.Background(), items[userIndex-1].ID); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}
