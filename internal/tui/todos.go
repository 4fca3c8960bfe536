package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-remote/internal/model"
	"github.com/idilsaglam/todo-remote/internal/route"
	"github.com/idilsaglam/todo-remote/internal/session"
	"github.com/idilsaglam/todo-remote/internal/todo"
	"github.com/idilsaglam/todo-remote/internal/ui"
)

// listItem adapts a server todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders one row and knows which ids are pending so their
// affordances read as disabled.
type itemDelegate struct {
	togglingID string
	deletingID string
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := ui.Muted.Render(ui.BoxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = ui.Success.Render(ui.BoxChecked)
		text = ui.Done.Render(text)
	}

	line := fmt.Sprintf("%s %s", box, text)
	if d.togglingID != "" && it.todo.ID == d.togglingID {
		line += ui.Muted.Render(" updating...")
	} else if d.deletingID != "" && it.todo.ID == d.deletingID {
		line += ui.Muted.Render(" deleting...")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = ui.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type todosScreen struct {
	ctrl *todo.Controller
	sess *session.Store

	list list.Model
	ti   textinput.Model
	spin spinner.Model

	adding   bool
	addErr   string
	fetching bool

	width, height int
}

// Settle messages: one per action class. Every mutation settle triggers a
// re-fetch of the authoritative list, success or not.
type (
	listFetchedMsg   struct{ err error }
	createSettledMsg struct{ err error }
	toggleSettledMsg struct{ err error }
	deleteSettledMsg struct{ err error }
)

func newTodosScreen(ctrl *todo.Controller, sess *session.Store) todosScreen {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = ui.Title.Render("Your Todos")
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Title
	l.Styles.PaginationStyle = ui.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add a new todo..."
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Accent

	// the first fetch starts in Init
	return todosScreen{ctrl: ctrl, sess: sess, list: l, ti: ti, spin: sp, fetching: true}
}

func (m todosScreen) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.spin.Tick)
}

func (m todosScreen) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.Refresh(context.Background())
		return listFetchedMsg{err: err}
	}
}

// sync rebuilds the visible list from the controller snapshot.
func (m *todosScreen) sync() {
	st := m.ctrl.Snapshot()
	items := make([]list.Item, 0, len(st.Items))
	for _, t := range st.Items {
		items = append(items, listItem{todo: t})
	}
	m.list.SetItems(items)
	m.list.SetDelegate(itemDelegate{
		togglingID: st.PendingToggleID,
		deletingID: st.PendingDeleteID,
	})

	done := 0
	for _, t := range st.Items {
		if t.Completed {
			done++
		}
	}
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d",
		ui.Title.Render("Your Todos"),
		ui.Success.Render("✔"), done,
		ui.Pending.Render("•"), len(st.Items)-done,
	)
}

func (m todosScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.ctrl.Snapshot()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case listFetchedMsg:
		m.fetching = false
		m.sync()
		return m, nil

	case createSettledMsg:
		if msg.err == nil {
			// only a successful create clears the input
			m.ti.SetValue("")
			m.ti.Blur()
			m.adding = false
			m.addErr = ""
			m.resize()
		} else {
			m.addErr = msg.err.Error()
		}
		m.fetching = true
		return m, tea.Batch(m.fetchCmd(), m.spin.Tick)

	case toggleSettledMsg, deleteSettledMsg:
		m.sync()
		m.fetching = true
		return m, tea.Batch(m.fetchCmd(), m.spin.Tick)

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg, st)
		}
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit

			case "a":
				if st.Creating {
					return m, nil
				}
				m.adding = true
				m.addErr = ""
				m.ti.SetValue("")
				m.ti.Focus()
				m.resize()
				return m, nil

			case " ":
				// one toggle at a time; the checkbox is disabled while
				// one is pending
				if st.PendingToggleID != "" {
					return m, nil
				}
				if it, ok := m.list.SelectedItem().(listItem); ok {
					t := it.todo
					cmd := func() tea.Msg {
						return toggleSettledMsg{err: m.ctrl.Toggle(context.Background(), t)}
					}
					return m, tea.Batch(cmd, func() tea.Msg { return syncMsg{} })
				}
				return m, nil

			case "d":
				// a pending delete disables every delete control
				if st.PendingDeleteID != "" {
					return m, nil
				}
				if it, ok := m.list.SelectedItem().(listItem); ok {
					id := it.todo.ID
					cmd := func() tea.Msg {
						return deleteSettledMsg{err: m.ctrl.Delete(context.Background(), id)}
					}
					return m, tea.Batch(cmd, func() tea.Msg { return syncMsg{} })
				}
				return m, nil

			case "r":
				m.fetching = true
				return m, tea.Batch(m.fetchCmd(), m.spin.Tick)

			case "ctrl+l":
				if err := m.sess.Logout(); err != nil {
					return m, nil
				}
				m.ctrl.Reset()
				return m, navigate(route.Route{Name: route.Login})
			}
		}

	case syncMsg:
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// syncMsg asks the screen to re-read the controller snapshot, used right
// after an action starts so the pending markers show up immediately.
type syncMsg struct{}

func (m todosScreen) updateAdding(msg tea.KeyMsg, st todo.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if st.Creating {
			return m, nil // submit disabled while one create is in flight
		}
		title := strings.TrimSpace(m.ti.Value())
		if title == "" {
			// fail fast, nothing is sent
			m.addErr = "Title cannot be empty"
			return m, nil
		}
		m.addErr = ""
		cmd := func() tea.Msg {
			_, err := m.ctrl.Create(context.Background(), title)
			return createSettledMsg{err: err}
		}
		return m, cmd
	case "esc":
		m.adding = false
		m.addErr = ""
		m.ti.SetValue("")
		m.ti.Blur()
		m.resize()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *todosScreen) resize() {
	if m.width == 0 {
		return
	}
	h := m.height - 6
	if m.adding {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m todosScreen) View() string {
	st := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")

	if st.Loading {
		b.WriteString(m.spin.View())
		b.WriteString(ui.Muted.Render("loading..."))
		b.WriteString("\n")
	}
	if st.Err != "" {
		// shown alongside whatever items we already have
		b.WriteString(ui.Error.Render(st.Err))
		b.WriteString("\n")
	}

	if m.adding {
		title := "Add new item"
		if st.Creating {
			title += " — " + ui.Muted.Render("adding...")
		}
		if m.addErr != "" {
			title += " — " + ui.Error.Render(m.addErr)
		}
		b.WriteString(ui.Panel(title + "\n" + m.ti.View()))
		b.WriteString("\n")
	}

	help := "a add • space toggle • d delete • r refresh • ctrl+l logout • q quit"
	if st.PendingDeleteID != "" {
		help = "delete in progress — delete disabled • " + help
	}
	b.WriteString(ui.Help.Render(help))
	return ui.Panel(b.String())
}
