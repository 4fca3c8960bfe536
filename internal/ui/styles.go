package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	Title   = lipgloss.NewStyle().Bold(true)
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	Accent  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	Muted   = lipgloss.NewStyle().Faint(true)
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	Selected = lipgloss.NewStyle().Bold(true).Reverse(true)
	Done     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	Help     = lipgloss.NewStyle().Faint(true)

	BoxChecked   = "☑"
	BoxUnchecked = "☐"
)

// Panel frames content in the app's standard rounded border.
func Panel(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

func OK(msg string) {
	fmt.Println(Success.Render("✔ " + msg))
}

func Fail(msg string) {
	fmt.Fprintln(os.Stderr, Error.Render("✖ "+msg))
}
