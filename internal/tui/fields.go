package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo-remote/internal/form"
	"github.com/idilsaglam/todo-remote/internal/ui"
)

// fieldSpec declares one input of a form screen.
type fieldSpec struct {
	name        string // schema field name
	label       string
	placeholder string
	secret      bool
}

// fields is the uniform form-flow state shared by the auth screens:
// labeled inputs, focus cycling, inline per-field errors from a schema,
// and a disabled-while-submitting flag owned by the screen.
type fields struct {
	specs  []fieldSpec
	inputs []textinput.Model
	focus  int
	errs   map[string]string
}

func newFields(specs ...fieldSpec) *fields {
	f := &fields{specs: specs}
	for i, s := range specs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = s.placeholder
		ti.CharLimit = 200
		if s.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func (f *fields) values() map[string]string {
	v := make(map[string]string, len(f.inputs))
	for i, s := range f.specs {
		v[s.name] = f.inputs[i].Value()
	}
	return v
}

// validate runs the schema and records inline errors. Returns true when
// the input may be submitted.
func (f *fields) validate(schema form.Schema) bool {
	f.errs = schema.Validate(f.values())
	return f.errs == nil
}

// clearSecrets blanks password inputs after a failed submit; other fields
// keep what the user typed.
func (f *fields) clearSecrets() {
	for i, s := range f.specs {
		if s.secret {
			f.inputs[i].SetValue("")
		}
	}
}

func (f *fields) next() { f.setFocus((f.focus + 1) % len(f.inputs)) }

func (f *fields) prev() { f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs)) }

func (f *fields) last() bool { return f.focus == len(f.inputs)-1 }

func (f *fields) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f *fields) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *fields) view() string {
	var b strings.Builder
	for i, s := range f.specs {
		b.WriteString(ui.Muted.Render(s.label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
		if msg, bad := f.errs[s.name]; bad {
			b.WriteString(ui.Error.Render(msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}
