package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
}

// FormEvent is what a key press did to the form
type FormEvent int

const (
	FormEditing FormEvent = iota
	FormSubmitted
	FormCancelled
)

// InputField is a labelled text input with an optional live check
type InputField struct {
	Label    string
	Input    textinput.Model
	Validate func(string) error
}

// InputForm manages text input fields with focus handling. Submitting is
// refused while any field fails its check.
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
	Err          error
}

// NewInputForm creates a new input form with the given fields
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields: fields,
		Keys:   DefaultInputFormKeys,
	}
	form.SetFocus(0)
	return form
}

// NewInputField creates an input field. validate may be nil.
func NewInputField(label, placeholder string, charLimit int, validate func(string) error) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label:    label,
		Input:    input,
		Validate: validate,
	}
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update feeds msg to the form and reports whether it was submitted or
// cancelled.
func (f *InputForm) Update(msg tea.Msg) (FormEvent, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Cancel):
			return FormCancelled, nil
		case key.Matches(msg, f.Keys.Submit):
			if f.Err = f.Check(); f.Err != nil {
				return FormEditing, nil
			}
			return FormSubmitted, nil
		case key.Matches(msg, f.Keys.Tab) && len(f.Fields) > 1:
			f.SetFocus((f.FocusedField + 1) % len(f.Fields))
			return FormEditing, nil
		}
	}

	if len(f.Fields) == 0 {
		return FormEditing, nil
	}
	var cmd tea.Cmd
	field := &f.Fields[f.FocusedField]
	field.Input, cmd = field.Input.Update(msg)
	if field.Validate != nil {
		f.Err = field.Validate(f.Value(f.FocusedField))
	}
	return FormEditing, cmd
}

// Check runs every field check and returns the first failure
func (f *InputForm) Check() error {
	for i, field := range f.Fields {
		if field.Validate == nil {
			continue
		}
		if err := field.Validate(f.Value(i)); err != nil {
			return err
		}
	}
	return nil
}

// SetFocus sets focus to a specific field
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	for i := range f.Fields {
		f.Fields[i].Input.Blur()
	}
	f.FocusedField = index
	f.Fields[index].Input.Focus()
}

// Value returns the trimmed value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// Reset fills the fields with values, in order, and focuses the first one
func (f *InputForm) Reset(values ...string) {
	for i := range f.Fields {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		f.Fields[i].Input.SetValue(value)
		f.Fields[i].Input.CursorEnd()
	}
	f.Err = nil
	f.SetFocus(0)
}

// View renders every field, the current check failure and the key help
func (f *InputForm) View(submitText string) string {
	var b strings.Builder
	for i, field := range f.Fields {
		b.WriteString(styles.InputLabel.Render(field.Label))
		b.WriteString("\n")
		if i == f.FocusedField {
			b.WriteString(styles.InputFocused.Render(field.Input.View()))
		} else {
			b.WriteString(styles.InputField.Render(field.Input.View()))
		}
		b.WriteString("\n")
	}
	if f.Err != nil {
		b.WriteString(styles.ErrorMsg.Render(f.Err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var parts []string
	if len(f.Fields) > 1 {
		parts = append(parts, RenderKeyHelp(f.Keys.Tab))
	}
	parts = append(parts,
		styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText),
		RenderKeyHelp(f.Keys.Cancel),
	)
	b.WriteString(strings.Join(parts, "  "))
	return b.String()
}
