package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"packbrowser/internal/application"
)

// ConfirmKeyMap defines key bindings for yes/no questions
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc", "q"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Answer is the outcome of a key press on a question
type Answer int

const (
	Undecided Answer = iota
	Yes
	No
)

// Confirmation is a yes/no question about one node
type Confirmation struct {
	Target *application.TreeNode
	Keys   ConfirmKeyMap
}

// NewConfirmation creates a question with the default keys
func NewConfirmation() *Confirmation {
	return &Confirmation{Keys: DefaultConfirmKeys}
}

// Ask points the question at node
func (c *Confirmation) Ask(node *application.TreeNode) {
	c.Target = node
}

// Answer maps msg to an answer. Keys outside the bindings leave the
// question open.
func (c *Confirmation) Answer(msg tea.KeyMsg) Answer {
	switch {
	case key.Matches(msg, c.Keys.Confirm):
		return Yes
	case key.Matches(msg, c.Keys.Cancel):
		return No
	}
	return Undecided
}

// Prompt renders question followed by the answer keys
func (c *Confirmation) Prompt(question string) string {
	return question + "  " + RenderHelpLine(c.Keys.Confirm, c.Keys.Cancel)
}
