package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"packbrowser/internal/adapters/tui/styles"
	"packbrowser/internal/application"
	"packbrowser/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// BreadcrumbBudget measures the trail and returns how many segments fit in
// width, as the maxVisible argument of Session.Breadcrumbs.
func BreadcrumbBudget(items []domain.BreadcrumbItem, width int) int {
	if len(items) == 0 {
		return 0
	}
	sepWidth := lipgloss.Width(styles.CrumbSeparator.String())
	widths := make([]int, len(items))
	for i, item := range items {
		widths[i] = lipgloss.Width(item.Name) + sepWidth
	}
	widths[len(widths)-1] -= sepWidth
	markerWidth := lipgloss.Width(domain.OverflowMarker) + sepWidth

	return domain.FitBreadcrumbs(widths, markerWidth, width)
}

// RenderBreadcrumbs renders compacted breadcrumb segments on one line
func RenderBreadcrumbs(visible []domain.BreadcrumbItem) string {
	parts := make([]string, 0, len(visible))
	for i, item := range visible {
		if item.IsOverflow {
			parts = append(parts, styles.CrumbOverflow.Render(item.Name))
			continue
		}
		parts = append(parts, renderCrumb(item, i == len(visible)-1))
	}
	return strings.Join(parts, styles.CrumbSeparator.String())
}

func renderCrumb(item domain.BreadcrumbItem, current bool) string {
	if current {
		return styles.CrumbCurrent.Render(item.Name)
	}
	return styles.Crumb.Render(item.Name)
}

// RenderTargetInfo renders the kind, name and location of a node
func RenderTargetInfo(node *application.TreeNode, action string) string {
	if node == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(action + " " + strings.ToLower(node.Kind.String()) + ":"))
	b.WriteString("\n  ")
	b.WriteString(styles.NodeStyle(node.IsDir()).Render(node.Name))
	b.WriteString("\n  ")
	b.WriteString(styles.MutedText.Render(node.Path))
	return b.String()
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(styles.MutedText.Render(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
