package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Folder    = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeDirectory = lipgloss.NewStyle().
			Foreground(Folder).
			Bold(true)

	NodeFile = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Node sitting on the clipboard in cut mode
	NodeCut = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)

	// Directory a drag would drop into
	DropTarget = lipgloss.NewStyle().
			Background(Secondary).
			Foreground(Black)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Breadcrumbs
	Crumb = lipgloss.NewStyle().
		Foreground(Secondary)

	CrumbCurrent = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true).
			Underline(true)

	CrumbOverflow = lipgloss.NewStyle().
			Foreground(Warning)

	CrumbSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" › ")

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Search
	SearchMatch = lipgloss.NewStyle().
			Background(Warning).
			Foreground(Black)

	// Export table
	ExportIndex = lipgloss.NewStyle().
			Foreground(Muted).
			Width(8).
			Align(lipgloss.Right)

	ExportClass = lipgloss.NewStyle().
			Foreground(Folder)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// NodeStyle returns the resting style of a node of the given kind
func NodeStyle(isDir bool) lipgloss.Style {
	if isDir {
		return NodeDirectory
	}
	return NodeFile
}
