package ports

import "os/exec"

// EditorOpener opens a file of the mirrored tree in an external editor
type EditorOpener interface {
	// OpenFile opens path in the user's preferred editor and waits for it
	OpenFile(path string) error

	// Command returns the editor process for path without starting it, so the
	// TUI can hand the terminal over with tea.ExecProcess
	Command(path string) (*exec.Cmd, error)
}
