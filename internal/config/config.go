package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultRoot        = "~"
	DefaultPageSize    = 1
	DefaultDragX       = 2
	DefaultDragY       = 1
	DefaultLogLevel    = "info"
	DefaultBreadcrumbs = 6
)

// Root returns the browsing root from PACKBROWSER_ROOT,
// falling back to DefaultRoot.
func Root() string {
	if env := os.Getenv("PACKBROWSER_ROOT"); env != "" {
		return env
	}
	return DefaultRoot
}

// PageSize returns the export page size from PACKBROWSER_PAGE_SIZE.
// Values that are not positive integers fall back to DefaultPageSize.
func PageSize() int {
	return positiveInt("PACKBROWSER_PAGE_SIZE", DefaultPageSize)
}

// DragThreshold returns the horizontal and vertical distance, in cells, a
// press must travel before it starts a drag.
func DragThreshold() (x, y int) {
	return nonNegativeInt("PACKBROWSER_DRAG_X", DefaultDragX), nonNegativeInt("PACKBROWSER_DRAG_Y", DefaultDragY)
}

// MaxBreadcrumbs returns how many breadcrumb segments the CLI shows
func MaxBreadcrumbs() int {
	return positiveInt("PACKBROWSER_BREADCRUMBS", DefaultBreadcrumbs)
}

// ShowHidden reports whether dot entries are listed
func ShowHidden() bool {
	v, err := strconv.ParseBool(os.Getenv("PACKBROWSER_SHOW_HIDDEN"))
	return err == nil && v
}

// LogLevel returns the log level from PACKBROWSER_LOG_LEVEL
func LogLevel() string {
	if env := strings.TrimSpace(os.Getenv("PACKBROWSER_LOG_LEVEL")); env != "" {
		return strings.ToLower(env)
	}
	return DefaultLogLevel
}

// LogFile returns where the TUI writes its log. The terminal belongs to the
// UI, so the default is a file under the XDG state directory.
func LogFile() string {
	if env := os.Getenv("PACKBROWSER_LOG_FILE"); env != "" {
		return env
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, _ := os.UserHomeDir()
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "packbrowser", "packbrowser.log")
}

// CatalogPath returns the export catalog database from PACKBROWSER_CATALOG.
// Empty means the per-root default location.
func CatalogPath() string {
	return os.Getenv("PACKBROWSER_CATALOG")
}

func positiveInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func nonNegativeInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
