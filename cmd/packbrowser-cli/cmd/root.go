package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"packbrowser/internal/adapters/filesystem"
	"packbrowser/internal/adapters/notify"
	"packbrowser/internal/adapters/sqlite"
	"packbrowser/internal/application"
	"packbrowser/internal/config"
	"packbrowser/internal/logging"
)

var (
	rootPath    string
	catalogPath string
	session     *application.Session
	catalog     *sqlite.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "packbrowser-cli",
	Short: "CLI for browsing asset package directories",
	Long: `packbrowser-cli is a command-line interface for a directory tree that
holds asset package containers.

It lists, searches, renames, moves and deletes entries below a browsing root,
and shows the export tables of package containers from the export catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := logging.Init(logging.Config{
			Level:      config.LogLevel(),
			Format:     "console",
			OutputPath: "stderr",
		}); err != nil {
			return err
		}

		root, err := filepath.Abs(filesystem.ExpandHome(rootPath))
		if err != nil {
			return fmt.Errorf("invalid root %q: %w", rootPath, err)
		}

		sessionID := logging.NewSessionID()
		logger := logging.ForSession(sessionID)
		session = application.NewSession(
			filesystem.NewGateway(config.ShowHidden()),
			notify.NewLogSink(logger),
			application.WithLogger(logger),
			application.WithSessionID(sessionID),
		)
		return session.Load(cmd.Context(), root)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logging.Sync()
		if catalog != nil {
			return catalog.Close()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", config.Root(), "directory to browse")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", config.CatalogPath(), "export catalog database (default: per-root location)")
}

// GetSession returns the loaded browsing session
func GetSession() *application.Session {
	return session
}

// GetCatalog opens the export catalog on first use. Renames and deletes made
// afterwards are mirrored into it.
func GetCatalog() (*sqlite.Catalog, error) {
	if catalog != nil {
		return catalog, nil
	}
	path := catalogPath
	if path == "" {
		path = sqlite.DatabasePath(session.Tree().Path)
	}

	c := sqlite.NewCatalog()
	if err := c.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open export catalog: %w", err)
	}
	catalog = c
	application.SyncCatalog(context.Background(), session, catalog)
	return catalog, nil
}
