package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"packbrowser/internal/adapters/editor"
	"packbrowser/internal/adapters/filesystem"
	"packbrowser/internal/adapters/manifest"
	"packbrowser/internal/adapters/sqlite"
	"packbrowser/internal/adapters/tui"
	"packbrowser/internal/application"
	"packbrowser/internal/config"
	"packbrowser/internal/logging"
)

func main() {
	rootFlag := flag.String("root", config.Root(), "directory to browse")
	catalogFlag := flag.String("catalog", config.CatalogPath(), "export catalog database (default: per-root location)")
	noCatalog := flag.Bool("no-catalog", false, "run without an export catalog")
	flag.Parse()

	if err := run(*rootFlag, *catalogFlag, *noCatalog); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rootArg, catalogPath string, noCatalog bool) error {
	// The alternate screen owns the terminal, so logs go to a file
	if err := logging.Init(logging.Config{
		Level:      config.LogLevel(),
		Format:     "json",
		OutputPath: config.LogFile(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	root, err := filepath.Abs(filesystem.ExpandHome(rootArg))
	if err != nil {
		return fmt.Errorf("invalid root %q: %w", rootArg, err)
	}

	sessionID := logging.NewSessionID()
	log := logging.ForSession(sessionID)
	log.Info("starting", logging.Path(root))

	cfg := tui.Config{
		Root:      root,
		PageSize:  config.PageSize(),
		Threshold: dragThreshold(),
		Manifests: manifest.NewReader(),
		Editor:    editor.NewOpener(),
		Logger:    log,
		SessionID: sessionID,
	}

	if !noCatalog {
		if catalogPath == "" {
			catalogPath = sqlite.DatabasePath(root)
		}
		catalog := sqlite.NewCatalog()
		if err := catalog.Open(catalogPath); err != nil {
			// Browsing works without the catalog; only the export views need it
			log.Warn("export catalog unavailable", logging.Path(catalogPath), logging.Err(err))
		} else {
			defer catalog.Close()
			cfg.Catalog = catalog
		}
	}

	gw := filesystem.NewGateway(config.ShowHidden())
	if err := tui.Run(tui.NewApp(gw, cfg)); err != nil {
		log.Error("tui exited", zap.Error(err))
		return err
	}
	return nil
}

func dragThreshold() application.DragThreshold {
	x, y := config.DragThreshold()
	return application.DragThreshold{MinX: x, MinY: y}
}
