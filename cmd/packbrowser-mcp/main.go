package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"packbrowser/internal/adapters/filesystem"
	"packbrowser/internal/adapters/manifest"
	mcpadapter "packbrowser/internal/adapters/mcp"
	"packbrowser/internal/adapters/notify"
	"packbrowser/internal/adapters/sqlite"
	"packbrowser/internal/application"
	"packbrowser/internal/config"
	"packbrowser/internal/logging"
)

func main() {
	rootFlag := flag.String("root", config.Root(), "directory to browse")
	catalogFlag := flag.String("catalog", config.CatalogPath(), "export catalog database (default: per-root location)")
	flag.Parse()

	// stdout carries the protocol
	if err := logging.Init(logging.Config{Level: config.LogLevel(), Format: "json", OutputPath: "stderr"}); err != nil {
		log.Fatalf("packbrowser-mcp: %v", err)
	}
	defer logging.Sync()

	root, err := filepath.Abs(filesystem.ExpandHome(*rootFlag))
	if err != nil {
		log.Fatalf("packbrowser-mcp: invalid root: %v", err)
	}

	sessionID := logging.NewSessionID()
	logger := logging.ForSession(sessionID)

	session := application.NewSession(
		filesystem.NewGateway(config.ShowHidden()),
		notify.NewLogSink(logger),
		application.WithLogger(logger),
		application.WithSessionID(sessionID),
	)
	if err := session.Load(context.Background(), root); err != nil {
		logger.Fatal("failed to load root", logging.Path(root), logging.Err(err))
	}

	wcfg := mcpadapter.WorkspaceConfig{
		Manifests:   manifest.NewReader(),
		PageSize:    config.PageSize(),
		Breadcrumbs: config.MaxBreadcrumbs(),
		Logger:      logger,
	}
	catalogPath := *catalogFlag
	if catalogPath == "" {
		catalogPath = sqlite.DatabasePath(root)
	}
	catalog := sqlite.NewCatalog()
	if err := catalog.Open(catalogPath); err != nil {
		logger.Warn("export catalog unavailable", logging.Path(catalogPath), logging.Err(err))
	} else {
		defer catalog.Close()
		wcfg.Catalog = catalog
	}

	mcpServer := server.NewMCPServer(
		"packbrowser-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.NewWorkspace(session, wcfg).Register(mcpServer)

	logger.Info("serving", logging.Path(root))
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal("packbrowser-mcp stopped", logging.Err(err))
	}
}
