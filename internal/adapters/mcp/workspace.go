// Package mcp exposes a browsing session as Model Context Protocol tools.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"packbrowser/internal/application"
	"packbrowser/internal/ports"
)

// Workspace is the state every tool works on. Tool calls may arrive
// concurrently, so each one holds the lock for its whole run.
type Workspace struct {
	mu        sync.Mutex
	session   *application.Session
	catalog   ports.ExportCatalog
	manifests ports.ManifestReader
	pageSize  int
	crumbs    int
	log       *zap.Logger
}

// WorkspaceConfig configures a Workspace. Catalog and Manifests may be nil,
// which disables the export tools.
type WorkspaceConfig struct {
	Catalog     ports.ExportCatalog
	Manifests   ports.ManifestReader
	PageSize    int
	Breadcrumbs int
	Logger      *zap.Logger
}

// NewWorkspace wraps a loaded session. With a catalog configured, renames
// and deletes made through the tools are mirrored into it.
func NewWorkspace(session *application.Session, cfg WorkspaceConfig) *Workspace {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Catalog != nil {
		application.SyncCatalog(context.Background(), session, cfg.Catalog)
	}
	return &Workspace{
		session:   session,
		catalog:   cfg.Catalog,
		manifests: cfg.Manifests,
		pageSize:  cfg.PageSize,
		crumbs:    cfg.Breadcrumbs,
		log:       log,
	}
}

// Register adds every read and write tool to s
func (w *Workspace) Register(s *server.MCPServer) {
	RegisterReadTools(s, w)
	RegisterWriteTools(s, w)
}

// handle wraps fn so that it runs under the workspace lock and logs its
// outcome.
func (w *Workspace) handle(tool string, fn func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		w.mu.Lock()
		defer w.mu.Unlock()

		result, err := fn(ctx, req)
		if result != nil && result.IsError {
			w.log.Info("tool failed", zap.String("tool", tool))
		} else {
			w.log.Debug("tool call", zap.String("tool", tool))
		}
		return result, err
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func required(req mcp.CallToolRequest, name string) (string, error) {
	value := strings.TrimSpace(req.GetString(name, ""))
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

func formatLines[T any](items []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(items) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(format(item))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
