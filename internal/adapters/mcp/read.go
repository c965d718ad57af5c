package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"packbrowser/internal/application"
	"packbrowser/internal/application/commands"
	"packbrowser/internal/domain"
)

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, w *Workspace) {
	s.AddTool(listTool(), w.handle("ls", w.list))
	s.AddTool(treeTool(), w.handle("tree", w.tree))
	s.AddTool(searchTool(), w.handle("search", w.search))
	s.AddTool(crumbsTool(), w.handle("crumbs", w.crumbs))
	s.AddTool(exportsTool(), w.handle("exports", w.exports))
}

// --- ls ---

func listTool() mcp.Tool {
	return mcp.NewTool("ls",
		mcp.WithDescription("List the entries of a directory below the browsing root. Directories end with a slash."),
		mcp.WithString("path",
			mcp.Description("Directory to list, absolute or relative to the root. Omit for the root."),
		),
	)
}

func (w *Workspace) list(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := commands.NewListCommand(w.session, req.GetString("path", "")).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatLines(entries, func(e commands.ListEntry) string {
		return displayName(e)
	})
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display a directory and everything below it as an indented tree."),
		mcp.WithString("path",
			mcp.Description("Directory to start from. Omit for the root."),
		),
		mcp.WithNumber("depth",
			mcp.Description("Maximum depth to descend, 0 for unlimited"),
		),
	)
}

func (w *Workspace) tree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewTreeCommand(w.session, req.GetString("path", ""), req.GetInt("depth", 0))
	entries, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatLines(entries, func(e commands.ListEntry) string {
		return strings.Repeat("  ", e.Depth) + displayName(e)
	})
}

func displayName(e commands.ListEntry) string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search entry names below the root, case-insensitively. Prefix matches are listed before substring matches."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results, 0 for all"),
		),
	)
}

func (w *Workspace) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := required(req, "query")
	if err != nil {
		return toolError(err)
	}

	results, err := commands.NewSearchCommand(w.session, query, req.GetInt("limit", 0)).Execute(ctx)
	if errors.Is(err, application.ErrNoResults) {
		return mcp.NewToolResultText("No results found."), nil
	}
	if err != nil {
		return toolError(err)
	}
	return formatLines(results, func(r commands.SearchResult) string {
		return r.Path
	})
}

// --- crumbs ---

func crumbsTool() mcp.Tool {
	return mcp.NewTool("crumbs",
		mcp.WithDescription("Show the breadcrumb trail from the root to a path. Long trails keep the root and the last segments and elide the middle."),
		mcp.WithString("path",
			mcp.Description("Path to locate, absolute or relative to the root"),
			mcp.Required(),
		),
		mcp.WithNumber("max_visible",
			mcp.Description("Maximum number of segments to show"),
		),
	)
}

func (w *Workspace) crumbs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := required(req, "path")
	if err != nil {
		return toolError(err)
	}

	result, err := commands.NewBreadcrumbsCommand(w.session, path, req.GetInt("max_visible", w.crumbs)).Execute(ctx)
	if err != nil {
		return toolError(err)
	}

	names := make([]string, 0, len(result.Visible))
	for _, item := range result.Visible {
		names = append(names, item.Name)
	}
	text := strings.Join(names, " > ")
	if len(result.Overflow) > 0 {
		hidden := make([]string, 0, len(result.Overflow))
		for _, item := range result.Overflow {
			hidden = append(hidden, item.Name)
		}
		text += fmt.Sprintf("\nelided: %s", strings.Join(hidden, " > "))
	}
	return mcp.NewToolResultText(text), nil
}

// --- exports ---

func exportsTool() mcp.Tool {
	return mcp.NewTool("exports",
		mcp.WithDescription("Show the window of a package container's export table that holds an export. Large containers are paged; small ones are shown whole."),
		mcp.WithString("container",
			mcp.Description("Package container path"),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Zero-based export index to show"),
		),
		mcp.WithString("name",
			mcp.Description("Export name to show instead of an index"),
		),
	)
}

func (w *Workspace) exports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if w.catalog == nil {
		return toolError(fmt.Errorf("no export catalog configured"))
	}
	container, err := required(req, "container")
	if err != nil {
		return toolError(err)
	}
	node, err := w.resolve(container)
	if err != nil {
		return toolError(err)
	}

	cmd := commands.NewExportsCommand(w.catalog, node.Path, req.GetInt("index", 0), w.pageSize)
	cmd.ExportName = req.GetString("name", "")
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", result.Container, result.Label)
	for _, e := range result.Exports {
		fmt.Fprintf(&sb, "%d  %s  %s", e.Index, e.Name, e.Class)
		if e.Outer >= 0 {
			fmt.Fprintf(&sb, "  outer=%d", e.Outer)
		}
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// resolve finds path in the session tree, relative paths taken from the root
func (w *Workspace) resolve(path string) (*domain.TreeNode, error) {
	root := w.session.Tree()
	if root == nil {
		return nil, application.ErrNotAvailable
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root.Path, path)
	}
	node := w.session.Find(filepath.Clean(path))
	if node == nil {
		return nil, fmt.Errorf("%w: %s", application.ErrNotFound, path)
	}
	return node, nil
}
