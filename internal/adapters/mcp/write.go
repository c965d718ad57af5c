package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"packbrowser/internal/application/commands"
)

// RegisterWriteTools adds all tools that change the file system or the
// export catalog to the MCP server.
func RegisterWriteTools(s *server.MCPServer, w *Workspace) {
	s.AddTool(renameTool(), w.handle("rename", w.rename))
	s.AddTool(moveTool(), w.handle("mv", w.move))
	s.AddTool(mkdirTool(), w.handle("mkdir", w.mkdir))
	s.AddTool(deleteTool(), w.handle("rm", w.delete))
	s.AddTool(importTool(), w.handle("import", w.importExports))
	s.AddTool(refreshTool(), w.handle("refresh", w.refresh))
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a file or directory in place. Renaming to the current name does nothing."),
		mcp.WithString("path",
			mcp.Description("Entry to rename, absolute or relative to the root"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name, without any directory part"),
			mcp.Required(),
		),
	)
}

func (w *Workspace) rename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := required(req, "path")
	if err != nil {
		return toolError(err)
	}

	result, err := commands.NewRenameCommand(w.session, path, req.GetString("name", "")).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- mv ---

func moveTool() mcp.Tool {
	return mcp.NewTool("mv",
		mcp.WithDescription("Move a file or directory into another directory. A directory cannot be moved into itself or below itself."),
		mcp.WithString("source",
			mcp.Description("Entry to move"),
			mcp.Required(),
		),
		mcp.WithString("destination",
			mcp.Description("Directory that receives the entry"),
			mcp.Required(),
		),
	)
}

func (w *Workspace) move(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := required(req, "source")
	if err != nil {
		return toolError(err)
	}
	destination, err := required(req, "destination")
	if err != nil {
		return toolError(err)
	}

	result, err := commands.NewMoveCommand(w.session, source, destination).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- mkdir ---

func mkdirTool() mcp.Tool {
	return mcp.NewTool("mkdir",
		mcp.WithDescription("Create a directory inside an existing directory."),
		mcp.WithString("parent",
			mcp.Description("Directory that receives the new one. Omit for the root."),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new directory"),
			mcp.Required(),
		),
	)
}

func (w *Workspace) mkdir(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent := req.GetString("parent", "")
	if parent == "" {
		parent = "."
	}
	cmd := commands.NewCreateFolderCommand(w.session, parent, req.GetString("name", ""))
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- rm ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("rm",
		mcp.WithDescription("Delete a file, or a directory with everything inside it. This cannot be undone."),
		mcp.WithString("path",
			mcp.Description("Entry to delete"),
			mcp.Required(),
		),
	)
}

func (w *Workspace) delete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := required(req, "path")
	if err != nil {
		return toolError(err)
	}

	result, err := commands.NewDeleteCommand(w.session, path).Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- import ---

func importTool() mcp.Tool {
	return mcp.NewTool("import",
		mcp.WithDescription("Import export manifests (<container>.exports.json) into the export catalog."),
		mcp.WithString("container",
			mcp.Description("Container to import. Omit to import every container below the root that has a manifest."),
		),
	)
}

func (w *Workspace) importExports(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if w.catalog == nil || w.manifests == nil {
		return toolError(fmt.Errorf("no export catalog configured"))
	}

	cmd := commands.NewImportExportsCommand(w.session, w.catalog, w.manifests, req.GetString("container", ""))
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- refresh ---

func refreshTool() mcp.Tool {
	return mcp.NewTool("refresh",
		mcp.WithDescription("Reload the tree from disk to pick up changes made outside this server."),
	)
}

func (w *Workspace) refresh(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := w.session.Refresh(ctx); err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reloaded %d entries", w.session.Tree().Count())), nil
}
