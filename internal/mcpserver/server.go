// Package mcpserver exposes the scaffold operations as MCP tools over stdio.
// Every failure becomes an error-flagged tool result; the process stays alive
// regardless of any single request's outcome.
package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/semaphore"

	"github.com/forgeui/forgeui/internal/catalog"
	"github.com/forgeui/forgeui/internal/logger"
	"github.com/forgeui/forgeui/internal/mutator"
	"github.com/forgeui/forgeui/internal/scaffold"
	forgeuierrors "github.com/forgeui/forgeui/pkg/errors"
)

// DefaultConcurrencyLimit bounds in-flight mutating operations. Excess
// requests are rejected outright, never queued.
const DefaultConcurrencyLimit = 5

// Operations is the scaffold surface the server exposes.
type Operations interface {
	ListItems(ctx context.Context) ([]catalog.ItemSummary, error)
	GetItem(ctx context.Context, ref string) (*catalog.Item, error)
	InitInstructions(style string) string
	Init(ctx context.Context, req scaffold.InitRequest) (*scaffold.InitResult, error)
	Add(ctx context.Context, req scaffold.AddRequest) (*mutator.Result, error)
}

// Options configures a Server.
type Options struct {
	Name    string
	Version string

	// ConcurrencyLimit caps in-flight mutating operations; zero means
	// DefaultConcurrencyLimit.
	ConcurrencyLimit int64

	Log *logger.Logger
}

// Server wires the tool surface onto an MCP stdio server.
type Server struct {
	ops   Operations
	mcp   *server.MCPServer
	sem   *semaphore.Weighted
	limit int64
	log   *logger.Logger
}

// New creates a Server and registers every tool.
func New(ops Operations, opts Options) *Server {
	limit := opts.ConcurrencyLimit
	if limit <= 0 {
		limit = DefaultConcurrencyLimit
	}

	s := &Server{
		ops:   ops,
		sem:   semaphore.NewWeighted(limit),
		limit: limit,
		log:   opts.Log.WithComponent("mcpserver"),
	}

	s.mcp = server.NewMCPServer(opts.Name, opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// Serve blocks on the stdio transport until the stream closes.
func (s *Server) Serve() error {
	s.log.Info("serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("list_items",
		mcp.WithDescription("List every component, block, and hook available in the catalog."),
	), s.handleListItems)

	s.mcp.AddTool(mcp.NewTool("get_item",
		mcp.WithDescription("Fetch one catalog item by name, URL, or local manifest path, including its files and dependencies."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item reference: a catalog name, an absolute URL, or a local .json/.yaml manifest path.")),
	), s.handleGetItem)

	s.mcp.AddTool(mcp.NewTool("get_init_instructions",
		mcp.WithDescription("Return the prerequisites and steps for initializing a project for catalog components."),
		mcp.WithString("style", mcp.Description("Style name the project will use.")),
	), s.handleInitInstructions)

	s.mcp.AddTool(mcp.NewTool("execute_init",
		mcp.WithDescription("Initialize the project: write the components.json descriptor and apply the configured style's base files."),
		mcp.WithString("style", mcp.Description("Style name to configure.")),
		mcp.WithString("baseColor", mcp.Description("Base color theme, e.g. slate or zinc.")),
		mcp.WithString("projectDir", mcp.Description("Project directory; resolved against the workspace boundary.")),
		mcp.WithBoolean("cssVariables", mcp.Description("Use CSS-variable driven theming. Defaults to true.")),
		mcp.WithBoolean("srcDir", mcp.Description("Prefer src/-rooted paths when the project has no stylesheet yet.")),
		mcp.WithBoolean("force", mcp.Description("Replace an existing components.json.")),
	), s.mutating(s.handleExecuteInit))

	s.mcp.AddTool(mcp.NewTool("add_item",
		mcp.WithDescription("Resolve one catalog item with its dependencies and apply it to the project."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item reference to add.")),
		mcp.WithString("projectDir", mcp.Description("Project directory; resolved against the workspace boundary.")),
		mcp.WithBoolean("overwrite", mcp.Description("Overwrite files that already exist.")),
	), s.mutating(s.handleAddItem))

	s.mcp.AddTool(mcp.NewTool("execute_add",
		mcp.WithDescription("Resolve several catalog items with their dependencies and apply them to the project."),
		mcp.WithArray("components", mcp.Required(), mcp.Description("Item references to add."), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("projectDir", mcp.Description("Project directory; resolved against the workspace boundary.")),
		mcp.WithBoolean("overwrite", mcp.Description("Overwrite files that already exist.")),
	), s.mutating(s.handleExecuteAdd))
}

// mutating enforces the concurrency ceiling around file-mutating handlers.
func (s *Server) mutating(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.sem.TryAcquire(1) {
			return s.errorResult(forgeuierrors.NewTooManyConcurrentOperations(s.limit)), nil
		}
		defer s.sem.Release(1)
		return handler(ctx, req)
	}
}

func (s *Server) handleListItems(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.ops.ListItems(ctx)
	if err != nil {
		return s.errorResult(err), nil
	}
	return s.jsonResult(items)
}

func (s *Server) handleGetItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return s.errorResult(err), nil
	}

	item, err := s.ops.GetItem(ctx, name)
	if err != nil {
		return s.errorResult(err), nil
	}
	return s.jsonResult(item)
}

func (s *Server) handleInitInstructions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.ops.InitInstructions(req.GetString("style", ""))), nil
}

// handleExecuteInit returns the apply result together with the written
// descriptor as an embedded resource.
func (s *Server) handleExecuteInit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.ops.Init(ctx, scaffold.InitRequest{
		ProjectDir:     req.GetString("projectDir", ""),
		Style:          req.GetString("style", ""),
		BaseColor:      req.GetString("baseColor", ""),
		NoCSSVariables: !req.GetBool("cssVariables", true),
		SrcDir:         req.GetBool("srcDir", false),
		Force:          req.GetBool("force", false),
	})
	if err != nil {
		return s.errorResult(err), nil
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return s.errorResult(err), nil
	}

	config, err := os.ReadFile(res.ConfigPath)
	if err != nil {
		s.log.WithFields(map[string]any{"path": res.ConfigPath}).Error(err, "descriptor unreadable after init")
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultResource(string(data), mcp.TextResourceContents{
		URI:      "file://" + filepath.ToSlash(res.ConfigPath),
		MIMEType: "application/json",
		Text:     string(config),
	}), nil
}

func (s *Server) handleAddItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return s.errorResult(err), nil
	}
	return s.add(ctx, req, []string{name})
}

func (s *Server) handleExecuteAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.add(ctx, req, req.GetStringSlice("components", nil))
}

func (s *Server) add(ctx context.Context, req mcp.CallToolRequest, components []string) (*mcp.CallToolResult, error) {
	res, err := s.ops.Add(ctx, scaffold.AddRequest{
		Components: components,
		ProjectDir: req.GetString("projectDir", ""),
		Overwrite:  req.GetBool("overwrite", false),
	})
	if err != nil {
		return s.errorResult(err), nil
	}
	return s.jsonResult(res)
}

func (s *Server) jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.errorResult(err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts a failure into an error-flagged tool result. For
// schema violations the field breakdown is already part of the message.
func (s *Server) errorResult(err error) *mcp.CallToolResult {
	s.log.Error(err, "tool request failed")
	return mcp.NewToolResultError(err.Error())
}
