package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shellweave/shellweave/internal/expressions"
	"github.com/shellweave/shellweave/internal/validation"
)

// WeaveServerDeps holds the dependencies for creating a WeaveServer.
type WeaveServerDeps struct {
	Validator *validation.Validator
	Resolver  *expressions.Resolver
	Logger    *slog.Logger
}

// WeaveServer wraps an MCP server with shellweave tool handlers. The
// generator itself is not shared: it carries per-pass state, so every
// tool call constructs its own instance.
type WeaveServer struct {
	validator *validation.Validator
	resolver  *expressions.Resolver
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewWeaveServer creates a WeaveServer with all 3 tools registered.
func NewWeaveServer(deps WeaveServerDeps) *WeaveServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &WeaveServer{
		validator: deps.Validator,
		resolver:  deps.Resolver,
		logger:    logger,
	}

	mcpSrv := server.NewMCPServer(
		"shellweave",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Shellweave turns block-graph snapshots into PowerShell scripts. Use weave.generate to emit a script from a snapshot, weave.validate to check a snapshot before generating, and weave.diagram to render a Mermaid preview of the graph."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *WeaveServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *WeaveServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// tools returns the 3 registered MCP tools as ServerTool entries.
func (s *WeaveServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: generateTool(), Handler: s.handleGenerate},
		{Tool: validateTool(), Handler: s.handleValidate},
		{Tool: diagramTool(), Handler: s.handleDiagram},
	}
}

// --- Tool definitions ---

func generateTool() mcp.Tool {
	return mcp.NewTool("weave.generate",
		mcp.WithDescription("Generate a PowerShell script from a block-graph snapshot"),
		mcp.WithObject("snapshot", mcp.Required(), mcp.Description("Snapshot document: blocks, connections, inputs, metadata")),
		mcp.WithBoolean("validate", mcp.Description("Run validation first and fail on errors (default: true)")),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("weave.validate",
		mcp.WithDescription("Validate a block-graph snapshot without generating"),
		mcp.WithObject("snapshot", mcp.Required(), mcp.Description("Snapshot document to validate")),
	)
}

func diagramTool() mcp.Tool {
	return mcp.NewTool("weave.diagram",
		mcp.WithDescription("Render a Mermaid flowchart preview of a block-graph snapshot"),
		mcp.WithObject("snapshot", mcp.Required(), mcp.Description("Snapshot document to render")),
	)
}
