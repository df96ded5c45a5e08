package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowmap"
	"github.com/aretw0/flowmap/internal/logging"
	"github.com/aretw0/flowmap/internal/presentation/graph"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/aretw0/flowmap/pkg/layouts"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// LayoutsURI is the resource listing workflows with a saved layout.
const LayoutsURI = "flowmap://layouts"

// Manager is the subset of layouts.Manager exposed to agents.
type Manager interface {
	Diagram(ctx context.Context, workflowID, currentStateName string) (domain.Graph, error)
	Select(ctx context.Context, workflowID string, kind domain.SelectionType, id string) (domain.SelectionDescriptor, error)
	ListLayouts(ctx context.Context) ([]string, error)
}

var _ Manager = (*layouts.Manager)(nil)

// Server wraps the layout manager and exposes it as an MCP Server.
type Server struct {
	manager   Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server. Logs must never go to Stdout under stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(manager Manager, opts ...Option) *Server {
	s := &Server{
		manager:   manager,
		mcpServer: server.NewMCPServer("flowmap-mcp", strings.TrimSpace(flowmap.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: build_diagram
	s.mcpServer.AddTool(mcp.NewTool("build_diagram",
		mcp.WithDescription("Build the positioned state diagram (nodes and edges) of a workflow."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow to draw")),
		mcp.WithString("current_state", mcp.Description("Name of the state to highlight as current (optional)")),
	), s.handleBuildDiagram)

	// TOOL: diagram_mermaid
	s.mcpServer.AddTool(mcp.NewTool("diagram_mermaid",
		mcp.WithDescription("Render the state diagram of a workflow as a Mermaid flowchart."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow to draw")),
		mcp.WithString("current_state", mcp.Description("Name of the state to highlight as current (optional)")),
	), s.handleMermaid)

	// TOOL: select_element
	s.mcpServer.AddTool(mcp.NewTool("select_element",
		mcp.WithDescription("Describe a node (state) or edge (transition) of a workflow diagram."),
		mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow owning the element")),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(string(domain.SelectionNode), string(domain.SelectionEdge)),
			mcp.Description("Element kind: node or edge")),
		mcp.WithString("id", mcp.Required(), mcp.Description("State id or transition id")),
	), s.handleSelect)
}

func (s *Server) handleBuildDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := request.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g, err := s.manager.Diagram(ctx, workflowID, request.GetString("current_state", ""))
	if err != nil {
		return s.toolError("build_diagram", err), nil
	}

	jsonBytes, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode diagram: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleMermaid(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := request.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g, err := s.manager.Diagram(ctx, workflowID, request.GetString("current_state", ""))
	if err != nil {
		return s.toolError("diagram_mermaid", err), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(g, nil)), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workflowID, err := request.RequireString("workflow_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sel, err := s.manager.Select(ctx, workflowID, domain.SelectionType(kind), id)
	if err != nil {
		return s.toolError("select_element", err), nil
	}

	jsonBytes, err := json.Marshal(sel)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selection: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// toolError reports domain failures to the agent instead of failing the JSON-RPC call.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	if !errors.Is(err, domain.ErrWorkflowNotFound) && !errors.Is(err, domain.ErrElementNotFound) {
		s.logger.Error("MCP tool failed", "tool", tool, "error", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", tool, err))
}

func (s *Server) registerResources() {
	// EXPOSE: flowmap://layouts
	s.mcpServer.AddResource(mcp.NewResource(LayoutsURI, "Saved Layouts",
		mcp.WithResourceDescription("Ids of workflows whose node positions were saved"),
		mcp.WithMIMEType("application/json"),
	), s.readLayouts)
}

func (s *Server) readLayouts(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.manager.ListLayouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}
	jsonBytes, _ := json.Marshal(ids)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      LayoutsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
