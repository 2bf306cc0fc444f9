package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/slides"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the slide deck to agents.
type Server struct {
	store  *slides.Store
	logger *zap.Logger
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server operating on store. Persisting
// changes is left to the store's change observer.
func NewServer(store *slides.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  store,
		logger: logger,
	}

	s.mcp = server.NewMCPServer(
		"slidesync",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listSlidesTool, s.handleListSlides)
	s.mcp.AddTool(getSlideTool, s.handleGetSlide)
	s.mcp.AddTool(addSlideTool, s.handleAddSlide)
	s.mcp.AddTool(updateSlideTool, s.handleUpdateSlide)
	s.mcp.AddTool(deleteSlideTool, s.handleDeleteSlide)
	s.mcp.AddTool(locateSourceTool, s.handleLocateSource)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
