package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Server exposes the document question answering API as MCP tools,
// bridging stdio clients to a running HTTP instance.
type Server struct {
	client *APIClient
	server *mcp.Server
	logger *logger_i.Logger
}

func NewServer(client *APIClient) *Server {
	impl := &mcp.Implementation{
		Name:    config.MCPServerName,
		Version: config.MCPServerVersion,
	}

	s := &Server{
		client: client,
		server: mcp.NewServer(impl, nil),
		logger: logger_i.NewLogger("mcp"),
	}
	s.registerTools()
	return s
}

// Run serves over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server started", "api_base_url", s.client.BaseURL)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
