package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/mcp"
	"github.com/doctalk-ai/doctalk/pkg/logger_i"
)

// Bridges stdio MCP clients to a running doctalk API instance.
func main() {
	logger_i.InitStderr()
	logger := logger_i.NewLogger("mcp-main")

	apiURL := flag.String("api-url", config.EnvOr("DOCTALK_API_URL", config.DefaultAPIBaseURL), "base URL of the doctalk API")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(mcp.NewAPIClient(*apiURL))
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}
