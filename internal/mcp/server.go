package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommandHandler runs a named command with JSON params.
type CommandHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Config contains server configuration.
type Config struct {
	Commands CommandHandler
	Version  string
	Logger   *slog.Logger
}

// NewServer creates an MCP server exposing every command as a tool.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "specmaker",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Commands)

	return server
}
