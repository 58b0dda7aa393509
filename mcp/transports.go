package mcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// NewStdioClient creates a client that spawns command and talks to it over STDIO.
// The command may carry its own arguments, e.g. "npx -y some-server".
func NewStdioClient(logger zerolog.Logger, name, command string, args, env []string) (*Client, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("command is required for STDIO MCP client")
	}

	cmdArgs := make([]string, 0, len(parts)-1+len(args))
	cmdArgs = append(cmdArgs, parts[1:]...)
	cmdArgs = append(cmdArgs, args...)

	logger.Debug().Str("server", name).Str("command", parts[0]).Strs("args", cmdArgs).Msg("Creating STDIO MCP client")
	c, err := client.NewStdioMCPClient(parts[0], env, cmdArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdio MCP client: %w", err)
	}
	return newClient(logger, name, c), nil
}

// NewHTTPClient creates a client for a streamable HTTP MCP server.
func NewHTTPClient(logger zerolog.Logger, name, baseURL string, headers map[string]string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required for HTTP MCP client")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	var opts []transport.StreamableHTTPCOption
	if len(headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(headers))
	}

	logger.Debug().Str("server", name).Str("base_url", baseURL).Msg("Creating HTTP MCP client")
	c, err := client.NewStreamableHttpClient(baseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP MCP client: %w", err)
	}
	return newClient(logger, name, c), nil
}

// NewInProcessClient creates a client for an MCP server running in this process.
func NewInProcessClient(logger zerolog.Logger, name string, srv *server.MCPServer) (*Client, error) {
	c, err := client.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process MCP client: %w", err)
	}
	return newClient(logger, name, c), nil
}
