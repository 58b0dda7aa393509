package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/aschepis/backscratcher/completion/config"
	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/aschepis/backscratcher/completion/mcp"
	"github.com/rs/zerolog"
)

// discoverMCPTools connects to every configured MCP server, lists its tools and
// closes the connections again.
func discoverMCPTools(ctx context.Context, logger zerolog.Logger, servers map[string]config.MCPServerConfig) ([]llm.ToolSpec, error) {
	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	clients := make([]*mcp.Client, 0, len(names))
	defer func() {
		for _, c := range clients {
			if err := c.Close(); err != nil {
				logger.Warn().Err(err).Str("server", c.Server()).Msg("Failed to close MCP client")
			}
		}
	}()

	for _, name := range names {
		c, err := newMCPClient(logger, name, servers[name])
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
		if err := c.Start(ctx); err != nil {
			return nil, err
		}
	}

	return mcp.DiscoverTools(ctx, clients...)
}

func newMCPClient(logger zerolog.Logger, name string, server config.MCPServerConfig) (*mcp.Client, error) {
	switch {
	case server.URL != "":
		return mcp.NewHTTPClient(logger, name, server.URL, server.Headers)
	case server.Command != "":
		return mcp.NewStdioClient(logger, name, server.Command, server.Args, server.Env)
	default:
		return nil, fmt.Errorf("MCP server %s: either command or url is required", name)
	}
}
