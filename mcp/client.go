package mcp

import (
	"context"
	"fmt"

	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/aschepis/backscratcher/completion/tools"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
)

const (
	clientName    = "completion"
	clientVersion = "1.0.0"
)

// Client discovers tool definitions from a single MCP server.
type Client struct {
	client *client.Client
	server string
	names  *NameAdapter
	logger zerolog.Logger
}

func newClient(logger zerolog.Logger, server string, c *client.Client) *Client {
	return &Client{
		client: c,
		server: server,
		names:  NewNameAdapter(),
		logger: logger.With().Str("component", "mcpClient").Str("server", server).Logger(),
	}
}

// Server returns the name the client was created with.
func (c *Client) Server() string {
	return c.server
}

// Start starts the transport and performs the MCP initialize handshake.
func (c *Client) Start(ctx context.Context) error {
	c.logger.Debug().Msg("Starting MCP client")
	if err := c.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP client %s: %w", c.server, err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    clientName,
				Version: clientVersion,
			},
		},
	}

	// Initialize can hang while a stdio server is still starting up.
	initDone := make(chan error, 1)
	go func() {
		_, err := c.client.Initialize(ctx, initReq)
		initDone <- err
	}()

	select {
	case err := <-initDone:
		if err != nil {
			c.logger.Error().Err(err).Msg("Initialize failed")
			return fmt.Errorf("failed to initialize MCP client %s: %w", c.server, err)
		}
	case <-ctx.Done():
		c.logger.Error().Err(ctx.Err()).Msg("Context done during initialize")
		return llm.NormalizeCancellation(ctx, ctx.Err())
	}

	c.logger.Info().Msg("MCP client started")
	return nil
}

// ListTools returns the server's tools as tool specs. Tool names are rewritten
// to names the Messages API accepts; OriginalName maps them back.
func (c *Client) ListTools(ctx context.Context) ([]llm.ToolSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, llm.NormalizeCancellation(ctx, err)
	}
	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		if ctx.Err() != nil {
			return nil, llm.NormalizeCancellation(ctx, err)
		}
		return nil, fmt.Errorf("failed to list tools from %s: %w", c.server, err)
	}

	specs := tools.FromMCPTools(result.Tools)
	for i := range specs {
		specs[i].Name = c.names.GetSafeName(specs[i].Name)
	}
	c.logger.Debug().Int("tool_count", len(specs)).Msg("Received tools from MCP server")
	return specs, nil
}

// OriginalName returns the MCP tool name for a name returned by ListTools.
func (c *Client) OriginalName(safe string) (string, bool) {
	return c.names.ToOriginalName(safe)
}

// Close closes the connection to the MCP server.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// DiscoverTools lists the tools of every client and merges them. Two servers
// exposing the same tool name is an error.
func DiscoverTools(ctx context.Context, clients ...*Client) ([]llm.ToolSpec, error) {
	var specs []llm.ToolSpec
	owners := make(map[string]string)
	for _, c := range clients {
		listed, err := c.ListTools(ctx)
		if err != nil {
			return nil, err
		}
		for _, spec := range listed {
			if owner, ok := owners[spec.Name]; ok {
				return nil, fmt.Errorf("tool %q is provided by both %s and %s", spec.Name, owner, c.server)
			}
			owners[spec.Name] = c.server
			specs = append(specs, spec)
		}
	}
	return specs, nil
}
