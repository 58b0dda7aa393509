package anthropic

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/rs/zerolog"
)

// AnthropicClient implements the llm.Client interface for Anthropic's API.
// It is safe for concurrent use; its configuration never changes after construction.
type AnthropicClient struct {
	client *anthropic.Client
	cfg    Config
	logger zerolog.Logger
}

// NewAnthropicClient creates a new AnthropicClient. Extra request options are
// applied after the ones derived from cfg.
func NewAnthropicClient(cfg Config, logger zerolog.Logger, opts ...option.RequestOption) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	cfg = cfg.WithDefaults()

	// One attempt per call; retry policy belongs to the caller.
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	client := anthropic.NewClient(clientOpts...)
	return &AnthropicClient{
		client: &client,
		cfg:    cfg,
		logger: logger.With().Str("component", "anthropicClient").Str("model", cfg.Model).Logger(),
	}, nil
}

// Config returns the resolved client configuration.
func (c *AnthropicClient) Config() Config {
	return c.cfg
}

// Complete issues req in buffered or streaming mode depending on req.Stream.
func (c *AnthropicClient) Complete(ctx context.Context, req *llm.Request) (*llm.Completion, error) {
	return llm.Complete(ctx, c, req)
}

// Synchronous implements llm.Client.Synchronous.
func (c *AnthropicClient) Synchronous(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	params, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("messages", len(params.Messages)).
		Int("tools", len(params.Tools)).
		Bool("thinking", params.Thinking.OfEnabled != nil).
		Msg("Sending message request")

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, llm.NormalizeCancellation(ctx, err)
	}

	resp := FromMessage(message)
	logCacheStats(c.logger, resp.Usage, "Prompt cache stats")
	return resp, nil
}

// Stream implements llm.Client.Stream.
func (c *AnthropicClient) Stream(ctx context.Context, req *llm.Request) (llm.Stream, error) {
	params, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("messages", len(params.Messages)).
		Int("tools", len(params.Tools)).
		Bool("thinking", params.Thinking.OfEnabled != nil).
		Msg("Starting message stream")

	stream := c.client.Messages.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, llm.NormalizeCancellation(ctx, err)
	}

	return newAnthropicStream(ctx, stream, c.logger), nil
}

// CountTokens returns the exact number of input tokens req would consume, as
// reported by the token counting endpoint.
func (c *AnthropicClient) CountTokens(ctx context.Context, req *llm.Request) (int64, error) {
	if err := c.check(ctx, req); err != nil {
		return 0, err
	}

	params, err := BuildCountTokensParams(c.cfg, req)
	if err != nil {
		return 0, err
	}

	result, err := c.client.Messages.CountTokens(ctx, params)
	if err != nil {
		return 0, llm.NormalizeCancellation(ctx, err)
	}
	return result.InputTokens, nil
}

// CalculateCost estimates the USD cost of usage with the configured pricing.
func (c *AnthropicClient) CalculateCost(usage llm.Usage) float64 {
	return c.cfg.Pricing.Cost(usage)
}

func (c *AnthropicClient) prepare(ctx context.Context, req *llm.Request) (anthropic.MessageNewParams, error) {
	if err := c.check(ctx, req); err != nil {
		return anthropic.MessageNewParams{}, err
	}
	return BuildMessageParams(c.cfg, req)
}

// check rejects nil and, in strict mode, invalid requests, and returns the
// canonical cancellation error when ctx is already done.
func (c *AnthropicClient) check(ctx context.Context, req *llm.Request) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}
	if err := ctx.Err(); err != nil {
		return llm.NormalizeCancellation(ctx, err)
	}
	if c.cfg.StrictValidation {
		if err := req.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// logCacheStats logs prompt cache information for tracking efficacy.
func logCacheStats(logger zerolog.Logger, usage *llm.Usage, msg string) {
	if usage == nil || (usage.CacheCreationInputTokens == 0 && usage.CacheReadInputTokens == 0) {
		return
	}
	cacheEfficiency := float64(0)
	if usage.InputTokens > 0 {
		cacheEfficiency = float64(usage.CacheReadInputTokens) / float64(usage.InputTokens) * 100
	}
	logger.Debug().
		Int64("input_tokens", usage.InputTokens).
		Int64("cache_creation_tokens", usage.CacheCreationInputTokens).
		Int64("cache_read_tokens", usage.CacheReadInputTokens).
		Float64("cache_efficiency", cacheEfficiency).
		Msg(msg)
}

var (
	_ llm.Client       = (*AnthropicClient)(nil)
	_ llm.TokenCounter = (*AnthropicClient)(nil)
)
