package llm

import (
	"context"

	"github.com/rs/zerolog"
)

// LoggingMiddleware logs completed calls with their token usage and estimated cost.
// It never modifies requests, responses or errors.
type LoggingMiddleware struct {
	logger   zerolog.Logger
	pricing  Pricing
	classify func(error) ErrorType
}

// NewLoggingMiddleware creates a new LoggingMiddleware. classify may be nil.
func NewLoggingMiddleware(logger zerolog.Logger, pricing Pricing, classify func(error) ErrorType) *LoggingMiddleware {
	if classify == nil {
		classify = func(err error) ErrorType {
			if IsCanceled(err) {
				return ErrorTypeCanceled
			}
			return ErrorTypeUnknown
		}
	}
	return &LoggingMiddleware{
		logger:   logger.With().Str("component", "loggingMiddleware").Logger(),
		pricing:  pricing,
		classify: classify,
	}
}

// BeforeRequest implements Middleware.BeforeRequest.
func (m *LoggingMiddleware) BeforeRequest(ctx context.Context, req *Request) (*Request, error) {
	m.logger.Debug().
		Int("messages", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Bool("has_system", req.System != "").
		Msg("Sending completion request")
	return req, nil
}

// AfterResponse implements Middleware.AfterResponse.
func (m *LoggingMiddleware) AfterResponse(ctx context.Context, req *Request, resp *Response) (*Response, error) {
	evt := m.logger.Info().
		Str("id", resp.ID).
		Str("stop_reason", resp.StopReason)
	if resp.Usage != nil {
		evt = m.withUsage(evt, resp.Usage)
	}
	evt.Msg("Completion finished")
	return resp, nil
}

// OnError implements Middleware.OnError.
func (m *LoggingMiddleware) OnError(ctx context.Context, req *Request, err error) error {
	errType := m.classify(err)
	if errType == ErrorTypeCanceled {
		m.logger.Debug().Err(err).Msg("Completion canceled")
		return err
	}
	m.logger.Error().Err(err).Str("error_type", string(errType)).Msg("Completion failed")
	return err
}

// BeforeStream implements StreamMiddleware.BeforeStream.
func (m *LoggingMiddleware) BeforeStream(ctx context.Context, req *Request) (*Request, error) {
	m.logger.Debug().
		Int("messages", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Bool("has_system", req.System != "").
		Msg("Starting completion stream")
	return req, nil
}

// OnStreamEvent implements StreamMiddleware.OnStreamEvent.
func (m *LoggingMiddleware) OnStreamEvent(ctx context.Context, req *Request, event *StreamEvent) (*StreamEvent, error) {
	if event.Done && event.Usage != nil {
		m.withUsage(m.logger.Info(), event.Usage).Msg("Completion stream finished")
	}
	return event, nil
}

// OnStreamError implements StreamMiddleware.OnStreamError.
func (m *LoggingMiddleware) OnStreamError(ctx context.Context, req *Request, err error) error {
	return m.OnError(ctx, req, err)
}

func (m *LoggingMiddleware) withUsage(evt *zerolog.Event, usage *Usage) *zerolog.Event {
	return evt.
		Int64("input_tokens", usage.InputTokens).
		Int64("output_tokens", usage.OutputTokens).
		Int64("cache_creation_tokens", usage.CacheCreationInputTokens).
		Int64("cache_read_tokens", usage.CacheReadInputTokens).
		Float64("cost_usd", m.pricing.Cost(*usage))
}

var (
	_ Middleware       = (*LoggingMiddleware)(nil)
	_ StreamMiddleware = (*LoggingMiddleware)(nil)
)
