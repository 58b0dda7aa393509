package anthropic

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/rs/zerolog"
)

// anthropicStream implements the llm.Stream interface for Anthropic streaming responses.
// Events are read from the SSE stream only when Next is called. It is not safe for
// use by more than one goroutine.
type anthropicStream struct {
	ctx     context.Context
	stream  *ssestream.Stream[anthropic.MessageStreamEventUnion]
	pending []*llm.StreamEvent
	current *llm.StreamEvent
	err     error
	done    bool
	started bool
	logger  zerolog.Logger

	// Track accumulated content for tool calls
	currentToolCall  *llm.ToolUseBlock
	toolInputBuilder strings.Builder
	usage            *llm.Usage
}

// newAnthropicStream creates a new anthropicStream.
func newAnthropicStream(ctx context.Context, stream *ssestream.Stream[anthropic.MessageStreamEventUnion], logger zerolog.Logger) *anthropicStream {
	return &anthropicStream{
		ctx:    ctx,
		stream: stream,
		logger: logger,
	}
}

// Next advances to the next event in the stream.
func (s *anthropicStream) Next() bool {
	if !s.started {
		s.started = true
		s.emit(&llm.StreamEvent{Type: llm.StreamEventTypeStart})
	}

	for len(s.pending) == 0 {
		if s.done || s.err != nil {
			s.current = nil
			return false
		}
		if !s.stream.Next() {
			s.done = true
			if err := s.stream.Err(); err != nil {
				s.err = llm.NormalizeCancellation(s.ctx, err)
			} else if ctxErr := s.ctx.Err(); ctxErr != nil {
				// The body ended early because the request was aborted.
				s.err = llm.NormalizeCancellation(s.ctx, ctxErr)
			}
			continue
		}
		s.handle(s.stream.Current())
	}

	s.current = s.pending[0]
	s.pending = s.pending[1:]
	return true
}

// Event returns the current event.
func (s *anthropicStream) Event() *llm.StreamEvent {
	return s.current
}

// Err returns any error that occurred during streaming.
func (s *anthropicStream) Err() error {
	return s.err
}

// Close closes the stream and releases resources.
func (s *anthropicStream) Close() error {
	s.done = true
	s.pending = nil
	if s.stream != nil {
		return s.stream.Close()
	}
	return nil
}

func (s *anthropicStream) emit(event *llm.StreamEvent) {
	s.pending = append(s.pending, event)
}

// handle translates one Anthropic stream event into zero or more llm events.
func (s *anthropicStream) handle(event anthropic.MessageStreamEventUnion) {
	switch evt := event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		// Input and cache usage are only reported here.
		s.usage = fromUsage(evt.Message.Usage)

	case anthropic.ContentBlockStartEvent:
		if block, ok := evt.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
			s.currentToolCall = &llm.ToolUseBlock{
				ID:    block.ID,
				Name:  block.Name,
				Input: make(map[string]interface{}),
			}
			s.toolInputBuilder.Reset()
			s.emit(&llm.StreamEvent{
				Type: llm.StreamEventTypeContentBlock,
				Delta: &llm.StreamDelta{
					Type:    llm.StreamDeltaTypeToolUse,
					ToolUse: s.currentToolCall,
				},
			})
		}

	case anthropic.ContentBlockDeltaEvent:
		switch d := evt.Delta.AsAny().(type) {
		case anthropic.TextDelta:
			if d.Text != "" {
				s.emit(&llm.StreamEvent{
					Type:  llm.StreamEventTypeContentDelta,
					Delta: &llm.StreamDelta{Type: llm.StreamDeltaTypeText, Text: d.Text},
				})
			}
		case anthropic.ThinkingDelta:
			if d.Thinking != "" {
				s.emit(&llm.StreamEvent{
					Type:  llm.StreamEventTypeContentDelta,
					Delta: &llm.StreamDelta{Type: llm.StreamDeltaTypeThinking, Thinking: d.Thinking},
				})
			}
		case anthropic.InputJSONDelta:
			if s.currentToolCall != nil && d.PartialJSON != "" {
				s.toolInputBuilder.WriteString(d.PartialJSON)
				s.emit(&llm.StreamEvent{
					Type:  llm.StreamEventTypeContentDelta,
					Delta: &llm.StreamDelta{Type: llm.StreamDeltaTypeToolInput, ToolInput: d.PartialJSON},
				})
			}
		}

	case anthropic.ContentBlockStopEvent:
		s.finishToolCall()

	case anthropic.MessageDeltaEvent:
		if s.usage == nil {
			s.usage = &llm.Usage{}
		}
		// Output tokens are cumulative; the other counters are only set when reported.
		s.usage.OutputTokens = evt.Usage.OutputTokens
		if evt.Usage.InputTokens > 0 {
			s.usage.InputTokens = evt.Usage.InputTokens
		}
		if evt.Usage.CacheCreationInputTokens > 0 {
			s.usage.CacheCreationInputTokens = evt.Usage.CacheCreationInputTokens
		}
		if evt.Usage.CacheReadInputTokens > 0 {
			s.usage.CacheReadInputTokens = evt.Usage.CacheReadInputTokens
		}
		logCacheStats(s.logger, s.usage, "Prompt cache stats (stream)")

	case anthropic.MessageStopEvent:
		s.finishToolCall()
		s.emit(&llm.StreamEvent{
			Type:  llm.StreamEventTypeMessageDelta,
			Usage: s.usage,
		})
		s.emit(&llm.StreamEvent{
			Type:  llm.StreamEventTypeStop,
			Usage: s.usage,
			Done:  true,
		})
		s.done = true
	}
}

// finishToolCall parses the accumulated input of the pending tool call, if any.
func (s *anthropicStream) finishToolCall() {
	if s.currentToolCall == nil {
		return
	}
	s.currentToolCall.Input = decodePartialToolInput(s.toolInputBuilder.String())
	s.toolInputBuilder.Reset()
	s.currentToolCall = nil
}

var _ llm.Stream = (*anthropicStream)(nil)
