package llm

import (
	"encoding/json"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether the role is one of the supported roles.
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message represents a single message in a conversation.
type Message struct {
	Role    MessageRole
	Content Content
}

// Content is the body of a message. It is either TextContent or BlockContent.
type Content interface {
	isContent()
}

// TextContent is plain string message content.
type TextContent string

// BlockContent is an ordered sequence of content blocks.
type BlockContent []ContentBlock

func (TextContent) isContent()  {}
func (BlockContent) isContent() {}

// ContentBlockType represents the type of content block.
type ContentBlockType string

const (
	ContentBlockTypeText     ContentBlockType = "text"
	ContentBlockTypeImage    ContentBlockType = "image"
	ContentBlockTypeThinking ContentBlockType = "thinking"
	ContentBlockTypeToolUse  ContentBlockType = "tool_use"
)

// CacheControlType is the kind of prompt cache marker.
type CacheControlType string

// CacheControlEphemeral is the only cache type supported by the API.
const CacheControlEphemeral CacheControlType = "ephemeral"

// CacheControl marks a content block as a prompt cache breakpoint.
type CacheControl struct {
	Type CacheControlType
}

// ContentBlock is a single unit of message content: a TextBlock or an ImageBlock.
type ContentBlock interface {
	BlockType() ContentBlockType
	// CacheMarker returns the block's cache marker, or nil if the block is not cacheable.
	CacheMarker() *CacheControl
	withCacheMarker(cc *CacheControl) ContentBlock
}

// TextBlock is a text content block.
type TextBlock struct {
	Text         string
	CacheControl *CacheControl
}

// BlockType implements ContentBlock.
func (b TextBlock) BlockType() ContentBlockType { return ContentBlockTypeText }

// CacheMarker implements ContentBlock.
func (b TextBlock) CacheMarker() *CacheControl { return b.CacheControl }

func (b TextBlock) withCacheMarker(cc *CacheControl) ContentBlock {
	b.CacheControl = cc
	return b
}

// ImageBlock is a base64 encoded image content block.
type ImageBlock struct {
	MediaType    string // e.g. "image/png"
	Data         string // base64 encoded
	CacheControl *CacheControl
}

// BlockType implements ContentBlock.
func (b ImageBlock) BlockType() ContentBlockType { return ContentBlockTypeImage }

// CacheMarker implements ContentBlock.
func (b ImageBlock) CacheMarker() *CacheControl { return b.CacheControl }

func (b ImageBlock) withCacheMarker(cc *CacheControl) ContentBlock {
	b.CacheControl = cc
	return b
}

// ToolSpec represents a tool definition that can be provided to an LLM.
type ToolSpec struct {
	Name        string
	Description string // optional; sent as "" when unset
	Schema      ToolSchema
}

// ToolSchema represents the JSON schema for a tool's input parameters.
type ToolSchema struct {
	Type        string // always "object"
	Properties  map[string]interface{}
	Required    []string
	ExtraFields map[string]interface{} // For any additional schema fields, e.g. "$defs"
}

// Request represents a single completion request. It is consumed once and never retained.
type Request struct {
	Messages []Message
	System   string // empty means no system prompt
	Tools    []ToolSpec
	Stream   bool
}

// ToolUseBlock represents a tool invocation request from the assistant.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]interface{} // JSON-serializable input parameters
}

// ResponseBlock is one content block of a model response.
type ResponseBlock struct {
	Type     ContentBlockType
	Text     string        // For text blocks
	Thinking string        // For thinking blocks
	ToolUse  *ToolUseBlock // For tool use blocks
}

// Response represents a complete buffered LLM API response.
type Response struct {
	ID         string
	Model      string
	Content    []ResponseBlock
	Usage      *Usage
	StopReason string
}

// Text returns the concatenated text blocks of the response.
func (r *Response) Text() string {
	var text string
	for _, block := range r.Content {
		if block.Type == ContentBlockTypeText {
			text += block.Text
		}
	}
	return text
}

// Usage represents token usage information from an LLM response.
type Usage struct {
	InputTokens  int64
	OutputTokens int64 // includes extended reasoning tokens
	// Zero when the provider did not report them.
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// StreamDelta represents a single delta in a streaming response.
type StreamDelta struct {
	Type      StreamDeltaType
	Text      string        // For text deltas
	Thinking  string        // For thinking deltas
	ToolUse   *ToolUseBlock // For tool use start
	ToolInput string        // For tool input JSON deltas
}

// StreamDeltaType represents the type of streaming delta.
type StreamDeltaType string

const (
	StreamDeltaTypeText      StreamDeltaType = "text"
	StreamDeltaTypeThinking  StreamDeltaType = "thinking"
	StreamDeltaTypeToolUse   StreamDeltaType = "tool_use"
	StreamDeltaTypeToolInput StreamDeltaType = "tool_input"
)

// StreamEvent represents a complete streaming event.
type StreamEvent struct {
	Type  StreamEventType
	Delta *StreamDelta
	Usage *Usage
	Done  bool
}

// StreamEventType represents the type of streaming event.
type StreamEventType string

const (
	StreamEventTypeStart        StreamEventType = "start"
	StreamEventTypeContentBlock StreamEventType = "content_block"
	StreamEventTypeContentDelta StreamEventType = "content_delta"
	StreamEventTypeMessageDelta StreamEventType = "message_delta"
	StreamEventTypeStop         StreamEventType = "stop"
)

// NewTextMessage creates a new message with plain text content.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role:    role,
		Content: TextContent(text),
	}
}

// NewBlockMessage creates a new message with block content.
func NewBlockMessage(role MessageRole, blocks ...ContentBlock) Message {
	return Message{
		Role:    role,
		Content: BlockContent(blocks),
	}
}

// NewImageBlock creates a base64 image block.
func NewImageBlock(mediaType, data string) ImageBlock {
	return ImageBlock{MediaType: mediaType, Data: data}
}

// ToJSON marshals a message to JSON for debugging/logging purposes.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
