package anthropic

import (
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/samber/lo"
)

// ToContentBlockParam converts an llm.ContentBlock to an Anthropic content block,
// carrying over its cache marker.
func ToContentBlockParam(block llm.ContentBlock) (anthropic.ContentBlockParamUnion, error) {
	switch b := block.(type) {
	case llm.TextBlock:
		text := anthropic.TextBlockParam{Text: b.Text}
		if b.CacheControl != nil {
			text.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		return anthropic.ContentBlockParamUnion{OfText: &text}, nil
	case llm.ImageBlock:
		image := anthropic.ImageBlockParam{
			Source: anthropic.ImageBlockParamSourceUnion{
				OfBase64: &anthropic.Base64ImageSourceParam{
					Data:      b.Data,
					MediaType: anthropic.Base64ImageSourceMediaType(b.MediaType),
				},
			},
		}
		if b.CacheControl != nil {
			image.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		return anthropic.ContentBlockParamUnion{OfImage: &image}, nil
	case nil:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("content block is nil")
	default:
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("unsupported content block type %T", block)
	}
}

// ToMessageParam converts an llm.Message to an Anthropic MessageParam.
// Plain text content becomes a single text block without a cache marker.
// The role is passed through as is; the API rejects unknown roles.
func ToMessageParam(msg llm.Message) (anthropic.MessageParam, error) {
	var contentBlocks []anthropic.ContentBlockParamUnion
	switch content := msg.Content.(type) {
	case llm.TextContent:
		contentBlocks = []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(string(content))}
	case llm.BlockContent:
		contentBlocks = make([]anthropic.ContentBlockParamUnion, 0, len(content))
		for i, block := range content {
			param, err := ToContentBlockParam(block)
			if err != nil {
				return anthropic.MessageParam{}, fmt.Errorf("block %d: %w", i, err)
			}
			contentBlocks = append(contentBlocks, param)
		}
	}

	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRole(msg.Role),
		Content: contentBlocks,
	}, nil
}

// ToMessageParams converts a slice of llm.Messages to Anthropic MessageParams.
func ToMessageParams(msgs []llm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(msgs))
	for i, msg := range msgs {
		anthMsg, err := ToMessageParam(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		result = append(result, anthMsg)
	}
	return result, nil
	// Note: Using loop instead of lo.Map due to error handling requirement
}

// ToToolParam converts an llm.ToolSpec to an Anthropic ToolParam. The description is
// always present, defaulting to the empty string.
func ToToolParam(spec *llm.ToolSpec) anthropic.ToolParam {
	return anthropic.ToolParam{
		Name:        spec.Name,
		Description: anthropic.String(spec.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:        "object",
			Properties:  spec.Schema.Properties,
			Required:    spec.Schema.Required,
			ExtraFields: spec.Schema.ExtraFields,
		},
	}
}

// ToToolUnionParams converts a slice of llm.ToolSpecs to Anthropic ToolUnionParams.
// It returns nil for an empty slice so the tools field is omitted.
func ToToolUnionParams(specs []llm.ToolSpec) []anthropic.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}
	return lo.Map(specs, func(spec llm.ToolSpec, _ int) anthropic.ToolUnionParam {
		toolParam := ToToolParam(&spec)
		return anthropic.ToolUnionParam{OfTool: &toolParam}
	})
}

// ToCountTokensToolParams converts a slice of llm.ToolSpecs to the tool union used
// by the token counting endpoint.
func ToCountTokensToolParams(specs []llm.ToolSpec) []anthropic.MessageCountTokensToolUnionParam {
	if len(specs) == 0 {
		return nil
	}
	return lo.Map(specs, func(spec llm.ToolSpec, _ int) anthropic.MessageCountTokensToolUnionParam {
		toolParam := ToToolParam(&spec)
		return anthropic.MessageCountTokensToolUnionParam{OfTool: &toolParam}
	})
}

// FromMessage converts an Anthropic Message to an llm.Response.
func FromMessage(message *anthropic.Message) *llm.Response {
	content := make([]llm.ResponseBlock, 0, len(message.Content))
	for _, blockUnion := range message.Content {
		switch block := blockUnion.AsAny().(type) {
		case anthropic.TextBlock:
			content = append(content, llm.ResponseBlock{
				Type: llm.ContentBlockTypeText,
				Text: block.Text,
			})
		case anthropic.ThinkingBlock:
			content = append(content, llm.ResponseBlock{
				Type:     llm.ContentBlockTypeThinking,
				Thinking: block.Thinking,
			})
		case anthropic.ToolUseBlock:
			content = append(content, llm.ResponseBlock{
				Type: llm.ContentBlockTypeToolUse,
				ToolUse: &llm.ToolUseBlock{
					ID:    block.ID,
					Name:  block.Name,
					Input: decodeToolInput(block.Input),
				},
			})
		}
	}

	return &llm.Response{
		ID:         message.ID,
		Model:      string(message.Model),
		Content:    content,
		Usage:      fromUsage(message.Usage),
		StopReason: string(message.StopReason),
	}
}

func fromUsage(usage anthropic.Usage) *llm.Usage {
	return &llm.Usage{
		InputTokens:              usage.InputTokens,
		OutputTokens:             usage.OutputTokens,
		CacheCreationInputTokens: usage.CacheCreationInputTokens,
		CacheReadInputTokens:     usage.CacheReadInputTokens,
	}
}

// decodeToolInput extracts tool input as map[string]interface{}, falling back to an
// empty map when the input is missing or not an object.
func decodeToolInput(raw interface{}) map[string]interface{} {
	input := make(map[string]interface{})
	if raw == nil {
		return input
	}
	inputBytes, err := json.Marshal(raw)
	if err != nil {
		return input
	}
	if err := json.Unmarshal(inputBytes, &input); err != nil || input == nil {
		return make(map[string]interface{})
	}
	return input
}

func decodePartialToolInput(partial string) map[string]interface{} {
	var input map[string]interface{}
	if partial == "" || json.Unmarshal([]byte(partial), &input) != nil || input == nil {
		return make(map[string]interface{})
	}
	return input
}
