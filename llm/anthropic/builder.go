package anthropic

import (
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/aschepis/backscratcher/completion/llm"
)

// BuildMessageParams builds the Messages API payload for req. cfg must already have
// its defaults applied. The last message is annotated for prompt caching; the
// thinking field is only set when extended reasoning is enabled.
func BuildMessageParams(cfg Config, req *llm.Request) (anthropic.MessageNewParams, error) {
	if req == nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("request is required")
	}

	messages, err := ToMessageParams(llm.WithLastMessageCached(req.Messages))
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: cfg.MaxTokens,
		Messages:  messages,
		System:    buildSystemBlocks(req.System),
		Tools:     ToToolUnionParams(req.Tools),
	}

	if cfg.ReasoningEnabled() {
		params.Thinking = anthropic.ThinkingConfigParamUnion{
			OfEnabled: &anthropic.ThinkingConfigEnabledParam{
				BudgetTokens: cfg.ReasoningBudgetTokens,
			},
		}
	}

	return params, nil
}

// BuildCountTokensParams builds the token counting payload for req. It follows the
// same rules as BuildMessageParams without cache annotation or thinking.
func BuildCountTokensParams(cfg Config, req *llm.Request) (anthropic.MessageCountTokensParams, error) {
	if req == nil {
		return anthropic.MessageCountTokensParams{}, fmt.Errorf("request is required")
	}

	messages, err := ToMessageParams(req.Messages)
	if err != nil {
		return anthropic.MessageCountTokensParams{}, fmt.Errorf("failed to convert messages: %w", err)
	}

	params := anthropic.MessageCountTokensParams{
		Model:    anthropic.Model(cfg.Model),
		Messages: messages,
		Tools:    ToCountTokensToolParams(req.Tools),
	}
	if system := buildSystemBlocks(req.System); system != nil {
		params.System = anthropic.MessageCountTokensParamsSystemUnion{OfTextBlockArray: system}
	}

	return params, nil
}

// buildSystemBlocks returns the system prompt as a single text block, or nil when
// there is no system prompt so the field is omitted.
func buildSystemBlocks(systemPrompt string) []anthropic.TextBlockParam {
	if systemPrompt == "" {
		return nil
	}
	return []anthropic.TextBlockParam{{Text: systemPrompt}}
}
