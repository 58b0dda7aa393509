package anthropic

import (
	"dario.cat/mergo"
	"github.com/aschepis/backscratcher/completion/llm"
)

const (
	// DefaultModel is the model used when Config.Model is empty.
	DefaultModel = "claude-3-7-sonnet-20250219"
	// DefaultMaxTokens is the response token limit used when Config.MaxTokens is zero.
	DefaultMaxTokens int64 = 8000
	// DefaultReasoningBudgetTokens is the thinking budget used when Config.ReasoningBudgetTokens is zero.
	DefaultReasoningBudgetTokens int64 = 4000
)

// Config configures an AnthropicClient. Only APIKey is required.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// EnableExtendedReasoning defaults to true when nil.
	EnableExtendedReasoning *bool
	ReasoningBudgetTokens   int64
	// BaseURL overrides the API endpoint, e.g. for a proxy.
	BaseURL string
	// StrictValidation validates requests locally before sending them.
	StrictValidation bool
	// Pricing is used by CalculateCost. Unset rates default to llm.DefaultPricing.
	Pricing *llm.Pricing
}

// ReasoningEnabled reports whether extended reasoning is on.
func (c Config) ReasoningEnabled() bool {
	return c.EnableExtendedReasoning == nil || *c.EnableExtendedReasoning
}

// WithDefaults returns a copy of c with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	enabled := c.ReasoningEnabled()
	c.EnableExtendedReasoning = &enabled
	if c.ReasoningBudgetTokens <= 0 {
		c.ReasoningBudgetTokens = DefaultReasoningBudgetTokens
	}
	pricing := llm.DefaultPricing
	if c.Pricing != nil {
		// Rates left at zero keep their default.
		if err := mergo.Merge(&pricing, *c.Pricing, mergo.WithOverride); err != nil {
			pricing = *c.Pricing
		}
	}
	c.Pricing = &pricing
	return c
}
