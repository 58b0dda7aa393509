package config

import (
	llmanthropic "github.com/aschepis/backscratcher/completion/llm/anthropic"
	"github.com/rs/zerolog"
)

// LoadAnthropicConfig converts the file configuration into the client configuration.
func LoadAnthropicConfig(cfg *Config) llmanthropic.Config {
	if cfg == nil {
		return llmanthropic.Config{}
	}

	return llmanthropic.Config{
		APIKey:                  cfg.Anthropic.APIKey,
		Model:                   cfg.Anthropic.Model,
		MaxTokens:               cfg.Anthropic.MaxTokens,
		EnableExtendedReasoning: cfg.Anthropic.ExtendedReasoning,
		ReasoningBudgetTokens:   cfg.Anthropic.ReasoningBudgetTokens,
		BaseURL:                 cfg.Anthropic.BaseURL,
		StrictValidation:        cfg.Anthropic.StrictValidation,
		Pricing:                 cfg.Anthropic.Pricing,
	}
}

// NewAnthropicClient creates a new Anthropic LLM client from the configuration.
func NewAnthropicClient(cfg *Config, logger zerolog.Logger) (*llmanthropic.AnthropicClient, error) {
	return llmanthropic.NewAnthropicClient(LoadAnthropicConfig(cfg), logger)
}
