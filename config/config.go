package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/aschepis/backscratcher/completion/llm"
	llmanthropic "github.com/aschepis/backscratcher/completion/llm/anthropic"
	"gopkg.in/yaml.v3"
)

// AnthropicConfig represents configuration for the Anthropic completion client.
type AnthropicConfig struct {
	APIKey                string       `yaml:"api_key,omitempty"`                 // Anthropic API key (falls back to ANTHROPIC_API_KEY)
	Model                 string       `yaml:"model,omitempty"`                   // Model identifier
	MaxTokens             int64        `yaml:"max_tokens,omitempty"`              // Response token limit
	ExtendedReasoning     *bool        `yaml:"extended_reasoning,omitempty"`      // Enabled when unset
	ReasoningBudgetTokens int64        `yaml:"reasoning_budget_tokens,omitempty"` // Thinking token budget
	BaseURL               string       `yaml:"base_url,omitempty"`                // Only needed when using a proxy
	StrictValidation      bool         `yaml:"strict_validation,omitempty"`       // Validate requests locally
	Pricing               *llm.Pricing `yaml:"pricing,omitempty"`                 // Per-million-token prices
}

// MCPServerConfig represents an MCP server whose tools are offered to the model.
type MCPServerConfig struct {
	Command string            `yaml:"command,omitempty"` // For STDIO transport
	URL     string            `yaml:"url,omitempty"`     // For HTTP transport
	Args    []string          `yaml:"args,omitempty"`    // Additional args for STDIO command
	Env     []string          `yaml:"env,omitempty"`     // Environment variables for STDIO
	Headers map[string]string `yaml:"headers,omitempty"` // HTTP headers, e.g. Authorization
}

// Config represents the configuration file.
type Config struct {
	Anthropic  AnthropicConfig            `yaml:"anthropic,omitempty"`
	Timeout    int                        `yaml:"timeout,omitempty"`     // Per-call timeout in seconds (0 = none)
	ToolsFile  string                     `yaml:"tools_file,omitempty"`  // JSON file with MCP tool definitions
	MCPServers map[string]MCPServerConfig `yaml:"mcp_servers,omitempty"` // Servers to discover tools from
}

// GetConfigPath returns the default config file path.
// Can be overridden via COMPLETION_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("COMPLETION_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.completion/config.yaml"
	}
	return filepath.Join(homeDir, ".completion", "config.yaml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// LoadConfig loads the configuration file at path and merges it onto the defaults.
// A missing file is not an error. An empty api key is filled from ANTHROPIC_API_KEY.
func LoadConfig(path string) (*Config, error) {
	// ExtendedReasoning and Pricing stay nil here: mergo does not override a
	// pointed-to false with a default true.
	defaults := Config{
		Anthropic: AnthropicConfig{
			Model:                 llmanthropic.DefaultModel,
			MaxTokens:             llmanthropic.DefaultMaxTokens,
			ReasoningBudgetTokens: llmanthropic.DefaultReasoningBudgetTokens,
		},
	}

	expandedPath := expandPath(path)
	_, statErr := os.Stat(expandedPath)
	if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %q: %w", expandedPath, statErr)
	}
	if statErr == nil {
		configYAML, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
		}

		var fileConfig Config
		if err := yaml.Unmarshal(configYAML, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}

		// Merge file config onto defaults
		if err := mergo.Merge(&defaults, fileConfig, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	if defaults.Anthropic.APIKey == "" {
		defaults.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if defaults.Anthropic.BaseURL == "" {
		defaults.Anthropic.BaseURL = os.Getenv("ANTHROPIC_BASE_URL")
	}
	if defaults.ToolsFile != "" {
		defaults.ToolsFile = expandPath(defaults.ToolsFile)
	}

	return &defaults, nil
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	// Ensure directory exists
	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write file
	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
