package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aschepis/backscratcher/completion/llm"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"
)

// FromMCPTool converts an MCP tool definition into an llm.ToolSpec.
// Schema definitions ("$defs") are carried as extra schema fields.
func FromMCPTool(tool mcp.Tool) llm.ToolSpec {
	schema := llm.ToolSchema{
		Type:       "object",
		Properties: tool.InputSchema.Properties,
		Required:   tool.InputSchema.Required,
	}
	if schema.Properties == nil {
		schema.Properties = make(map[string]interface{})
	}
	if len(tool.InputSchema.Defs) > 0 {
		schema.ExtraFields = map[string]interface{}{"$defs": tool.InputSchema.Defs}
	}

	return llm.ToolSpec{
		Name:        tool.Name,
		Description: tool.Description,
		Schema:      schema,
	}
}

// FromMCPTools converts a list of MCP tool definitions.
func FromMCPTools(tools []mcp.Tool) []llm.ToolSpec {
	return lo.Map(tools, func(tool mcp.Tool, _ int) llm.ToolSpec {
		return FromMCPTool(tool)
	})
}

// ParseMCPTools decodes MCP tool definitions. The input is either a JSON array
// of tools or a tools/list result object ({"tools": [...]}).
func ParseMCPTools(data []byte) ([]llm.ToolSpec, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("empty tool definitions")
	}

	var tools []mcp.Tool
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &tools); err != nil {
			return nil, fmt.Errorf("failed to parse tool list: %w", err)
		}
	} else {
		var result mcp.ListToolsResult
		if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
			return nil, fmt.Errorf("failed to parse tools result: %w", err)
		}
		tools = result.Tools
	}

	for i, tool := range tools {
		if tool.Name == "" {
			return nil, fmt.Errorf("tool %d: missing name", i)
		}
	}
	return FromMCPTools(tools), nil
}

// LoadMCPTools reads MCP tool definitions from a JSON file.
func LoadMCPTools(path string) ([]llm.ToolSpec, error) {
	data, err := os.ReadFile(path) //#nosec 304 -- intentional file read for tool definitions
	if err != nil {
		return nil, fmt.Errorf("failed to read tools file %q: %w", path, err)
	}
	specs, err := ParseMCPTools(data)
	if err != nil {
		return nil, fmt.Errorf("tools file %q: %w", path, err)
	}
	return specs, nil
}
