package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestFromMCPTool(t *testing.T) {
	tool := mcp.NewTool("calculator",
		mcp.WithDescription("Evaluates arithmetic"),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression to evaluate")),
		mcp.WithNumber("precision"),
	)

	spec := FromMCPTool(tool)
	if spec.Name != "calculator" || spec.Description != "Evaluates arithmetic" {
		t.Errorf("Unexpected tool spec: %+v", spec)
	}
	if spec.Schema.Type != "object" {
		t.Errorf("Expected object schema, got %q", spec.Schema.Type)
	}
	if len(spec.Schema.Required) != 1 || spec.Schema.Required[0] != "expression" {
		t.Errorf("Expected expression to be required, got %v", spec.Schema.Required)
	}
	prop, ok := spec.Schema.Properties["expression"].(map[string]any)
	if !ok || prop["type"] != "string" {
		t.Errorf("Expected string property, got %v", spec.Schema.Properties["expression"])
	}
	if _, ok := spec.Schema.Properties["precision"]; !ok {
		t.Error("Expected precision property")
	}
	if spec.Schema.ExtraFields != nil {
		t.Errorf("Expected no extra fields, got %v", spec.Schema.ExtraFields)
	}
	if err := spec.Schema.Validate(); err != nil {
		t.Errorf("Converted schema should validate: %v", err)
	}
}

func TestFromMCPTool_NoArguments(t *testing.T) {
	spec := FromMCPTool(mcp.NewTool("ping"))
	if spec.Description != "" {
		t.Errorf("Expected empty description, got %q", spec.Description)
	}
	if spec.Schema.Properties == nil {
		t.Error("Expected empty properties map, got nil")
	}
}

func TestParseMCPTools(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "array",
			input: `[{"name":"a","inputSchema":{"type":"object"}},{"name":"b","description":"B","inputSchema":{"type":"object","properties":{"x":{"type":"integer"}},"required":["x"]}}]`,
			want:  []string{"a", "b"},
		},
		{
			name:  "list result",
			input: `{"tools":[{"name":"search","inputSchema":{"type":"object","$defs":{"q":{"type":"string"}}}}]}`,
			want:  []string{"search"},
		},
		{name: "empty array", input: `[]`, want: []string{}},
		{name: "blank", input: "  ", wantErr: true},
		{name: "missing name", input: `[{"inputSchema":{"type":"object"}}]`, wantErr: true},
		{name: "malformed", input: `[{"name":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specs, err := ParseMCPTools([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got %v", specs)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMCPTools failed: %v", err)
			}
			if len(specs) != len(tt.want) {
				t.Fatalf("Expected %d tools, got %d", len(tt.want), len(specs))
			}
			for i, name := range tt.want {
				if specs[i].Name != name {
					t.Errorf("Tool %d: expected %q, got %q", i, name, specs[i].Name)
				}
			}
		})
	}
}

func TestParseMCPTools_Defs(t *testing.T) {
	specs, err := ParseMCPTools([]byte(`{"tools":[{"name":"search","inputSchema":{"type":"object","$defs":{"q":{"type":"string"}}}}]}`))
	if err != nil {
		t.Fatalf("ParseMCPTools failed: %v", err)
	}
	if _, ok := specs[0].Schema.ExtraFields["$defs"]; !ok {
		t.Errorf("Expected $defs in extra fields, got %v", specs[0].Schema.ExtraFields)
	}
}

func TestLoadMCPTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	content := `[{"name":"weather","description":"Current weather","inputSchema":{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write tools file: %v", err)
	}

	specs, err := LoadMCPTools(path)
	if err != nil {
		t.Fatalf("LoadMCPTools failed: %v", err)
	}
	if len(specs) != 1 || specs[0].Name != "weather" || specs[0].Schema.Required[0] != "city" {
		t.Errorf("Unexpected specs: %+v", specs)
	}

	if _, err := LoadMCPTools(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}
