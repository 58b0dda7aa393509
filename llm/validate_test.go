package llm

import (
	"strings"
	"testing"
)

func calculatorTool() ToolSpec {
	return ToolSpec{
		Name:        "calculator",
		Description: "Perform mathematical calculations",
		Schema: ToolSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"expression": map[string]interface{}{"type": "string"},
			},
			Required: []string{"expression"},
		},
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{
			name: "valid request",
			req: Request{
				Messages: []Message{NewTextMessage(RoleUser, "What is 123 + 456?")},
				Tools:    []ToolSpec{calculatorTool()},
			},
		},
		{
			name:    "no messages",
			req:     Request{},
			wantErr: "at least one message is required",
		},
		{
			name:    "invalid role",
			req:     Request{Messages: []Message{NewTextMessage("system", "hi")}},
			wantErr: `invalid role "system"`,
		},
		{
			name:    "empty block content",
			req:     Request{Messages: []Message{{Role: RoleUser, Content: BlockContent{}}}},
			wantErr: "block content must not be empty",
		},
		{
			name:    "nil content",
			req:     Request{Messages: []Message{{Role: RoleUser}}},
			wantErr: "missing content",
		},
		{
			name: "duplicate tool names",
			req: Request{
				Messages: []Message{NewTextMessage(RoleUser, "hi")},
				Tools:    []ToolSpec{calculatorTool(), calculatorTool()},
			},
			wantErr: `duplicate tool name "calculator"`,
		},
		{
			name: "required not in properties",
			req: Request{
				Messages: []Message{NewTextMessage(RoleUser, "hi")},
				Tools: []ToolSpec{{
					Name:   "broken",
					Schema: ToolSchema{Type: "object", Required: []string{"missing"}},
				}},
			},
			wantErr: `required property "missing" is not declared`,
		},
		{
			name: "non-object schema",
			req: Request{
				Messages: []Message{NewTextMessage(RoleUser, "hi")},
				Tools:    []ToolSpec{{Name: "arr", Schema: ToolSchema{Type: "array"}}},
			},
			wantErr: `schema type must be "object"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !IsValidationError(err) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
