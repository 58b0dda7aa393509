package llm

import (
	"encoding/json"
	"testing"
)

func TestNewTextMessage(t *testing.T) {
	msg := NewTextMessage(RoleUser, "Hello, world!")
	if msg.Role != RoleUser {
		t.Errorf("Expected role %v, got %v", RoleUser, msg.Role)
	}
	text, ok := msg.Content.(TextContent)
	if !ok {
		t.Fatalf("Expected TextContent, got %T", msg.Content)
	}
	if string(text) != "Hello, world!" {
		t.Errorf("Expected text 'Hello, world!', got %q", text)
	}
}

func TestNewBlockMessage(t *testing.T) {
	msg := NewBlockMessage(RoleAssistant,
		TextBlock{Text: "look at this"},
		NewImageBlock("image/png", "aGVsbG8="),
	)
	if msg.Role != RoleAssistant {
		t.Errorf("Expected role %v, got %v", RoleAssistant, msg.Role)
	}
	blocks, ok := msg.Content.(BlockContent)
	if !ok {
		t.Fatalf("Expected BlockContent, got %T", msg.Content)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 content blocks, got %d", len(blocks))
	}
	if blocks[0].BlockType() != ContentBlockTypeText {
		t.Errorf("Expected text block type, got %v", blocks[0].BlockType())
	}
	img, ok := blocks[1].(ImageBlock)
	if !ok {
		t.Fatalf("Expected ImageBlock, got %T", blocks[1])
	}
	if img.MediaType != "image/png" || img.Data != "aGVsbG8=" {
		t.Errorf("Unexpected image block: %+v", img)
	}
	if img.CacheMarker() != nil {
		t.Error("Expected new image block to have no cache marker")
	}
}

func TestMessageRoleValid(t *testing.T) {
	tests := []struct {
		role MessageRole
		want bool
	}{
		{RoleUser, true},
		{RoleAssistant, true},
		{MessageRole("system"), false},
		{MessageRole(""), false},
	}
	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("MessageRole(%q).Valid() = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestResponseText(t *testing.T) {
	resp := &Response{
		Content: []ResponseBlock{
			{Type: ContentBlockTypeThinking, Thinking: "hmm"},
			{Type: ContentBlockTypeText, Text: "Paris"},
			{Type: ContentBlockTypeToolUse, ToolUse: &ToolUseBlock{ID: "t1", Name: "lookup"}},
			{Type: ContentBlockTypeText, Text: " is the capital."},
		},
	}
	if got := resp.Text(); got != "Paris is the capital." {
		t.Errorf("Expected concatenated text, got %q", got)
	}
}

func TestMessageToJSON(t *testing.T) {
	msg := NewTextMessage(RoleUser, "Test message")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded["Role"] != "user" {
		t.Errorf("Expected role user, got %v", decoded["Role"])
	}
	if decoded["Content"] != "Test message" {
		t.Errorf("Expected content 'Test message', got %v", decoded["Content"])
	}
}
