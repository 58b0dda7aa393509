package llm

import (
	"fmt"
)

// Validate checks the request structure locally. Clients only call it when strict
// validation is enabled; otherwise the remote service is the validator.
func (r *Request) Validate() error {
	var problems []string

	if len(r.Messages) == 0 {
		problems = append(problems, "at least one message is required")
	}
	for i, msg := range r.Messages {
		if !msg.Role.Valid() {
			problems = append(problems, fmt.Sprintf("messages[%d]: invalid role %q", i, msg.Role))
		}
		switch content := msg.Content.(type) {
		case TextContent:
		case BlockContent:
			if len(content) == 0 {
				problems = append(problems, fmt.Sprintf("messages[%d]: block content must not be empty", i))
			}
		default:
			problems = append(problems, fmt.Sprintf("messages[%d]: missing content", i))
		}
	}

	seen := make(map[string]bool, len(r.Tools))
	for i, tool := range r.Tools {
		if tool.Name == "" {
			problems = append(problems, fmt.Sprintf("tools[%d]: name is required", i))
		} else if seen[tool.Name] {
			problems = append(problems, fmt.Sprintf("tools[%d]: duplicate tool name %q", i, tool.Name))
		}
		seen[tool.Name] = true
		if err := tool.Schema.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("tools[%d] (%s): %v", i, tool.Name, err))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Validate checks that the schema describes an object and that every required
// name is a declared property.
func (s ToolSchema) Validate() error {
	if s.Type != "" && s.Type != "object" {
		return fmt.Errorf("schema type must be \"object\", got %q", s.Type)
	}
	for _, name := range s.Required {
		if _, ok := s.Properties[name]; !ok {
			return fmt.Errorf("required property %q is not declared in properties", name)
		}
	}
	return nil
}
