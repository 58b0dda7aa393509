package mcp

import (
	"strconv"
	"strings"
)

// maxToolNameLen is the longest tool name the Messages API accepts.
const maxToolNameLen = 64

// NameAdapter maps MCP tool names to names matching ^[a-zA-Z0-9_-]{1,64}$ and back.
type NameAdapter struct {
	safeToOriginal map[string]string
	originalToSafe map[string]string
}

// NewNameAdapter creates an empty NameAdapter.
func NewNameAdapter() *NameAdapter {
	return &NameAdapter{
		safeToOriginal: make(map[string]string),
		originalToSafe: make(map[string]string),
	}
}

// ToSafeName replaces every character the API rejects with an underscore and
// truncates the result. Example: "gmail.messages.list" -> "gmail_messages_list".
func ToSafeName(original string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, original)
	if len(safe) > maxToolNameLen {
		safe = safe[:maxToolNameLen]
	}
	return safe
}

// GetSafeName returns the safe name for original, registering it on first use.
// Distinct originals that sanitize to the same name get a numeric suffix.
func (a *NameAdapter) GetSafeName(original string) string {
	if safe, ok := a.originalToSafe[original]; ok {
		return safe
	}

	base := ToSafeName(original)
	safe := base
	for n := 2; ; n++ {
		if _, taken := a.safeToOriginal[safe]; !taken {
			break
		}
		suffix := "_" + strconv.Itoa(n)
		if len(base)+len(suffix) > maxToolNameLen {
			safe = base[:maxToolNameLen-len(suffix)] + suffix
		} else {
			safe = base + suffix
		}
	}

	a.originalToSafe[original] = safe
	a.safeToOriginal[safe] = original
	return safe
}

// ToOriginalName returns the MCP name registered for safe.
func (a *NameAdapter) ToOriginalName(safe string) (string, bool) {
	original, ok := a.safeToOriginal[safe]
	return original, ok
}
