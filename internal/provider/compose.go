package provider

import (
	"fmt"
	"strings"
)

// PromptStyle selects how a system prompt reaches the downstream.
type PromptStyle string

const (
	// StyleInline prefixes the system prompt to the user prompt as one text.
	StyleInline PromptStyle = "inline"

	// StyleSystem keeps the system prompt as a distinct field.
	StyleSystem PromptStyle = "system"
)

// ParsePromptStyle validates a configured style name.
func ParsePromptStyle(s string) (PromptStyle, error) {
	switch style := PromptStyle(strings.ToLower(strings.TrimSpace(s))); style {
	case StyleInline, StyleSystem:
		return style, nil
	default:
		return "", fmt.Errorf("unknown prompt style %q (want %q or %q)", s, StyleInline, StyleSystem)
	}
}

// Compose builds the outbound prompt for the given style.
func Compose(style PromptStyle, system, user string) Prompt {
	if system == "" {
		return Prompt{User: user}
	}
	if style == StyleSystem {
		return Prompt{System: system, User: user}
	}
	return Prompt{User: system + "\n\n" + user}
}
