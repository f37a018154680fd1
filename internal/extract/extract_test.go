package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // empty means nil
	}{
		{
			name: "object surrounded by prose",
			text: `ok {"a":1} trailing`,
			want: `{"a":1}`,
		},
		{
			name: "nested object",
			text: "Here you go:\n{\"user\": {\"name\": \"x\", \"tags\": [1, 2]}}\nDone.",
			want: `{"user":{"name":"x","tags":[1,2]}}`,
		},
		{
			name: "no braces",
			text: "plain answer",
		},
		{
			name: "only an opening brace",
			text: "broken { here",
		},
		{
			name: "closing before opening",
			text: "} then {",
		},
		{
			name: "greedy span covers two fragments",
			text: `first {"a":1} and second {"b":2}`,
		},
		{
			name: "stray braces in prose",
			text: `use {curly} braces then {"a":1}`,
		},
		{
			name: "multiline fenced block",
			text: "```json\n{\n  \"ok\": true\n}\n```",
			want: `{"ok":true}`,
		},
		{
			name: "empty object",
			text: "{}",
			want: `{}`,
		},
		{
			name: "empty text",
			text: "",
		},
		{
			name: "NaN literal",
			text: `score {"a": NaN} end`,
		},
		{
			name: "arithmetic in value",
			text: `x {"a": 1-2} y`,
		},
		{
			name: "raw newline inside string",
			text: "x {\"a\":\"l1\nl2\"} y",
		},
		{
			name: "infinity literal",
			text: `{"a": inf}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSONObject(tt.text)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestJSONObject_PreservesNumberText(t *testing.T) {
	got := JSONObject(`{"big": 12345678901234567890, "f": 1.50}`)
	assert.Equal(t, `{"big":12345678901234567890,"f":1.50}`, string(got))
}
