package types

import "encoding/json"

// PromptResponse is the body returned when the downstream call succeeds.
type PromptResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`

	// Parsed holds the JSON object scraped from Output, or null.
	Parsed json.RawMessage `json:"parsed"`
}

// NewPromptResponse builds a successful response.
func NewPromptResponse(output string, parsed json.RawMessage) *PromptResponse {
	return &PromptResponse{
		Success: true,
		Output:  output,
		Parsed:  parsed,
	}
}
