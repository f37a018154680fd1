package types

// PromptRequest is the inbound body accepted by the forwarder.
type PromptRequest struct {
	// Prompt is the user text forwarded to the model. Required.
	Prompt string `json:"prompt"`

	// SystemPrompt optionally sets the model's behavioral context.
	SystemPrompt string `json:"systemPrompt,omitempty"`
}
