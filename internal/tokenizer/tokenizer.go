// Package tokenizer estimates prompt sizes in tokens.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mandalnilabja/promptproxy/internal/provider"
)

// Tokenizer counts tokens for outbound prompts.
type Tokenizer interface {
	// CountTokens counts tokens in a text string for a given model.
	CountTokens(text string, model string) (int, error)

	// CountPrompt counts tokens for a composed prompt.
	CountPrompt(p provider.Prompt, model string) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base"
	EncodingO200kBase  = "o200k_base"
)

// Per-part overhead added for role framing, an estimate shared by
// chat-style APIs.
const partOverhead = 3

// modelEncoding pairs a prefix with its encoding.
type modelEncoding struct {
	prefix   string
	encoding string
}

// modelEncodings lists model prefixes and their encodings, longest first.
var modelEncodings = []modelEncoding{
	{"gpt-4o", EncodingO200kBase}, // Must come before "gpt-4"
	{"gpt-3.5", EncodingCL100kBase},
	{"gpt-4", EncodingCL100kBase},
	{"chatgpt", EncodingO200kBase},
	{"o1", EncodingO200kBase},
	{"o3", EncodingO200kBase},
}

// TiktokenTokenizer implements Tokenizer using tiktoken-go.
// Claude models have no public tokenizer; cl100k_base is used as an estimate.
type TiktokenTokenizer struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
}

// New creates a new TiktokenTokenizer.
func New() *TiktokenTokenizer {
	return &TiktokenTokenizer{
		encodings: make(map[string]*tiktoken.Tiktoken),
	}
}

// getEncoding returns the tiktoken encoding for a model, with caching.
func (t *TiktokenTokenizer) getEncoding(model string) (*tiktoken.Tiktoken, error) {
	encodingName := t.resolveEncoding(model)

	t.mu.RLock()
	enc, ok := t.encodings[encodingName]
	t.mu.RUnlock()
	if ok {
		return enc, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if enc, ok = t.encodings[encodingName]; ok {
		return enc, nil
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	t.encodings[encodingName] = enc
	return enc, nil
}

// resolveEncoding determines the encoding name for a model.
func (t *TiktokenTokenizer) resolveEncoding(model string) string {
	modelLower := strings.ToLower(model)

	for _, me := range modelEncodings {
		if strings.HasPrefix(modelLower, me.prefix) {
			return me.encoding
		}
	}

	return EncodingCL100kBase
}

// CountTokens counts tokens in a text string for a given model.
func (t *TiktokenTokenizer) CountTokens(text string, model string) (int, error) {
	enc, err := t.getEncoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountPrompt counts the user text plus the system text when it travels separately.
func (t *TiktokenTokenizer) CountPrompt(p provider.Prompt, model string) (int, error) {
	total, err := t.CountTokens(p.User, model)
	if err != nil {
		return 0, err
	}
	total += partOverhead

	if p.System != "" {
		n, err := t.CountTokens(p.System, model)
		if err != nil {
			return 0, err
		}
		total += n + partOverhead
	}

	return total, nil
}
