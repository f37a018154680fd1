// Package extract scrapes a JSON object out of free-form model output.
package extract

import (
	"encoding/json"
	"regexp"

	"github.com/valyala/fastjson"
)

// objectSpan matches from the first '{' to the last '}' in the text.
// The match is greedy on purpose: callers rely on the loose span, so output
// holding several brace fragments is parsed as one span and usually fails.
var objectSpan = regexp.MustCompile(`(?s)\{.*\}`)

var parsers fastjson.ParserPool

// JSONObject returns the compacted JSON found in text, or nil when there is
// no brace span or the span does not parse. It never reports an error.
func JSONObject(text string) json.RawMessage {
	span := objectSpan.FindString(text)
	if span == "" {
		return nil
	}

	// fastjson's parser tolerates NaN, inf and raw control characters.
	if fastjson.Validate(span) != nil {
		return nil
	}

	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.Parse(span)
	if err != nil {
		return nil
	}

	// The value is owned by the parser; copy it out before Put.
	return json.RawMessage(v.MarshalTo(nil))
}
