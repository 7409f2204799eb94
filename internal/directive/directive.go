// Package directive extracts structured JSON objects from raw model output.
//
// Every pipeline stage that asks the model for structured output decodes it
// through this package. The contract is that decoding never fails loudly:
// a stage that cannot understand its own model's reply falls back to the
// caller's zero/default value and the turn proceeds.
package directive

import (
	"encoding/json"
	"strings"
)

// Decode parses a model response expected to contain a single JSON object,
// tolerating an optional fenced code block around it. On success the object
// is unmarshalled into v and Decode returns true. On any failure v is left
// untouched and Decode returns false.
func Decode(raw string, v any) bool {
	s := StripFence(raw)
	if s == "" || s[0] != '{' {
		return false
	}
	return json.Unmarshal([]byte(s), v) == nil
}

// StripFence removes a surrounding markdown code fence and an optional
// language tag, returning the trimmed inner text. Input without a fence is
// returned trimmed.
func StripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}
