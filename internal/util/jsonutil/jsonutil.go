package jsonutil

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractObject finds the first top-level JSON object in free-form model
// text. Fenced ```json blocks are preferred; otherwise the first balanced
// {...} span is taken. The caller must still deserialize against its schema:
// a balanced span is not yet a valid value.
func ExtractObject(text string) (json.RawMessage, bool) {
	if fenced, ok := fencedBlock(text); ok {
		if raw, ok := balancedObject(fenced); ok {
			return raw, true
		}
	}
	return balancedObject(text)
}

// DecodeObject extracts the first JSON object from text and unmarshals it
// into v. It reports false when no span parses as valid JSON, so callers can
// fall back without inspecting error causes.
func DecodeObject(text string, v any) bool {
	raw, ok := ExtractObject(text)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err == nil {
		return true
	}
	// The first balanced span may be a decoy (an object embedded in prose);
	// retry once from just past its opening brace.
	idx := strings.Index(text, string(raw))
	if idx < 0 {
		return false
	}
	raw, ok = balancedObject(text[idx+1:])
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	body := text[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Skip a language tag like "json".
		body = body[nl+1:]
	}
	end := strings.Index(body, "```")
	if end < 0 {
		return body, true
	}
	return body[:end], true
}

// balancedObject scans for the first '{' and returns the span through its
// matching '}', honoring string literals and escapes.
func balancedObject(text string) (json.RawMessage, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return json.RawMessage(text[start : i+1]), true
			}
		}
	}
	return nil, false
}

// MarshalNoEscape encodes v without escaping <, >, & into < etc.
// Needed when generated markup travels inside JSON event payloads.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
