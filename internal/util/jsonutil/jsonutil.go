package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject is returned when a text carries no {...} span.
var ErrNoObject = errors.New("jsonutil: no JSON object in text")

// ExtractObject returns the outermost {...} span of text: from the first '{'
// to the last '}'. Prose or markdown fences around the payload are ignored.
func ExtractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", ErrNoObject
	}
	return text[start : end+1], nil
}

// MarshalNoEscape encodes v into JSON without HTML-escaping <, > and &.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent encodes v with indentation and without HTML escaping,
// so shell operators such as && survive inside manifest scripts.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalFlex tries to unmarshal raw into v with best effort:
//  1. direct unmarshal
//  2. raw is a JSON string that itself holds the object (double encoded)
func UnmarshalFlex(raw []byte, v any) error {
	err := json.Unmarshal(raw, v)
	if err == nil {
		return nil
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return err
	}
	if err2 := json.Unmarshal([]byte(s), v); err2 != nil {
		return err
	}
	return nil
}
