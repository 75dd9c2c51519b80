// Package json provides JSON extraction utilities for parsing LLM responses.
//
// Models often return JSON embedded in prose or wrapped in markdown code
// fences. This package locates and parses the JSON document inside such
// responses.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extract finds and returns the JSON portion of a response string.
// It handles the common response shapes:
// 1. Pure JSON - returned as-is
// 2. JSON wrapped in markdown code fences (```json ... ```)
// 3. A JSON object or array embedded in surrounding text
//
// Limitations: uses outermost bracket matching, not full parsing, so it
// can fail when brackets appear unbalanced inside string values.
func Extract(response string) (string, error) {
	response = stripCodeFences(response)

	var probe interface{}
	if err := json.Unmarshal([]byte(response), &probe); err == nil {
		return response, nil
	}

	if doc, ok := sliceDocument(response, '{', '}'); ok {
		return doc, nil
	}
	if doc, ok := sliceDocument(response, '[', ']'); ok {
		return doc, nil
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("no valid JSON found in response: %q", preview)
}

// Unmarshal extracts the JSON document from a response and decodes it
// into T.
func Unmarshal[T any](response string) (T, error) {
	var result T
	doc, err := Extract(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(doc), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

// UnmarshalInto extracts the JSON document from a response and decodes it
// into the provided pointer. Non-generic variant of Unmarshal.
func UnmarshalInto(response string, v interface{}) error {
	doc, err := Extract(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// sliceDocument tries the span from the first open bracket to the last
// close bracket and reports whether it parses.
func sliceDocument(response string, open, close byte) (string, bool) {
	start := strings.IndexByte(response, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(response, close)
	if end <= start {
		return "", false
	}
	doc := response[start : end+1]
	var probe interface{}
	if err := json.Unmarshal([]byte(doc), &probe); err != nil {
		return "", false
	}
	return doc, true
}

// stripCodeFences removes markdown code fence markers around a response.
// Handles ```json\n...\n``` and plain ```\n...\n```.
func stripCodeFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}
	return trimmed
}
