package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/altoai/alto-go/api"
)

// JSONAs decodes content into T. When plain decoding fails the content is
// run through automatic JSON repair and decoded once more; this recovers
// the usual model artifacts such as single quotes, unquoted keys, trailing
// commas, and truncated objects.
//
// Example:
//
//	type Weather struct {
//	    City string `json:"city"`
//	}
//	weather, err := parse.JSONAs[Weather](`{city: 'Paris'}`)
func JSONAs[T any](content string) (T, error) {
	var result T

	content = stripCodeFence(content)
	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("content is not valid JSON and could not be repaired: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to decode repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// ToolArguments decodes the accumulated argument string of a tool call.
// Argument fragments are concatenated verbatim during streaming, so the
// final string is usually, but not always, well formed JSON.
func ToolArguments[T any](call api.ToolCall) (T, error) {
	arguments := call.Function.Arguments
	if strings.TrimSpace(arguments) == "" {
		var zero T
		return zero, fmt.Errorf("tool call %q has no arguments", call.Function.Name)
	}
	result, err := JSONAs[T](arguments)
	if err != nil {
		return result, fmt.Errorf("tool call %q: %w", call.Function.Name, err)
	}
	return result, nil
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a language tag, leaving the inner content untouched.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return content
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		// Drop the language tag line.
		if !strings.ContainsAny(trimmed[:newline], "{[\"") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
