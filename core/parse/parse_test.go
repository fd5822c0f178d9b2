package parse

import (
	"testing"

	"github.com/altoai/alto-go/api"
)

type weatherQuery struct {
	City string `json:"city"`
	Unit string `json:"unit"`
}

// TestJSONAs_ValidJSON verifies well formed content decodes directly.
func TestJSONAs_ValidJSON(t *testing.T) {
	query, err := JSONAs[weatherQuery](`{"city":"Paris","unit":"celsius"}`)
	if err != nil {
		t.Fatalf("JSONAs failed: %v", err)
	}
	if query.City != "Paris" || query.Unit != "celsius" {
		t.Errorf("query = %+v", query)
	}
}

// TestJSONAs_RepairsModelArtifacts verifies single quotes, unquoted keys,
// and trailing commas are recovered.
func TestJSONAs_RepairsModelArtifacts(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"single quotes", `{'city': 'Paris', 'unit': 'celsius'}`},
		{"unquoted keys", `{city: "Paris", unit: "celsius"}`},
		{"trailing comma", `{"city": "Paris", "unit": "celsius",}`},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			query, err := JSONAs[weatherQuery](testCase.content)
			if err != nil {
				t.Fatalf("JSONAs failed: %v", err)
			}
			if query.City != "Paris" {
				t.Errorf("query = %+v", query)
			}
		})
	}
}

// TestJSONAs_CodeFence verifies fenced JSON decodes with and without a
// language tag.
func TestJSONAs_CodeFence(t *testing.T) {
	fenced := "```json\n{\"city\": \"Paris\"}\n```"
	query, err := JSONAs[weatherQuery](fenced)
	if err != nil {
		t.Fatalf("JSONAs failed: %v", err)
	}
	if query.City != "Paris" {
		t.Errorf("query = %+v", query)
	}
}

// TestJSONAs_MapTarget verifies decoding into a generic map.
func TestJSONAs_MapTarget(t *testing.T) {
	decoded, err := JSONAs[map[string]any](`{"a": 1, "b": [true]}`)
	if err != nil {
		t.Fatalf("JSONAs failed: %v", err)
	}
	if decoded["a"] != float64(1) {
		t.Errorf("decoded = %v", decoded)
	}
}

// TestToolArguments_Accumulated verifies an argument string built from
// stream fragments decodes into the handler's parameter struct.
func TestToolArguments_Accumulated(t *testing.T) {
	call := api.ToolCall{
		ID:   "call-1",
		Type: "function",
		Function: api.ToolCallFunction{
			Name:      "get_weather",
			Arguments: `{"city": "Berlin", "unit": "celsius"}`,
		},
	}
	query, err := ToolArguments[weatherQuery](call)
	if err != nil {
		t.Fatalf("ToolArguments failed: %v", err)
	}
	if query.City != "Berlin" {
		t.Errorf("query = %+v", query)
	}
}

// TestToolArguments_Empty verifies a call without arguments is rejected
// with the function name in the error.
func TestToolArguments_Empty(t *testing.T) {
	call := api.ToolCall{Function: api.ToolCallFunction{Name: "get_weather"}}
	if _, err := ToolArguments[weatherQuery](call); err == nil {
		t.Fatal("expected error for empty arguments")
	}
}
