package providers

import (
	"encoding/json"
	"testing"
)

func TestExtractJSONBareObject(t *testing.T) {
	raw, ok := ExtractJSON(`{"hasAnomaly": true, "confidence": 82}`)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("extracted block does not parse: %v", err)
	}
	if got["confidence"].(float64) != 82 {
		t.Errorf("confidence = %v, want 82", got["confidence"])
	}
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	text := `Here is the result: {"riskLevel": "high", "warnings": ["flooding"]} Thanks for asking!`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("extracted block does not parse: %v", err)
	}
	if got["riskLevel"] != "high" {
		t.Errorf("riskLevel = %v, want high", got["riskLevel"])
	}
}

func TestExtractJSONFencedBlock(t *testing.T) {
	text := "```json\n{\"severity\": \"medium\", \"nested\": {\"a\": 1}}\n```"
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	var got struct {
		Severity string `json:"severity"`
		Nested   struct {
			A int `json:"a"`
		} `json:"nested"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("extracted block does not parse: %v", err)
	}
	if got.Severity != "medium" || got.Nested.A != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	text := `{"description": "use {curly} braces carefully", "ok": true}`
	raw, ok := ExtractJSON(text)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("extracted block does not parse: %v", err)
	}
	if got["ok"] != true {
		t.Errorf("ok = %v, want true", got["ok"])
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	for _, text := range []string{
		"",
		"no json here at all",
		"an unclosed { brace",
	} {
		if _, ok := ExtractJSON(text); ok {
			t.Errorf("text %q: expected extraction to fail", text)
		}
	}
}
