package providers

import "encoding/json"

// ExtractJSON pulls the first top-level {...} block out of free text.
// Model output drifts between bare JSON, fenced JSON, and JSON embedded in
// prose; braces inside string literals are skipped so nested text does not
// break matching. Returns false when no valid object can be found, in which
// case callers fall back to a conservative default rather than failing.
func ExtractJSON(text string) (json.RawMessage, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(text); i++ {
			c := text[i]
			if escaped {
				escaped = false
				continue
			}
			switch {
			case inString && c == '\\':
				escaped = true
			case c == '"':
				inString = !inString
			case !inString && c == '{':
				depth++
			case !inString && c == '}':
				depth--
				if depth == 0 {
					candidate := text[start : i+1]
					if json.Valid([]byte(candidate)) {
						return json.RawMessage(candidate), true
					}
					// malformed block, keep scanning after its opener
					i = len(text)
				}
			}
		}
	}
	return nil, false
}
