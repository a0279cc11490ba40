package gemini

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/schemacrawl"
)

// ParseRecords parses a model response into extraction records. The model
// is asked for a JSON array of objects but responses drift, so a single
// object and an object wrapping the array under "items" or "records" are
// accepted too. Markdown code fences around the JSON are stripped.
func ParseRecords(text string) ([]schemacrawl.Record, error) {
	cleaned := stripFences(text)
	if cleaned == "" {
		return nil, nil
	}

	var records []schemacrawl.Record
	if err := json.Unmarshal([]byte(cleaned), &records); err == nil {
		return records, nil
	}

	var object map[string]any
	if err := json.Unmarshal([]byte(cleaned), &object); err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EINTERNAL, "unparseable model response: %v", err)
	}

	for _, key := range []string{"items", "records", "results", "data"} {
		wrapped, ok := object[key].([]any)
		if !ok {
			continue
		}
		for _, item := range wrapped {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, schemacrawl.Record(rec))
			}
		}
		return records, nil
	}

	return []schemacrawl.Record{schemacrawl.Record(object)}, nil
}

// ParsePatterns parses a model response into a stored schema patterns
// tree.
func ParsePatterns(text string) (map[string]any, error) {
	cleaned := stripFences(text)

	var patterns map[string]any
	if err := json.Unmarshal([]byte(cleaned), &patterns); err != nil {
		return nil, schemacrawl.Errorf(schemacrawl.EINTERNAL, "unparseable model response: %v", err)
	}
	if len(patterns) == 0 {
		return nil, schemacrawl.Errorf(schemacrawl.ENOCONTENT, "model proposed no patterns")
	}
	return patterns, nil
}

// stripFences removes a markdown code fence wrapping, if present.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
