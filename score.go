package schemacrawl

import "strings"

// Score computes a confidence score in [0,1] for extracted content: the
// fraction of populated keys across all records combined. It reflects what
// was actually returned, not schema coverage, since the keys come from the
// records themselves. A vacuous population (no records, or records with no keys)
// scores 0 rather than producing an undefined ratio.
//
// Content may be a single Record or a sequence of records; other values
// score 0.
func Score(content any) float64 {
	records := asRecords(content)

	var populated, total int
	for _, rec := range records {
		for _, v := range rec {
			total++
			if isPopulated(v) {
				populated++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(populated) / float64(total)
}

// asRecords coerces content into a sequence of records. A bare mapping is
// wrapped into a one-element sequence; unrecognized values yield nil.
func asRecords(content any) []Record {
	switch v := content.(type) {
	case Record:
		return []Record{v}
	case map[string]any:
		return []Record{v}
	case []Record:
		return v
	case []map[string]any:
		records := make([]Record, len(v))
		for i, m := range v {
			records[i] = m
		}
		return records
	case []any:
		var records []Record
		for _, e := range v {
			records = append(records, asRecords(e)...)
		}
		return records
	}
	return nil
}

// isPopulated reports whether a value counts toward the score. Textual
// values must be non-empty after trimming; any other non-nil value counts.
func isPopulated(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	}
	return true
}
