package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/health-summary/constants"
)

var sequenceKeys = []string{"diagnoses", "medications", "test_results", "flagged_terms"}

// NormalizeAndSanitizeJSON
// - Renames known synonyms (conditions -> diagnoses, labs -> test_results)
// - Replaces null/missing sequences with []
// - Coerces bare medication strings and numeric test values
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: expected a JSON object")
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms
	renamed("conditions", "diagnoses")
	renamed("diagnosis", "diagnoses")
	renamed("meds", "medications")
	renamed("tests", "test_results")
	renamed("labs", "test_results")
	renamed("abbreviations", "flagged_terms")
	renamed("quality", "extraction_quality")

	// 2) sequences are never absent
	for _, k := range sequenceKeys {
		if _, ok := m[k].([]any); !ok {
			if m[k] != nil {
				dropped = append(dropped, k+"(type)")
			}
			m[k] = []any{}
		}
	}

	// 3) per-item cleanup
	m["diagnoses"] = cleanStrings(m["diagnoses"].([]any), false, &dropped, "diagnoses")
	m["flagged_terms"] = cleanStrings(m["flagged_terms"].([]any), true, &dropped, "flagged_terms")
	m["medications"] = cleanMedications(m["medications"].([]any), &dropped)
	m["test_results"] = cleanTests(m["test_results"].([]any), &dropped)

	if v, ok := m["extraction_quality"].(string); ok {
		q, err := constants.ParseExtractionQuality(v)
		if err != nil {
			delete(m, "extraction_quality")
			dropped = append(dropped, "extraction_quality(unknown)")
		} else {
			m["extraction_quality"] = string(q)
		}
	} else if _, present := m["extraction_quality"]; present {
		delete(m, "extraction_quality")
		dropped = append(dropped, "extraction_quality(type)")
	}

	// 4) remove unknown keys
	allowed := map[string]struct{}{
		"diagnoses": {}, "medications": {}, "test_results": {}, "flagged_terms": {},
		"extraction_quality": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func cleanStrings(items []any, upper bool, dropped *[]string, key string) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		s = strings.TrimSpace(s)
		if !ok || s == "" {
			*dropped = append(*dropped, key+"[](empty)")
			continue
		}
		if upper {
			s = strings.ToUpper(s)
		}
		out = append(out, s)
	}
	return out
}

func cleanMedications(items []any, dropped *[]string) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		switch t := it.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, map[string]any{"name": s, "dosage": ""})
				continue
			}
		case map[string]any:
			name := firstString(t, "name", "drug", "medication")
			if name != "" {
				out = append(out, map[string]any{
					"name":   name,
					"dosage": firstString(t, "dosage", "dose", "strength"),
				})
				continue
			}
		}
		*dropped = append(*dropped, "medications[](invalid)")
	}
	return out
}

func cleanTests(items []any, dropped *[]string) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			*dropped = append(*dropped, "test_results[](invalid)")
			continue
		}
		name := firstString(obj, "test", "name")
		value := firstString(obj, "value", "result")
		if name == "" || value == "" {
			*dropped = append(*dropped, "test_results[](incomplete)")
			continue
		}
		out = append(out, map[string]any{"test": name, "value": value})
	}
	return out
}

// firstString returns the first key of obj holding a non-empty string or number.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
