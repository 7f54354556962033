package llm

import "github.com/joseph-ayodele/health-summary/constants"

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the extraction record as a generic map. It is sent to the model as a
// structured output constraint and used locally to validate the reply.
func BuildExtractionJSONSchema() map[string]any {
	str := map[string]any{"type": "string"}
	props := map[string]any{
		"diagnoses": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"medications": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"name":   map[string]any{"type": "string", "minLength": 1},
					"dosage": str,
				},
				"required": []string{"name"},
			},
		},
		"test_results": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"test":  map[string]any{"type": "string", "minLength": 1},
					"value": str,
				},
				"required": []string{"test", "value"},
			},
		},
		"flagged_terms": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"extraction_quality": map[string]any{
			"type": "string",
			"enum": []string{
				string(constants.QualityLow),
				string(constants.QualityMedium),
				string(constants.QualityHigh),
			},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"diagnoses", "medications", "test_results", "flagged_terms"},
	}
}
