package entity

import "github.com/joseph-ayodele/health-summary/constants"

// Medication is one prescribed drug as found by the extractor.
type Medication struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
}

// TestResult is one measured value as found by the extractor.
type TestResult struct {
	Test  string `json:"test"`
	Value string `json:"value"`
}

// ExtractedData is the extractor's output and the explainer's input.
// Every sequence may be empty but is never absent.
type ExtractedData struct {
	Diagnoses         []string                    `json:"diagnoses"`
	Medications       []Medication                `json:"medications"`
	TestResults       []TestResult                `json:"test_results"`
	FlaggedTerms      []string                    `json:"flagged_terms"`
	ExtractionQuality constants.ExtractionQuality `json:"extraction_quality"`
	InputMethod       constants.InputMethod       `json:"input_method"`
}

// Normalize replaces nil sequences with empty ones so the record always
// serializes with every key present.
func (d ExtractedData) Normalize() ExtractedData {
	if d.Diagnoses == nil {
		d.Diagnoses = []string{}
	}
	if d.Medications == nil {
		d.Medications = []Medication{}
	}
	if d.TestResults == nil {
		d.TestResults = []TestResult{}
	}
	if d.FlaggedTerms == nil {
		d.FlaggedTerms = []string{}
	}
	return d
}

// Clone returns a deep copy with normalized sequences.
func (d ExtractedData) Clone() ExtractedData {
	out := ExtractedData{
		Diagnoses:         append([]string{}, d.Diagnoses...),
		Medications:       append([]Medication{}, d.Medications...),
		TestResults:       append([]TestResult{}, d.TestResults...),
		FlaggedTerms:      append([]string{}, d.FlaggedTerms...),
		ExtractionQuality: d.ExtractionQuality,
		InputMethod:       d.InputMethod,
	}
	return out
}
