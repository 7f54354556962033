package entity

// ExplainedDiagnosis keeps the diagnosis in its original casing.
type ExplainedDiagnosis struct {
	Diagnosis   string `json:"diagnosis"`
	SimpleName  string `json:"simple_name"`
	Explanation string `json:"explanation"`
	Analogy     string `json:"analogy"`
}

type ExplainedMedication struct {
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	WhatItDoes string `json:"what_it_does"`
	Reminder   string `json:"reminder"`
}

type ExplainedTestResult struct {
	Test        string `json:"test"`
	YourValue   string `json:"your_value"`
	WhatItMeans string `json:"what_it_means"`
	NormalRange string `json:"normal_range"`
}

type ExplainedAbbreviation struct {
	Abbreviation string `json:"abbreviation"`
	Meaning      string `json:"meaning"`
}

// ExplainedData is the explainer's output. OriginalExtraction is a snapshot
// copy of the input, kept for traceability.
type ExplainedData struct {
	Diagnoses          []ExplainedDiagnosis    `json:"diagnoses_explained"`
	Medications        []ExplainedMedication   `json:"medications_explained"`
	Abbreviations      []ExplainedAbbreviation `json:"abbreviations_explained"`
	TestResults        []ExplainedTestResult   `json:"test_results_explained"`
	Disclaimer         string                  `json:"disclaimer"`
	OriginalExtraction ExtractedData           `json:"original_extraction"`
}
