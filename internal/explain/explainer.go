// Package explain turns extracted medical fields into plain-language text.
package explain

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/knowledge"
)

const (
	defaultDosage      = "See prescription"
	medicationReminder = "Take exactly as prescribed. Call your doctor if you have questions or side effects."

	bpNormalRange  = "Normal is less than 120/80"
	a1cNormalRange = "Normal is below 5.7%. Diabetes is 6.5% or higher."

	weightMeaning     = "Your weight measurement. Track changes over time as your doctor advises."
	weightNormalRange = "Varies by height and build"
	otherMeaning      = "Ask your doctor to explain what this test result means for you."
	otherNormalRange  = "Varies"
)

const disclaimer = `⚠️ IMPORTANT DISCLAIMER:
This information is for educational purposes only and does not replace medical advice.
Always consult your healthcare provider for medical decisions, treatment plans, and
questions about your specific health conditions. If you experience emergency symptoms
like chest pain, difficulty breathing, or severe symptoms, call 911 immediately.`

// Disclaimer returns the fixed educational-use notice attached to every explanation.
func Disclaimer() string { return disclaimer }

// Explainer maps extracted items to knowledge-base text. It holds no state
// beyond its logger and is safe for concurrent use.
type Explainer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Explainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Explainer{logger: logger}
}

// ExplainAll explains every item of extracted, in input order. Lookups that
// miss degrade to generic text; this never fails.
func (e *Explainer) ExplainAll(extracted entity.ExtractedData) entity.ExplainedData {
	out := entity.ExplainedData{
		Diagnoses:          e.ExplainDiagnoses(extracted.Diagnoses),
		Medications:        e.ExplainMedications(extracted.Medications),
		Abbreviations:      e.ExplainAbbreviations(extracted.FlaggedTerms),
		TestResults:        e.ExplainTestResults(extracted.TestResults),
		Disclaimer:         Disclaimer(),
		OriginalExtraction: extracted.Clone(),
	}
	e.logger.Debug("explain.ok",
		"diagnoses", len(out.Diagnoses),
		"medications", len(out.Medications),
		"tests", len(out.TestResults),
		"abbreviations", len(out.Abbreviations))
	return out
}

func (e *Explainer) ExplainDiagnoses(diagnoses []string) []entity.ExplainedDiagnosis {
	out := make([]entity.ExplainedDiagnosis, 0, len(diagnoses))
	for _, d := range diagnoses {
		info, ok := knowledge.LookupDiagnosisOK(d)
		if !ok {
			e.logger.Debug("explain.diagnosis.miss", "diagnosis", d)
		}
		out = append(out, entity.ExplainedDiagnosis{
			Diagnosis:   d,
			SimpleName:  info.SimpleName,
			Explanation: info.Explanation,
			Analogy:     info.Analogy,
		})
	}
	return out
}

func (e *Explainer) ExplainMedications(meds []entity.Medication) []entity.ExplainedMedication {
	out := make([]entity.ExplainedMedication, 0, len(meds))
	for _, m := range meds {
		dosage := m.Dosage
		if strings.TrimSpace(dosage) == "" {
			dosage = defaultDosage
		}
		out = append(out, entity.ExplainedMedication{
			Medication: m.Name,
			Dosage:     dosage,
			WhatItDoes: knowledge.LookupMedication(m.Name),
			Reminder:   medicationReminder,
		})
	}
	return out
}

func (e *Explainer) ExplainAbbreviations(terms []string) []entity.ExplainedAbbreviation {
	out := make([]entity.ExplainedAbbreviation, 0, len(terms))
	for _, t := range terms {
		out = append(out, entity.ExplainedAbbreviation{
			Abbreviation: t,
			Meaning:      knowledge.LookupAbbreviation(t),
		})
	}
	return out
}

// ExplainTestResults dispatches on the lower-cased test name: blood
// pressure, A1C, weight, or anything else.
func (e *Explainer) ExplainTestResults(tests []entity.TestResult) []entity.ExplainedTestResult {
	out := make([]entity.ExplainedTestResult, 0, len(tests))
	for _, t := range tests {
		r := entity.ExplainedTestResult{Test: t.Test, YourValue: t.Value}
		name := strings.ToLower(t.Test)
		switch {
		case strings.Contains(name, "blood pressure"):
			r.WhatItMeans = knowledge.ClassifyBloodPressure(t.Value)
			r.NormalRange = bpNormalRange
		case strings.Contains(name, "a1c"):
			r.WhatItMeans = knowledge.ClassifyA1C(t.Value)
			r.NormalRange = a1cNormalRange
		case strings.Contains(name, "weight"):
			r.WhatItMeans = weightMeaning
			r.NormalRange = weightNormalRange
		default:
			r.WhatItMeans = otherMeaning
			r.NormalRange = otherNormalRange
		}
		out = append(out, r)
	}
	return out
}
