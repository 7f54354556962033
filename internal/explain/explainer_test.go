package explain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/knowledge"
)

func TestExplainAll_EmptyInputPassthrough(t *testing.T) {
	in := entity.ExtractedData{
		ExtractionQuality: constants.QualityLow,
		InputMethod:       constants.FreeText,
	}.Normalize()

	out := New(nil).ExplainAll(in)

	assert.Empty(t, out.Diagnoses)
	assert.Empty(t, out.Medications)
	assert.Empty(t, out.TestResults)
	assert.Empty(t, out.Abbreviations)
	assert.NotNil(t, out.Diagnoses)
	assert.NotEmpty(t, out.Disclaimer)
	assert.Equal(t, in, out.OriginalExtraction)
}

func TestExplainAll_OriginalIsSnapshot(t *testing.T) {
	in := entity.ExtractedData{Diagnoses: []string{"Asthma"}}
	out := New(nil).ExplainAll(in)
	in.Diagnoses[0] = "mutated"
	assert.Equal(t, "Asthma", out.OriginalExtraction.Diagnoses[0])
}

func TestExplainDiagnoses_KeepsOrderAndCasing(t *testing.T) {
	got := New(nil).ExplainDiagnoses([]string{"Congestive Heart Failure", "Hypertension", "Mystery Syndrome"})
	require.Len(t, got, 3)

	chf := knowledge.LookupDiagnosis("congestive heart failure")
	assert.Equal(t, "Congestive Heart Failure", got[0].Diagnosis)
	assert.Equal(t, chf.SimpleName, got[0].SimpleName)
	assert.Equal(t, chf.Analogy, got[0].Analogy)
	assert.Equal(t, "Hypertension", got[1].Diagnosis)
	assert.Equal(t, "Mystery Syndrome", got[2].SimpleName)
	assert.Empty(t, got[2].Analogy)
}

func TestExplainMedications_DefaultDosageAndReminder(t *testing.T) {
	got := New(nil).ExplainMedications([]entity.Medication{
		{Name: "Furosemide", Dosage: "40mg"},
		{Name: "Mystery Pill"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "40mg", got[0].Dosage)
	assert.Equal(t, knowledge.LookupMedication("furosemide"), got[0].WhatItDoes)
	assert.Equal(t, "See prescription", got[1].Dosage)
	for _, m := range got {
		assert.Equal(t, "Take exactly as prescribed. Call your doctor if you have questions or side effects.", m.Reminder)
	}
}

func TestExplainTestResults_Dispatch(t *testing.T) {
	got := New(nil).ExplainTestResults([]entity.TestResult{
		{Test: "Blood Pressure", Value: "145/92"},
		{Test: "A1C (Diabetes)", Value: "7.8%"},
		{Test: "Body Weight", Value: "182 lbs"},
		{Test: "Potassium", Value: "4.1"},
	})
	require.Len(t, got, 4)

	assert.Equal(t, knowledge.ClassifyBloodPressure("145/92"), got[0].WhatItMeans)
	assert.Equal(t, "Normal is less than 120/80", got[0].NormalRange)
	assert.Equal(t, "145/92", got[0].YourValue)

	assert.Contains(t, got[1].WhatItMeans, "needs improvement")
	assert.Equal(t, "Normal is below 5.7%. Diabetes is 6.5% or higher.", got[1].NormalRange)

	assert.Equal(t, "Varies by height and build", got[2].NormalRange)
	assert.Equal(t, "Varies", got[3].NormalRange)
	assert.Equal(t, "Ask your doctor to explain what this test result means for you.", got[3].WhatItMeans)
}

func TestExplainAbbreviations(t *testing.T) {
	got := New(nil).ExplainAbbreviations([]string{"CHF", "zzz"})
	require.Len(t, got, 2)
	assert.Equal(t, "Congestive Heart Failure", got[0].Meaning)
	assert.Equal(t, "zzz is a medical abbreviation. Ask your doctor what this means.", got[1].Meaning)
}

func TestFormatForDisplay(t *testing.T) {
	out := New(nil).ExplainAll(entity.ExtractedData{
		Diagnoses:    []string{"Asthma"},
		FlaggedTerms: []string{"BP"},
	})
	text := FormatForDisplay(out)

	assert.Contains(t, text, "YOUR DIAGNOSES EXPLAINED:")
	assert.Contains(t, text, "BP = Blood Pressure")
	assert.NotContains(t, text, "YOUR MEDICATIONS EXPLAINED:")
	assert.Less(t, strings.Index(text, "YOUR DIAGNOSES"), strings.Index(text, "MEDICAL TERMS"))
	assert.Contains(t, text, "IMPORTANT DISCLAIMER")
}
