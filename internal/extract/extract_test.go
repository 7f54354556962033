package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/llm"
)

const dischargeSummary = `
    DISCHARGE SUMMARY
    Patient: Mary Johnson | Age: 72 | Date: November 25, 2025

    DISCHARGE DIAGNOSES:
    1. Congestive Heart Failure (CHF), acute exacerbation
    2. Hypertension, uncontrolled
    3. Type 2 Diabetes Mellitus

    VITAL SIGNS AT DISCHARGE:
    Blood Pressure: 142/88 mmHg
    Heart Rate: 78 bpm
    Weight: 198 lbs (up 12 lbs from baseline)
    A1C: 8.2%

    MEDICATIONS PRESCRIBED:
    1. Furosemide 40mg - Take one tablet by mouth once daily in the morning
    2. Lisinopril 20mg - Take one tablet by mouth once daily
    3. Metformin 1000mg - Take one tablet by mouth twice daily with meals
    4. Aspirin 81mg - Take one tablet by mouth once daily

    DISCHARGE INSTRUCTIONS:
    1. Weigh yourself every morning before breakfast and after using bathroom
    2. Call Dr. Smith if weight increases by 3 pounds in one day or 5 pounds in one week
    3. Limit sodium intake to 2000mg per day
    7. Monitor blood pressure at home daily

    CALL YOUR DOCTOR IF YOU EXPERIENCE:
    - Sudden weight gain (3+ pounds in a day)
    - Chest pain or pressure
`

func TestRuleExtractor_DischargeSummary(t *testing.T) {
	out, err := NewRuleExtractor(nil).ExtractAll(t.Context(), dischargeSummary, constants.FreeText)
	require.NoError(t, err)

	assert.Equal(t, []string{"Congestive Heart Failure", "Hypertension", "Type 2 Diabetes"}, out.Diagnoses)
	assert.Equal(t, []entity.Medication{
		{Name: "Furosemide", Dosage: "40mg"},
		{Name: "Lisinopril", Dosage: "20mg"},
		{Name: "Metformin", Dosage: "1000mg"},
		{Name: "Aspirin", Dosage: "81mg"},
	}, out.Medications)
	assert.Equal(t, []entity.TestResult{
		{Test: "Blood Pressure", Value: "142/88"},
		{Test: "Heart Rate", Value: "78 bpm"},
		{Test: "Weight", Value: "198 lbs"},
		{Test: "A1C", Value: "8.2%"},
	}, out.TestResults)
	assert.Equal(t, []string{"CHF", "A1C"}, out.FlaggedTerms)
	assert.Equal(t, constants.QualityHigh, out.ExtractionQuality)
	assert.Equal(t, constants.FreeText, out.InputMethod)
}

func TestRuleExtractor_FreeTextWithoutSections(t *testing.T) {
	text := "Pt with HTN and hypertension, on lisinopril 10 mg daily. BP 150/95 today."
	out, err := NewRuleExtractor(nil).ExtractAll(t.Context(), text, constants.GuidedForm)
	require.NoError(t, err)

	assert.Equal(t, []string{"hypertension"}, out.Diagnoses)
	require.Len(t, out.Medications, 1)
	assert.Equal(t, entity.Medication{Name: "lisinopril", Dosage: "10 mg"}, out.Medications[0])
	assert.Equal(t, []entity.TestResult{{Test: "Blood Pressure", Value: "150/95"}}, out.TestResults)
	assert.Equal(t, []string{"HTN", "BP"}, out.FlaggedTerms)
}

func TestRuleExtractor_InlineHeaders(t *testing.T) {
	text := "Diagnosis: Asthma; GERD\nRx: Albuterol 2 puffs as needed\nLab Results:\nPotassium: 4.1 mmol/L (normal)\n"
	out, err := NewRuleExtractor(nil).ExtractAll(t.Context(), text, constants.FreeText)
	require.NoError(t, err)

	assert.Equal(t, []string{"Asthma", "GERD"}, out.Diagnoses)
	assert.Equal(t, []entity.Medication{{Name: "Albuterol", Dosage: "2 puffs"}}, out.Medications)
	assert.Equal(t, []entity.TestResult{{Test: "Potassium", Value: "4.1 mmol/L"}}, out.TestResults)
}

func TestRuleExtractor_EmptyTextIsNormalized(t *testing.T) {
	out, err := NewRuleExtractor(nil).ExtractAll(t.Context(), "   ", constants.PhotoOCR)
	require.NoError(t, err)
	assert.NotNil(t, out.Diagnoses)
	assert.NotNil(t, out.Medications)
	assert.NotNil(t, out.TestResults)
	assert.NotNil(t, out.FlaggedTerms)
	assert.Equal(t, constants.QualityLow, out.ExtractionQuality)
}

func TestRuleExtractor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewRuleExtractor(nil).ExtractAll(ctx, dischargeSummary, constants.FreeText)
	assert.ErrorIs(t, err, context.Canceled)
}

type stubFields struct {
	out entity.ExtractedData
	err error
}

func (s stubFields) ExtractFields(context.Context, llm.ExtractRequest) (entity.ExtractedData, []byte, error) {
	return s.out, nil, s.err
}

func TestLLMExtractor_FillsQualityAndInputMethod(t *testing.T) {
	e := NewLLMExtractor(stubFields{out: entity.ExtractedData{Diagnoses: []string{"Asthma"}}}, nil, nil)
	out, err := e.ExtractAll(t.Context(), "x", constants.PhotoOCR)
	require.NoError(t, err)
	assert.Equal(t, constants.PhotoOCR, out.InputMethod)
	assert.Equal(t, constants.QualityLow, out.ExtractionQuality)
	assert.NotNil(t, out.Medications)
}

func TestLLMExtractor_Fallback(t *testing.T) {
	boom := errors.New("rate limited")

	_, err := NewLLMExtractor(stubFields{err: boom}, nil, nil).ExtractAll(t.Context(), dischargeSummary, constants.FreeText)
	assert.ErrorIs(t, err, boom)

	out, err := NewLLMExtractor(stubFields{err: boom}, NewRuleExtractor(nil), nil).ExtractAll(t.Context(), dischargeSummary, constants.FreeText)
	require.NoError(t, err)
	assert.Len(t, out.Diagnoses, 3)
}
