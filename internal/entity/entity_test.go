package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/health-summary/constants"
)

func TestExtractedData_NormalizeEncodesEmptySequences(t *testing.T) {
	d := ExtractedData{
		ExtractionQuality: constants.QualityLow,
		InputMethod:       constants.FreeText,
	}.Normalize()

	b, err := json.Marshal(d)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"diagnoses":[]`)
	assert.Contains(t, s, `"medications":[]`)
	assert.Contains(t, s, `"test_results":[]`)
	assert.Contains(t, s, `"flagged_terms":[]`)
}

func TestExtractedData_CloneIsIndependent(t *testing.T) {
	orig := ExtractedData{
		Diagnoses:   []string{"Asthma"},
		Medications: []Medication{{Name: "Albuterol", Dosage: "2 puffs"}},
	}
	cp := orig.Clone()
	cp.Diagnoses[0] = "changed"
	cp.Medications[0].Name = "changed"

	assert.Equal(t, "Asthma", orig.Diagnoses[0])
	assert.Equal(t, "Albuterol", orig.Medications[0].Name)
	assert.NotNil(t, cp.TestResults)
	assert.NotNil(t, cp.FlaggedTerms)
}

func TestActionPlan_Normalize(t *testing.T) {
	p := ActionPlan{WarningSigns: []string{"Chest pain"}}.Normalize()
	assert.Equal(t, []string{"Chest pain"}, p.WarningSigns)
	assert.NotNil(t, p.DietRecommendations)
	assert.NotNil(t, p.QuestionsForDoctor)
	assert.Empty(t, p.DailyHabits)
}
