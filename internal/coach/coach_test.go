package coach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/explain"
)

func explained(t *testing.T, in entity.ExtractedData) entity.ExplainedData {
	t.Helper()
	return explain.New(nil).ExplainAll(in)
}

func TestGenerateActionPlan_HeartFailurePatient(t *testing.T) {
	ex := explained(t, entity.ExtractedData{
		Diagnoses: []string{"Congestive Heart Failure", "Hypertension", "Type 2 Diabetes"},
		Medications: []entity.Medication{
			{Name: "Furosemide", Dosage: "40mg"},
			{Name: "Lisinopril", Dosage: "20mg"},
			{Name: "Metformin", Dosage: "1000mg"},
		},
		TestResults: []entity.TestResult{
			{Test: "Blood Pressure", Value: "145/92"},
			{Test: "A1C", Value: "7.8%"},
		},
	})

	plan, err := NewRuleCoach(nil).GenerateActionPlan(t.Context(), ex)
	require.NoError(t, err)

	assert.Equal(t, conditionAdvice[heartFailure].diet[0], plan.DietRecommendations[0])
	assert.Contains(t, plan.DailyHabits, conditionAdvice[heartFailure].habits[0])
	assert.Contains(t, plan.DailyHabits, bpHabit)
	assert.Contains(t, plan.WarningSigns, emergencyWarning)
	assert.Contains(t, plan.MedicationReminders, "Take Furosemide (40mg) exactly as prescribed.")
	assert.Contains(t, plan.MedicationReminders, medicationReminders["metformin"])
	assert.Contains(t, plan.QuestionsForDoctor, reviewMedsQ)
	assert.Equal(t, followUpQuestion, plan.QuestionsForDoctor[len(plan.QuestionsForDoctor)-1])

	// diabetes and hypertension both contribute the same A1C/BP items once
	count := 0
	for _, q := range plan.QuestionsForDoctor {
		if q == a1cQuestion {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestGenerateActionPlan_EmptyInputStillComplete(t *testing.T) {
	plan, err := NewRuleCoach(nil).GenerateActionPlan(t.Context(), explained(t, entity.ExtractedData{}))
	require.NoError(t, err)

	assert.Equal(t, []string{generalDiet}, plan.DietRecommendations)
	assert.Equal(t, []string{generalExercise}, plan.ExerciseRecommendations)
	assert.NotNil(t, plan.DailyHabits)
	assert.NotNil(t, plan.MedicationReminders)
	assert.Equal(t, []string{emergencyWarning}, plan.WarningSigns)
	assert.Equal(t, []string{followUpQuestion}, plan.QuestionsForDoctor)
}

func TestGenerateActionPlan_UnknownDiagnosisGetsQuestion(t *testing.T) {
	plan, err := NewRuleCoach(nil).GenerateActionPlan(t.Context(), explained(t, entity.ExtractedData{
		Diagnoses: []string{"Type 2 Diabetes Mellitus", "Sarcoidosis"},
	}))
	require.NoError(t, err)
	assert.Contains(t, plan.QuestionsForDoctor, "What does Sarcoidosis mean for my daily life?")
	assert.Contains(t, plan.DietRecommendations, conditionAdvice[diabetes].diet[0])
}

func TestGenerateActionPlan_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewRuleCoach(nil).GenerateActionPlan(ctx, entity.ExplainedData{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchConditions(t *testing.T) {
	got := matchConditions([]entity.ExplainedDiagnosis{
		{Diagnosis: "CHF"},
		{Diagnosis: "Congestive heart failure, chronic"},
		{Diagnosis: "Mild persistent asthma"},
		{Diagnosis: "Unknown"},
	})
	assert.Equal(t, []condition{heartFailure, lung}, got)
}
