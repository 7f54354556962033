package entity

// ActionPlan is the coach's output. All six lists are always present.
type ActionPlan struct {
	DietRecommendations     []string `json:"diet_recommendations"`
	ExerciseRecommendations []string `json:"exercise_recommendations"`
	DailyHabits             []string `json:"daily_habits"`
	MedicationReminders     []string `json:"medication_reminders"`
	WarningSigns            []string `json:"warning_signs"`
	QuestionsForDoctor      []string `json:"questions_for_doctor"`
}

// Normalize replaces nil lists with empty ones.
func (p ActionPlan) Normalize() ActionPlan {
	for _, l := range []*[]string{
		&p.DietRecommendations,
		&p.ExerciseRecommendations,
		&p.DailyHabits,
		&p.MedicationReminders,
		&p.WarningSigns,
		&p.QuestionsForDoctor,
	} {
		if *l == nil {
			*l = []string{}
		}
	}
	return p
}
