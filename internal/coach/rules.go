package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/knowledge"
)

var _ Coach = (*RuleCoach)(nil)

// RuleCoach assembles an action plan from fixed per-condition advice, the
// prescribed medications, and the blood pressure and A1C readings.
type RuleCoach struct {
	logger *slog.Logger
}

func NewRuleCoach(logger *slog.Logger) *RuleCoach {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleCoach{logger: logger}
}

// planBuilder accumulates recommendations without duplicates, keeping the
// order they were first added.
type planBuilder struct {
	plan entity.ActionPlan
	seen map[*[]string]map[string]bool
}

func newPlanBuilder() *planBuilder {
	return &planBuilder{plan: entity.ActionPlan{}.Normalize(), seen: map[*[]string]map[string]bool{}}
}

func (b *planBuilder) add(list *[]string, items ...string) {
	if b.seen[list] == nil {
		b.seen[list] = map[string]bool{}
	}
	for _, it := range items {
		if it == "" || b.seen[list][it] {
			continue
		}
		b.seen[list][it] = true
		*list = append(*list, it)
	}
}

func (c *RuleCoach) GenerateActionPlan(ctx context.Context, explained entity.ExplainedData) (entity.ActionPlan, error) {
	if err := ctx.Err(); err != nil {
		return entity.ActionPlan{}, err
	}

	b := newPlanBuilder()
	p := &b.plan

	groups := matchConditions(explained.Diagnoses)
	for _, g := range groups {
		a := conditionAdvice[g]
		b.add(&p.DietRecommendations, a.diet...)
		b.add(&p.ExerciseRecommendations, a.exercise...)
		b.add(&p.DailyHabits, a.habits...)
		b.add(&p.WarningSigns, a.warnings...)
		b.add(&p.QuestionsForDoctor, a.questions...)
	}
	for _, d := range explained.Diagnoses {
		if _, known := knowledge.LookupDiagnosisOK(d.Diagnosis); !known {
			b.add(&p.QuestionsForDoctor, fmt.Sprintf("What does %s mean for my daily life?", d.Diagnosis))
		}
	}

	for _, t := range explained.TestResults {
		name := strings.ToLower(t.Test)
		switch {
		case strings.Contains(name, "blood pressure"):
			switch knowledge.BloodPressureCategory(t.YourValue) {
			case knowledge.BPElevated, knowledge.BPStage1, knowledge.BPStage2:
				b.add(&p.DailyHabits, bpHabit)
			}
		case strings.Contains(name, "a1c"):
			switch knowledge.A1CBucket(t.YourValue) {
			case knowledge.A1CPrediabetes, knowledge.A1CControlled, knowledge.A1CNeedsWork, knowledge.A1CHigh:
				b.add(&p.QuestionsForDoctor, a1cQuestion)
			}
		}
	}
	if len(explained.TestResults) > 0 {
		b.add(&p.QuestionsForDoctor, testResultsQ)
	}

	for _, m := range explained.Medications {
		b.add(&p.MedicationReminders, fmt.Sprintf("Take %s (%s) exactly as prescribed.", m.Medication, m.Dosage))
		if tip, ok := medicationReminders[strings.ToLower(m.Medication)]; ok {
			b.add(&p.MedicationReminders, tip)
		}
	}
	if len(explained.Medications) > 0 {
		b.add(&p.MedicationReminders, generalReminder)
		b.add(&p.QuestionsForDoctor, sideEffectsQ)
		b.add(&p.DailyHabits, generalHabit)
	}
	if len(explained.Medications) > 2 {
		b.add(&p.QuestionsForDoctor, reviewMedsQ)
	}

	if len(p.DietRecommendations) == 0 {
		b.add(&p.DietRecommendations, generalDiet)
	}
	if len(p.ExerciseRecommendations) == 0 {
		b.add(&p.ExerciseRecommendations, generalExercise)
	}
	b.add(&p.WarningSigns, emergencyWarning)
	b.add(&p.QuestionsForDoctor, followUpQuestion)

	c.logger.Debug("coach.plan.ok",
		"conditions", len(groups),
		"diet", len(p.DietRecommendations),
		"exercise", len(p.ExerciseRecommendations),
		"questions", len(p.QuestionsForDoctor),
	)
	return *p, nil
}

// matchConditions maps diagnoses onto advice groups, first by exact phrase and
// then by substring, in diagnosis order without repeats.
func matchConditions(diagnoses []entity.ExplainedDiagnosis) []condition {
	var out []condition
	seen := map[condition]bool{}
	add := func(g condition) {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	for _, d := range diagnoses {
		name := strings.ToLower(strings.TrimSpace(d.Diagnosis))
		matched := false
		for _, ck := range conditionKeys {
			if name == ck.phrase {
				add(ck.group)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		for _, ck := range conditionKeys {
			if len(ck.phrase) > 4 && strings.Contains(name, ck.phrase) {
				add(ck.group)
				break
			}
		}
	}
	return out
}
