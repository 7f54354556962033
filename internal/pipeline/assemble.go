package pipeline

import (
	"strings"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

const (
	defaultPatientName = "Patient"
	dateLayout         = "January 02, 2006"
	timeLayout         = "03:04 PM"
)

// Section titles.
const (
	TitleDiagnoses    = "What Your Doctor Found"
	TitleMedications  = "Your Medications Explained"
	TitleActionPlan   = "Your Action Plan"
	TitleWarningSigns = "Warning Signs - When to Get Help"
	TitleQuestions    = "Questions to Ask Your Doctor"
	TitleGlossary     = "Medical Terms Explained"
)

// AssembleFinalSummary copies the three stage outputs into the six summary
// sections. Field values are not transformed.
func (p *Pipeline) AssembleFinalSummary(
	extracted entity.ExtractedData,
	explained entity.ExplainedData,
	plan entity.ActionPlan,
	patientName string,
) entity.Summary {
	if strings.TrimSpace(patientName) == "" {
		patientName = defaultPatientName
	}
	now := timeNow()

	return entity.Summary{
		PatientName:   patientName,
		GeneratedDate: now.Format(dateLayout),
		GeneratedTime: now.Format(timeLayout),
		Section1Diagnoses: entity.DiagnosesSection{
			Title:       TitleDiagnoses,
			Diagnoses:   explained.Diagnoses,
			TestResults: explained.TestResults,
		},
		Section2Medications: entity.MedicationsSection{
			Title:       TitleMedications,
			Medications: explained.Medications,
		},
		Section3ActionPlan: entity.ActionPlanSection{
			Title:               TitleActionPlan,
			Diet:                plan.DietRecommendations,
			Exercise:            plan.ExerciseRecommendations,
			DailyHabits:         plan.DailyHabits,
			MedicationReminders: plan.MedicationReminders,
		},
		Section4WarningSigns: entity.WarningSignsSection{
			Title:        TitleWarningSigns,
			WarningSigns: plan.WarningSigns,
		},
		Section5Questions: entity.QuestionsSection{
			Title:     TitleQuestions,
			Questions: plan.QuestionsForDoctor,
		},
		Section6Glossary: entity.GlossarySection{
			Title:         TitleGlossary,
			Abbreviations: explained.Abbreviations,
		},
		Metadata: entity.SummaryMetadata{
			InputMethod:       extracted.InputMethod,
			ExtractionQuality: extracted.ExtractionQuality,
			AgentVersions:     p.cfg.AgentVersion,
		},
		Disclaimer: explained.Disclaimer,
	}
}
