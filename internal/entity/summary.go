package entity

import "github.com/joseph-ayodele/health-summary/constants"

type DiagnosesSection struct {
	Title       string                `json:"title"`
	Diagnoses   []ExplainedDiagnosis  `json:"diagnoses"`
	TestResults []ExplainedTestResult `json:"test_results"`
}

type MedicationsSection struct {
	Title       string                `json:"title"`
	Medications []ExplainedMedication `json:"medications"`
}

type ActionPlanSection struct {
	Title               string   `json:"title"`
	Diet                []string `json:"diet"`
	Exercise            []string `json:"exercise"`
	DailyHabits         []string `json:"daily_habits"`
	MedicationReminders []string `json:"medication_reminders"`
}

type WarningSignsSection struct {
	Title        string   `json:"title"`
	WarningSigns []string `json:"warning_signs"`
}

type QuestionsSection struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
}

type GlossarySection struct {
	Title         string                  `json:"title"`
	Abbreviations []ExplainedAbbreviation `json:"abbreviations"`
}

type SummaryMetadata struct {
	InputMethod       constants.InputMethod       `json:"input_method"`
	ExtractionQuality constants.ExtractionQuality `json:"extraction_quality"`
	AgentVersions     string                      `json:"agent_versions"`
}

// Summary is the assembled, patient-facing record. It is built once per
// processed document and not modified afterwards.
type Summary struct {
	PatientName          string              `json:"patient_name"`
	GeneratedDate        string              `json:"generated_date"`
	GeneratedTime        string              `json:"generated_time"`
	Section1Diagnoses    DiagnosesSection    `json:"section_1_diagnoses"`
	Section2Medications  MedicationsSection  `json:"section_2_medications"`
	Section3ActionPlan   ActionPlanSection   `json:"section_3_action_plan"`
	Section4WarningSigns WarningSignsSection `json:"section_4_warning_signs"`
	Section5Questions    QuestionsSection    `json:"section_5_questions"`
	Section6Glossary     GlossarySection     `json:"section_6_glossary"`
	Metadata             SummaryMetadata     `json:"metadata"`
	Disclaimer           string              `json:"disclaimer"`
}
