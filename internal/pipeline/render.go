package pipeline

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

const footer = "Generated by Health Summary"

var (
	divider = strings.Repeat("-", 70)
	banner  = strings.Repeat("=", 70)
)

// FormatSummaryForDisplay renders s as plain text in fixed section order.
// Action-plan groups and the glossary are omitted when empty.
func FormatSummaryForDisplay(s entity.Summary) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	section := func(title string) {
		line("")
		line("%s", divider)
		line("%s", strings.ToUpper(title))
		line("%s", divider)
	}
	numbered := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		line("")
		line("%s", heading)
		for i, item := range items {
			line("  %d. %s", i+1, item)
		}
	}

	line("%s", banner)
	line("YOUR HEALTH SUMMARY - EASY TO UNDERSTAND")
	line("%s", banner)
	line("")
	line("Patient: %s", s.PatientName)
	line("Date: %s at %s", s.GeneratedDate, s.GeneratedTime)

	s1 := s.Section1Diagnoses
	section(s1.Title)
	for _, dx := range s1.Diagnoses {
		line("")
		line("* %s (also called: %s)", dx.Diagnosis, dx.SimpleName)
		line("  %s", dx.Explanation)
		if dx.Analogy != "" {
			line("  Think of it like: %s", dx.Analogy)
		}
	}
	if len(s1.TestResults) > 0 {
		line("")
		line("YOUR TEST RESULTS:")
		for _, t := range s1.TestResults {
			line("  - %s: %s", t.Test, t.YourValue)
			line("    %s", t.WhatItMeans)
			line("    (Normal range: %s)", t.NormalRange)
		}
	}

	s2 := s.Section2Medications
	section(s2.Title)
	for _, m := range s2.Medications {
		line("")
		line("* %s (%s)", m.Medication, m.Dosage)
		line("  What it does: %s", m.WhatItDoes)
		line("  %s", m.Reminder)
	}

	s3 := s.Section3ActionPlan
	section(s3.Title)
	numbered("DIET & NUTRITION:", s3.Diet)
	numbered("EXERCISE & ACTIVITY:", s3.Exercise)
	numbered("DAILY HABITS TO TRACK:", s3.DailyHabits)
	numbered("MEDICATION REMINDERS:", s3.MedicationReminders)

	s4 := s.Section4WarningSigns
	section(s4.Title)
	for _, sign := range s4.WarningSigns {
		line("  - %s", sign)
	}

	s5 := s.Section5Questions
	section(s5.Title)
	for i, q := range s5.Questions {
		line("  %d. %s", i+1, q)
	}

	if s6 := s.Section6Glossary; len(s6.Abbreviations) > 0 {
		section(s6.Title)
		for _, a := range s6.Abbreviations {
			line("  - %s = %s", a.Abbreviation, a.Meaning)
		}
	}

	line("")
	line("%s", divider)
	line("%s", s.Disclaimer)
	line("%s", divider)
	line("")
	b.WriteString(footer)
	return b.String()
}
