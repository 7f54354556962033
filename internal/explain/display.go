package explain

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

var rule = strings.Repeat("=", 60)

// FormatForDisplay renders the explanation alone, before any action plan
// exists. Empty groups are skipped; the disclaimer is always printed.
func FormatForDisplay(d entity.ExplainedData) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s", rule)
	line("PLAIN-LANGUAGE HEALTH EXPLANATION")
	line("%s", rule)
	line("")

	if len(d.Diagnoses) > 0 {
		line("YOUR DIAGNOSES EXPLAINED:")
		line("")
		for _, dx := range d.Diagnoses {
			line("* %s (also called: %s)", dx.Diagnosis, dx.SimpleName)
			line("   %s", dx.Explanation)
			if dx.Analogy != "" {
				line("   Think of it like: %s", dx.Analogy)
			}
			line("")
		}
	}

	if len(d.Medications) > 0 {
		line("YOUR MEDICATIONS EXPLAINED:")
		line("")
		for _, m := range d.Medications {
			line("* %s (%s)", m.Medication, m.Dosage)
			line("   What it does: %s", m.WhatItDoes)
			line("   %s", m.Reminder)
			line("")
		}
	}

	if len(d.TestResults) > 0 {
		line("YOUR TEST RESULTS EXPLAINED:")
		line("")
		for _, t := range d.TestResults {
			line("* %s: %s", t.Test, t.YourValue)
			line("   %s", t.WhatItMeans)
			line("   Normal range: %s", t.NormalRange)
			line("")
		}
	}

	if len(d.Abbreviations) > 0 {
		line("MEDICAL TERMS TRANSLATED:")
		for _, a := range d.Abbreviations {
			line("   - %s = %s", a.Abbreviation, a.Meaning)
		}
		line("")
	}

	line("%s", d.Disclaimer)
	line("")
	b.WriteString(rule)
	return b.String()
}
