package llm

import (
	"strings"

	"github.com/joseph-ayodele/health-summary/constants"
)

// BuildSystemPrompt tells the model what to pull out of a clinical document
// and the formatting rules the sanitizer and schema expect.
func BuildSystemPrompt(req ExtractRequest) string {
	parts := []string{
		"You read medical documents (discharge summaries, prescription notes, lab reports) and return ONLY JSON that matches the provided JSON Schema.",
		"'diagnoses': each diagnosed condition as written by the clinician, one entry per condition, no explanations.",
		"'medications': objects with 'name' (drug name only) and 'dosage' (strength and frequency as written, or empty).",
		"'test_results': objects with 'test' and 'value'; keep units and blood pressure as systolic/diastolic, e.g. '142/88'.",
		"'flagged_terms': clinical abbreviations that appear in the text (BP, CHF, A1C, BID ...), uppercase, no duplicates.",
		"'extraction_quality': 'high' if the text was clean and complete, 'medium' if parts were unclear, 'low' if mostly unreadable.",
		"Do not invent findings. If a list has no entries, return an empty array. Never output null.",
	}
	if req.InputMethod == constants.PhotoOCR {
		parts = append(parts, "The text came from OCR of a photo; correct obvious character recognition errors in drug and test names.")
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the filename hint and the (truncated) document text.
func BuildUserPrompt(req ExtractRequest) string {
	max := req.MaxChars
	if max <= 0 {
		max = DefaultMaxChars
	}

	var b strings.Builder
	if filename := strings.TrimSpace(req.FilenameHint); filename != "" {
		b.WriteString("Filename: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	if req.InputMethod != "" {
		b.WriteString("Input method: ")
		b.WriteString(req.InputMethod.String())
		b.WriteString("\n")
	}
	b.WriteString("\nDocument text:\n")
	b.WriteString(Truncate(req.Text, max))
	b.WriteString("\n\nReturn ONLY JSON that matches the provided schema.")
	return b.String()
}
