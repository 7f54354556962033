// Package knowledge holds the static plain-language tables and the two
// vital-sign interpreters used by the explainer. Everything here is pure:
// lookups never fail, misses degrade to generic text.
package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

const medicationFallback = "This medication was prescribed by your doctor. Ask them or your pharmacist what it's for and how to take it properly."

// LookupDiagnosis returns the stored record for name (case-insensitive
// exact match) or a generic record that repeats name verbatim.
func LookupDiagnosis(name string) DiagnosisInfo {
	info, _ := LookupDiagnosisOK(name)
	return info
}

// LookupDiagnosisOK is LookupDiagnosis that also reports whether the table matched.
func LookupDiagnosisOK(name string) (DiagnosisInfo, bool) {
	if info, ok := diagnoses[strings.ToLower(name)]; ok {
		return info, true
	}
	return DiagnosisInfo{
		SimpleName:  name,
		Explanation: fmt.Sprintf("%s is a medical condition your doctor has identified. Ask your doctor to explain what this means for you specifically.", name),
		Analogy:     "",
	}, false
}

// LookupMedication returns what the drug does, or a fallback asking the
// patient to check with their doctor or pharmacist.
func LookupMedication(name string) string {
	if desc, ok := medications[strings.ToLower(name)]; ok {
		return desc
	}
	return medicationFallback
}

// LookupAbbreviation expands a clinical abbreviation. Codes are matched
// after uppercasing.
func LookupAbbreviation(code string) string {
	if meaning, ok := abbreviations[strings.ToUpper(code)]; ok {
		return meaning
	}
	return fmt.Sprintf("%s is a medical abbreviation. Ask your doctor what this means.", code)
}

// DiagnosisKeys lists the known diagnosis keys, longest first so callers
// scanning free text prefer "type 2 diabetes" over "diabetes".
func DiagnosisKeys() []string {
	return sortedKeys(diagnoses)
}

// MedicationNames lists the known drug names, longest first.
func MedicationNames() []string {
	return sortedKeys(medications)
}

// AbbreviationCodes lists the known abbreviation codes, longest first.
func AbbreviationCodes() []string {
	return sortedKeys(abbreviations)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
