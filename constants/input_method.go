package constants

import (
	"fmt"
	"strings"
)

// InputMethod records how the source document reached the pipeline.
type InputMethod string

const (
	PhotoOCR   InputMethod = "photo_ocr"
	FreeText   InputMethod = "free_text"
	GuidedForm InputMethod = "guided_form"
)

var allInputMethods = []InputMethod{
	PhotoOCR,
	FreeText,
	GuidedForm,
}

// InputMethods returns the accepted input methods as strings.
func InputMethods() []string {
	result := make([]string, len(allInputMethods))
	for i, m := range allInputMethods {
		result[i] = string(m)
	}
	return result
}

// ParseInputMethod canonicalizes s. Unknown values are rejected.
func ParseInputMethod(s string) (InputMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	synonyms := map[string]InputMethod{
		"ocr":       PhotoOCR,
		"photo":     PhotoOCR,
		"image":     PhotoOCR,
		"text":      FreeText,
		"freetext":  FreeText,
		"form":      GuidedForm,
		"guided":    GuidedForm,
		"photo-ocr": PhotoOCR,
		"free-text": FreeText,
	}
	if m, ok := synonyms[normalized]; ok {
		return m, nil
	}
	for _, m := range allInputMethods {
		if normalized == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown input method %q (want one of %s)", s, strings.Join(InputMethods(), ", "))
}

// Valid reports whether m is one of the declared input methods.
func (m InputMethod) Valid() bool {
	for _, known := range allInputMethods {
		if m == known {
			return true
		}
	}
	return false
}

func (m InputMethod) String() string { return string(m) }

// UnmarshalText rejects unknown input methods when decoding JSON or TOML.
func (m *InputMethod) UnmarshalText(b []byte) error {
	parsed, err := ParseInputMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
