package constants

import (
	"fmt"
	"strings"
)

// ExtractionQuality is the extractor's coarse confidence in its own output.
type ExtractionQuality string

// Stable values (persisted in history and summary metadata).
const (
	QualityLow    ExtractionQuality = "low"
	QualityMedium ExtractionQuality = "medium"
	QualityHigh   ExtractionQuality = "high"
)

var allQualities = []ExtractionQuality{QualityLow, QualityMedium, QualityHigh}

// ParseExtractionQuality canonicalizes s. Unknown values are rejected.
func ParseExtractionQuality(s string) (ExtractionQuality, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, q := range allQualities {
		if normalized == string(q) {
			return q, nil
		}
	}
	return "", fmt.Errorf("unknown extraction quality %q", s)
}

// QualityFromCoverage maps the fraction of populated extraction fields
// (0..1) onto a quality label.
func QualityFromCoverage(coverage float64) ExtractionQuality {
	switch {
	case coverage >= 0.75:
		return QualityHigh
	case coverage >= 0.5:
		return QualityMedium
	default:
		return QualityLow
	}
}

func (q ExtractionQuality) Valid() bool {
	for _, known := range allQualities {
		if q == known {
			return true
		}
	}
	return false
}

func (q ExtractionQuality) String() string { return string(q) }

// UnmarshalText rejects unknown quality labels when decoding.
func (q *ExtractionQuality) UnmarshalText(b []byte) error {
	parsed, err := ParseExtractionQuality(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
