package ocr

import (
	"regexp"
	"strings"
)

var (
	reSectionHeader = regexp.MustCompile(`(?m)^[A-Z][A-Z /&]{3,}:`)
	reVitalReading  = regexp.MustCompile(`\b\d{2,3}\s*/\s*\d{2,3}\b|\b\d+(\.\d+)?\s*%`)
	reDose          = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*(mg|mcg|ml|units?)\b`)
	reJunk          = regexp.MustCompile(`[^\w\s.,:;/%()'"+\-]`)
)

// heuristicConfidence scores decoded text by the clinical structure it shows
// (section headers, readings, doses) and penalizes symbol noise.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reSectionHeader.MatchString(txt) {
		score += 0.2
	}
	if reVitalReading.MatchString(txt) {
		score += 0.15
	}
	if reDose.MatchString(txt) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if n := len(strings.TrimSpace(txt)); n > 0 {
		junk := float32(len(reJunk.FindAllString(txt, -1))) / float32(n)
		if junk > 0.05 {
			score -= 0.2
		}
	}
	return clamp01(score)
}

// blendConfidence weights tesseract's own score higher when present.
func blendConfidence(ocr, heuristic float32) float32 {
	if ocr > 0 {
		return clamp01(0.7*ocr + 0.3*heuristic)
	}
	return clamp01(heuristic)
}

func clamp01(f float32) float32 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
