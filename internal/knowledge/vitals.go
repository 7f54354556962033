package knowledge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BPCategory is the systolic blood-pressure stage.
type BPCategory string

const (
	BPNormal   BPCategory = "normal"
	BPElevated BPCategory = "elevated"
	BPStage1   BPCategory = "stage_1"
	BPStage2   BPCategory = "stage_2"
	BPUnknown  BPCategory = "unknown"
)

// A1CCategory is the A1C percentage bucket.
type A1CCategory string

const (
	A1CNormal      A1CCategory = "normal"
	A1CPrediabetes A1CCategory = "prediabetes"
	A1CControlled  A1CCategory = "fairly_controlled"
	A1CNeedsWork   A1CCategory = "needs_improvement"
	A1CHigh        A1CCategory = "high"
	A1CUnknown     A1CCategory = "unknown"
)

var bpMessages = map[BPCategory]string{
	BPNormal:   "Your blood pressure is in the normal range. Keep up the good work!",
	BPElevated: "Your blood pressure is slightly elevated. Lifestyle changes can help bring it down.",
	BPStage1:   "Your blood pressure is in the 'high' range (Stage 1). Your doctor may recommend medication and lifestyle changes.",
	BPStage2:   "Your blood pressure is significantly elevated (Stage 2). Follow your doctor's treatment plan closely.",
	BPUnknown:  "Blood pressure measurement recorded. Discuss with your doctor.",
}

var a1cMessages = map[A1CCategory]string{
	A1CNormal:      "Your blood sugar control is normal. Great job!",
	A1CPrediabetes: "You're in the 'prediabetes' range. Lifestyle changes can help prevent diabetes.",
	A1CControlled:  "Your diabetes is fairly well controlled, but there's room for improvement.",
	A1CNeedsWork:   "Your diabetes control needs improvement. Work with your doctor to adjust your plan.",
	A1CHigh:        "Your blood sugar has been quite high. It's important to work closely with your doctor.",
	A1CUnknown:     "A1C test result recorded. This shows your average blood sugar over the past 3 months.",
}

var errEmptyReading = errors.New("empty reading")

// ParseSystolic returns the integer before the first "/" of a reading such
// as "145/92". A value with no "/" is parsed whole. Digit runs too long for
// an int saturate at the int bounds.
func ParseSystolic(value string) (int, error) {
	head, _, _ := strings.Cut(value, "/")
	head = strings.TrimSpace(head)
	if head == "" {
		return 0, errEmptyReading
	}
	n, err := strconv.Atoi(head)
	if errors.Is(err, strconv.ErrRange) {
		return n, nil
	}
	if err != nil {
		return 0, fmt.Errorf("parse systolic %q: %w", value, err)
	}
	return n, nil
}

// ParseA1C strips "%" signs and parses the remainder as a decimal.
func ParseA1C(value string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(value, "%", ""))
	if s == "" {
		return 0, errEmptyReading
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse a1c %q: %w", value, err)
	}
	return f, nil
}

// BloodPressureCategory stages a reading by its systolic number. Cutoffs
// are exclusive upper bounds: 119 normal, 120 elevated, 130 stage 1, 140 stage 2.
func BloodPressureCategory(value string) BPCategory {
	systolic, err := ParseSystolic(value)
	if err != nil {
		return BPUnknown
	}
	switch {
	case systolic < 120:
		return BPNormal
	case systolic < 130:
		return BPElevated
	case systolic < 140:
		return BPStage1
	default:
		return BPStage2
	}
}

// A1CBucket buckets an A1C percentage. Cutoffs are exclusive upper bounds
// at 5.7, 6.5, 7.0 and 8.0.
func A1CBucket(value string) A1CCategory {
	pct, err := ParseA1C(value)
	if err != nil {
		return A1CUnknown
	}
	switch {
	case pct < 5.7:
		return A1CNormal
	case pct < 6.5:
		return A1CPrediabetes
	case pct < 7.0:
		return A1CControlled
	case pct < 8.0:
		return A1CNeedsWork
	default:
		return A1CHigh
	}
}

// ClassifyBloodPressure returns patient-facing text for a reading. Malformed
// readings get a neutral fallback; this never fails.
func ClassifyBloodPressure(value string) string {
	return bpMessages[BloodPressureCategory(value)]
}

// ClassifyA1C returns patient-facing text for an A1C value. Malformed values
// get a neutral fallback; this never fails.
func ClassifyA1C(value string) string {
	return a1cMessages[A1CBucket(value)]
}
