package extract

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/entity"
	"github.com/joseph-ayodele/health-summary/internal/knowledge"
)

type section int

const (
	sectionNone section = iota
	sectionDiagnoses
	sectionMedications
	sectionVitals
	sectionOther
)

const doseUnits = `mg|mcg|g|ml|units?|iu|puffs?|tablets?|tabs?`

var (
	reHeader    = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 /&()\-]*[A-Za-z)])\s*:\s*(.*)$`)
	reListItem  = regexp.MustCompile(`^(?:\d+[.)]|[-*])\s+(.+)$`)
	reMedLine   = regexp.MustCompile(`(?i)^([a-z][a-z\-]*(?:\s+[a-z][a-z\-]*){0,2}?)\s+(\d+(?:\.\d+)?\s*(?:` + doseUnits + `))\b`)
	reDoseNear  = regexp.MustCompile(`(?i)^\s+(\d+(?:\.\d+)?\s*(?:` + doseUnits + `))\b`)
	reGenericKV = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ()]{1,40}):\s*(.+)$`)
	reParen     = regexp.MustCompile(`\s*\([^)]*\)`)
)

// knownTest pulls one well-known reading out of a line, formatted the way the
// knowledge base classifiers expect.
type knownTest struct {
	name  string
	re    *regexp.Regexp
	value func(m []string) string
}

var knownTests = []knownTest{
	{
		name:  "Blood Pressure",
		re:    regexp.MustCompile(`(?i)\b(?:blood pressure|bp)\b\s*[:\-]?\s*(\d{2,3})\s*/\s*(\d{2,3})`),
		value: func(m []string) string { return m[1] + "/" + m[2] },
	},
	{
		name:  "A1C",
		re:    regexp.MustCompile(`(?i)\b(?:hb)?a1c\b[^0-9\n]{0,20}?(\d+(?:\.\d+)?)\s*%?`),
		value: func(m []string) string { return m[1] + "%" },
	},
	{
		name:  "Heart Rate",
		re:    regexp.MustCompile(`(?i)\b(?:heart rate|hr|pulse)\b\s*[:\-]?\s*(\d{2,3})\b`),
		value: func(m []string) string { return m[1] + " bpm" },
	},
	{
		name: "Weight",
		re:   regexp.MustCompile(`(?i)\bweight\b\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*(lbs?|pounds|kg)?\b`),
		value: func(m []string) string {
			if m[2] == "" {
				return m[1]
			}
			return m[1] + " " + strings.ToLower(m[2])
		},
	},
}

type phrase struct {
	key string
	re  *regexp.Regexp
}

// phrases compiles a whole-word matcher per key, preserving key order.
func phrases(keys []string, caseInsensitive bool) []phrase {
	flags := ""
	if caseInsensitive {
		flags = "(?i)"
	}
	out := make([]phrase, 0, len(keys))
	for _, k := range keys {
		out = append(out, phrase{key: k, re: regexp.MustCompile(flags + `\b` + regexp.QuoteMeta(k) + `\b`)})
	}
	return out
}

var (
	diagnosisPhrases    = phrases(knowledge.DiagnosisKeys(), true)
	medicationPhrases   = phrases(knowledge.MedicationNames(), true)
	abbreviationPhrases = phrases(knowledge.AbbreviationCodes(), false)
)

var _ Extractor = (*RuleExtractor)(nil)

// RuleExtractor reads the common shape of discharge summaries and
// prescription notes: uppercase section headers ending in ":", numbered or
// bulleted items, "Label: value" vitals lines. It runs offline and never fails
// on content; unrecognized text is ignored.
type RuleExtractor struct {
	logger *slog.Logger
}

func NewRuleExtractor(logger *slog.Logger) *RuleExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleExtractor{logger: logger}
}

func (r *RuleExtractor) ExtractAll(ctx context.Context, text string, inputMethod constants.InputMethod) (entity.ExtractedData, error) {
	if err := ctx.Err(); err != nil {
		return entity.ExtractedData{}, err
	}

	var (
		out       = entity.ExtractedData{InputMethod: inputMethod}.Normalize()
		seenDx    = map[string]bool{}
		seenMed   = map[string]bool{}
		seenTest  = map[string]bool{}
		sawMedSec bool
		current   = sectionNone
	)

	addDiagnosis := func(s string) {
		s = canonicalDiagnosis(cleanItem(s))
		if s == "" || seenDx[strings.ToLower(s)] {
			return
		}
		seenDx[strings.ToLower(s)] = true
		out.Diagnoses = append(out.Diagnoses, s)
	}
	addMedication := func(m entity.Medication) {
		key := strings.ToLower(m.Name)
		if m.Name == "" || seenMed[key] {
			return
		}
		seenMed[key] = true
		out.Medications = append(out.Medications, m)
	}
	addTest := func(name, value string) {
		key := strings.ToLower(name)
		if name == "" || value == "" || seenTest[key] {
			return
		}
		seenTest[key] = true
		out.TestResults = append(out.TestResults, entity.TestResult{Test: name, Value: value})
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if sec, rest, ok := parseHeader(line); ok {
			current = sec
			if sec == sectionMedications {
				sawMedSec = true
			}
			switch {
			case rest == "":
				continue
			case sec == sectionDiagnoses:
				for _, part := range strings.FieldsFunc(rest, func(r rune) bool { return r == ',' || r == ';' }) {
					addDiagnosis(part)
				}
				continue
			case sec == sectionMedications:
				line = rest
			}
		}

		matchedKnown := false
		for _, kt := range knownTests {
			if m := kt.re.FindStringSubmatch(line); m != nil {
				addTest(kt.name, kt.value(m))
				matchedKnown = true
			}
		}

		item := line
		if m := reListItem.FindStringSubmatch(line); m != nil {
			item = m[1]
		}

		switch current {
		case sectionDiagnoses:
			addDiagnosis(item)
		case sectionMedications:
			addMedication(parseMedication(item))
		case sectionVitals:
			if !matchedKnown {
				if m := reGenericKV.FindStringSubmatch(item); m != nil {
					addTest(strings.TrimSpace(m[1]), strings.TrimSpace(reParen.ReplaceAllString(m[2], "")))
				}
			}
		}
	}

	if !sawMedSec {
		for _, m := range scanKnownMedications(text) {
			addMedication(m)
		}
	}
	if len(out.Diagnoses) == 0 {
		for _, d := range scanKnownDiagnoses(text) {
			addDiagnosis(d)
		}
	}
	out.FlaggedTerms = scanAbbreviations(text)
	out.ExtractionQuality = constants.QualityFromCoverage(Coverage(out))

	r.logger.Info("extract.rules.ok",
		"input_method", inputMethod,
		"diagnoses", len(out.Diagnoses),
		"medications", len(out.Medications),
		"tests", len(out.TestResults),
		"flagged", len(out.FlaggedTerms),
		"quality", out.ExtractionQuality,
	)
	return out, nil
}

// parseHeader recognizes "DISCHARGE DIAGNOSES:" style headers and inline
// "Diagnosis: Hypertension" headers for the sections we read.
func parseHeader(line string) (section, string, bool) {
	m := reHeader.FindStringSubmatch(line)
	if m == nil {
		return sectionNone, "", false
	}
	label, rest := m[1], strings.TrimSpace(m[2])
	sec := classifySection(label)
	upper := label == strings.ToUpper(label) && len(label) >= 4
	switch {
	case rest == "" && (upper || sec != sectionOther):
		return sec, "", true
	case rest != "" && (sec == sectionDiagnoses || sec == sectionMedications):
		return sec, rest, true
	default:
		return sectionNone, "", false
	}
}

func classifySection(label string) section {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "diagnos") || strings.Contains(l, "problem list") || strings.Contains(l, "conditions"):
		return sectionDiagnoses
	case strings.Contains(l, "medication") || strings.Contains(l, "prescription") || l == "meds" || l == "rx":
		return sectionMedications
	case strings.Contains(l, "vital") || strings.Contains(l, "lab") || strings.Contains(l, "result"):
		return sectionVitals
	default:
		return sectionOther
	}
}

// cleanItem keeps the leading clinical phrase: "Hypertension, uncontrolled"
// becomes "Hypertension", "Congestive Heart Failure (CHF)" drops the
// parenthetical.
func cleanItem(s string) string {
	for _, sep := range []string{"(", ",", ";", " - ", ":"} {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
}

// canonicalDiagnosis maps "Type 2 Diabetes Mellitus" onto the longest known
// diagnosis phrase it contains, keeping the document's casing. Items that
// already match, or contain no known phrase, are returned unchanged.
func canonicalDiagnosis(s string) string {
	if s == "" {
		return ""
	}
	if _, ok := knowledge.LookupDiagnosisOK(s); ok {
		return s
	}
	for _, p := range diagnosisPhrases {
		if loc := p.re.FindStringIndex(s); loc != nil {
			return s[loc[0]:loc[1]]
		}
	}
	return s
}

func parseMedication(item string) entity.Medication {
	if m := reMedLine.FindStringSubmatch(item); m != nil {
		return entity.Medication{Name: strings.TrimSpace(m[1]), Dosage: strings.TrimSpace(m[2])}
	}
	name := item
	if i := strings.IndexAny(name, "0123456789"); i > 0 {
		name = name[:i]
	}
	return entity.Medication{Name: cleanItem(name)}
}

type positioned[T any] struct {
	at  int
	val T
}

func byPosition[T any](items []positioned[T]) []T {
	sort.SliceStable(items, func(i, j int) bool { return items[i].at < items[j].at })
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, it.val)
	}
	return out
}

// scanKnownMedications finds known drug names anywhere in free text, with an
// immediately following dose when present.
func scanKnownMedications(text string) []entity.Medication {
	var found []positioned[entity.Medication]
	for _, p := range medicationPhrases {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		med := entity.Medication{Name: text[loc[0]:loc[1]]}
		if m := reDoseNear.FindStringSubmatch(text[loc[1]:]); m != nil {
			med.Dosage = m[1]
		}
		found = append(found, positioned[entity.Medication]{at: loc[0], val: med})
	}
	return byPosition(found)
}

// scanKnownDiagnoses finds known diagnosis phrases in free text. Shorter keys
// covered by an already found longer phrase are skipped.
func scanKnownDiagnoses(text string) []string {
	var found []positioned[string]
	var taken [][2]int
	for _, p := range diagnosisPhrases {
		loc := p.re.FindStringIndex(text)
		if loc == nil || overlaps(taken, loc) {
			continue
		}
		if len(p.key) <= 4 {
			// short keys (chf, copd) only count when written as abbreviations
			if text[loc[0]:loc[1]] != strings.ToUpper(text[loc[0]:loc[1]]) {
				continue
			}
		}
		taken = append(taken, [2]int{loc[0], loc[1]})
		found = append(found, positioned[string]{at: loc[0], val: text[loc[0]:loc[1]]})
	}
	return byPosition(found)
}

func overlaps(taken [][2]int, loc []int) bool {
	for _, t := range taken {
		if loc[0] < t[1] && t[0] < loc[1] {
			return true
		}
	}
	return false
}

// scanAbbreviations lists known uppercase abbreviations in order of first
// appearance.
func scanAbbreviations(text string) []string {
	var found []positioned[string]
	for _, p := range abbreviationPhrases {
		if loc := p.re.FindStringIndex(text); loc != nil {
			found = append(found, positioned[string]{at: loc[0], val: p.key})
		}
	}
	return byPosition(found)
}

// Coverage is the fraction of the four extraction groups that hold at
// least one item.
func Coverage(d entity.ExtractedData) float64 {
	n := 0
	for _, present := range []bool{
		len(d.Diagnoses) > 0,
		len(d.Medications) > 0,
		len(d.TestResults) > 0,
		len(d.FlaggedTerms) > 0,
	} {
		if present {
			n++
		}
	}
	return float64(n) / 4
}
