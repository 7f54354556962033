package ocr

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-=|]{3,}\s*$`)
	reBulletGlyp = regexp.MustCompile(`(?m)^(\s*)[•·▪●]\s*`)
)

// Normalize collapses noisy whitespace and strips ruler lines. Line breaks
// are kept since the rule-based extractor reads documents line by line.
// Leading indentation is dropped.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	s = reBulletGlyp.ReplaceAllString(s, "$1- ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = reMultiSpace.ReplaceAllString(strings.TrimSpace(lines[i]), " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
