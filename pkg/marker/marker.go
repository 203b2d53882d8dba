// Package marker defines the blood-marker entity extracted from laboratory
// reports, together with its normalization rules, the medical category
// classifier, and unit repair for common OCR artifacts.
package marker

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Marker is a single lab test result. Test and Result are guaranteed
// non-empty after construction; a Marker is immutable once built except for
// dedup merges in the aggregation layer, which replace whole records.
type Marker struct {
	Test           string   `json:"test"`
	Result         string   `json:"result"`
	Unit           string   `json:"unit"`
	ReferenceRange string   `json:"reference_range"`
	Category       Category `json:"-"`
	Confidence     float64  `json:"confidence,omitempty"`
	Critical       bool     `json:"critical,omitempty"`
}

// ValidationError reports marker construction inputs that cannot form a
// usable record. It is always recovered locally: the offending row or match
// is skipped and extraction continues.
type ValidationError struct {
	Test   string
	Result string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid marker: test=%q result=%q", e.Test, e.Result)
}

// New builds a normalized Marker from raw extracted fields. Normalization
// collapses whitespace and strips control characters from the test name,
// converts German decimal commas in the result value, and repairs the unit.
// The marker is classified and checked for critical-value indicators.
// Construction fails with a *ValidationError when the normalized test or
// result is empty.
func New(test, result, unit, referenceRange string) (*Marker, error) {
	test = normalizeText(test)
	result = normalizeValue(result)
	if test == "" || result == "" {
		return nil, &ValidationError{Test: test, Result: result}
	}

	return &Marker{
		Test:           test,
		Result:         result,
		Unit:           NormalizeUnit(unit),
		ReferenceRange: normalizeText(referenceRange),
		Category:       Classify(test),
		Critical:       IsCritical(result, referenceRange),
	}, nil
}

// CompletenessScore weighs field presence for duplicate resolution. The
// result value counts double; it is the field a duplicate is least likely to
// recover from elsewhere.
func (m *Marker) CompletenessScore() int {
	score := 0
	if m.Test != "" {
		score++
	}
	if m.Result != "" {
		score += 2
	}
	if m.Unit != "" {
		score++
	}
	if m.ReferenceRange != "" {
		score++
	}
	return score
}

// criticalPatterns flag laboratory alarm annotations in either the result or
// the reference range.
var criticalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*+`),
	regexp.MustCompile(`(?i)kritisch`),
	regexp.MustCompile(`(?i)critical`),
	regexp.MustCompile(`(?i)alarm`),
	regexp.MustCompile(`↑↑`),
	regexp.MustCompile(`↓↓`),
	regexp.MustCompile(`(?i)sehr (hoch|niedrig)`),
	regexp.MustCompile(`(?i)very (high|low)`),
}

// IsCritical reports whether the result or reference range carries a
// critical-value annotation.
func IsCritical(result, referenceRange string) bool {
	for _, p := range criticalPatterns {
		if p.MatchString(result) || p.MatchString(referenceRange) {
			return true
		}
	}
	return false
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	germanLower   = language.German
)

// FoldName lowercases a marker name for use as a lookup or dedup key.
// German report names carry umlauts and ß, so folding goes through the
// language-aware caser rather than ASCII lowering.
func FoldName(name string) string {
	return cases.Lower(germanLower).String(strings.TrimSpace(name))
}

func normalizeText(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, s)
}

// normalizeValue trims the result and converts the German decimal comma.
func normalizeValue(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}
