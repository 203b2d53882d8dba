package labreport

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vitalab/labmarker/pkg/marker"
)

// textPatterns recover marker quadruples straight from the flat document text
// when table structure is absent or unusable. All three templates run; they
// are layout variants, not alternatives.
var textPatterns = []*regexp.Regexp{
	// name value unit (optional parenthesized reference)
	regexp.MustCompile(`(?m)^([A-Za-zäöüßÄÖÜ\s\-()]+?)\s+([\d.,<>≤≥±]+)\s+([a-zA-Zµ/%]+(?:/[a-zA-Zµ]+)?)\s*(?:\(?([\d.,\-\s<>≤≥±%]+)?\)?)?`),
	// name: value unit
	regexp.MustCompile(`(?m)^([A-Za-zäöüßÄÖÜ\s\-()]+?):\s+([\d.,<>≤≥±]+)\s+([a-zA-Zµ/%]+(?:/[a-zA-Zµ]+)?)`),
	// name <tab> value <tab> unit
	regexp.MustCompile(`(?m)^([A-Za-zäöüßÄÖÜ\s\-()]+?)\t+([\d.,<>≤≥±]+)\t+([a-zA-Zµ/%]+(?:/[a-zA-Zµ]+)?)`),
}

// knownMedicalTerms whitelist test names regardless of the blacklist; a
// whitelist hit always passes.
var knownMedicalTerms = []string{
	"vitamin", "ferritin", "calcium", "magnesium", "zink", "selen",
	"leukoz", "erythroz", "hämoglobin", "hämatokrit", "thromboz",
	"crp", "tsh", "linol", "omega", "epa", "dha",
}

// nonMedicalTerms blacklist names that are document scaffolding rather than
// lab tests.
var nonMedicalTerms = []string{
	"straße", "telefon", "email", "datum", "seite", "eingang", "ausgang",
}

// IsValidTestName reports whether a pattern-captured name plausibly refers to
// a lab test: letters present, length at least three, and either a known
// medical term (which always passes) or no blacklisted term.
func IsValidTestName(name string) bool {
	if !hasLetter.MatchString(name) || utf8.RuneCountInString(name) < 3 {
		return false
	}
	folded := strings.ToLower(name)
	for _, term := range knownMedicalTerms {
		if strings.Contains(folded, term) {
			return true
		}
	}
	for _, term := range nonMedicalTerms {
		if strings.Contains(folded, term) {
			return false
		}
	}
	return true
}

// extractPatterns runs the regex templates over the document text, building
// a marker from each first sighting of a valid test name. No row validation
// applies here; the captures already come from a structural match.
func (p *Parser) extractPatterns(fullText string, res *Result) error {
	if fullText == "" {
		return nil
	}

	seen := make(map[string]bool)
	for _, pattern := range textPatterns {
		for _, match := range pattern.FindAllStringSubmatch(fullText, -1) {
			test := strings.TrimSpace(match[1])
			if seen[test] || !IsValidTestName(test) {
				continue
			}
			reference := ""
			if len(match) > 4 {
				reference = strings.TrimSpace(match[4])
			}
			m, err := marker.New(test, strings.TrimSpace(match[2]), strings.TrimSpace(match[3]), reference)
			if err != nil {
				p.log.Debug("pattern match rejected", zap.String("test", test), zap.Error(err))
				continue
			}
			res.AddMarker(m)
			seen[test] = true
		}
	}
	return nil
}
