package labreport

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vitalab/labmarker/pkg/document"
	"github.com/vitalab/labmarker/pkg/marker"
)

// rowExclusions reject table rows whose first column is clearly not a test
// name: report headers, address and contact lines, separators, bare numbers,
// articles, and entry/exit labels.
var rowExclusions = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(seite|page|datum|date|patient|name|einheit|unit|ergebnis|result|referenz|test|parameter)`),
	regexp.MustCompile(`(?i)(straße|str\.|plz|telefon|phone|fax|email|@|www\.)`),
	regexp.MustCompile(`^[-=]+$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`(?i)^(von|to|from|der|die|das|ein|eine|für|for|with|mit)`),
	regexp.MustCompile(`(?i)(eingang|ausgang|entry|exit)$`),
	regexp.MustCompile(`^\d+[.,]\d+$`),
}

var (
	// resultShape accepts numbers, comparison operators, and status words.
	resultShape = regexp.MustCompile(`(?i)[\d.,<>≤≥±]|negativ|positiv|normal|erhöht|niedrig|high|low`)
	hasLetter   = regexp.MustCompile(`[a-zA-ZäöüßÄÖÜ]`)
)

// IsMarkerRow reports whether a raw table row plausibly holds a lab result:
// a test name of sane length containing letters and not matching any
// exclusion, and a result value shaped like a measurement or status.
func IsMarkerRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	test := trimCell(row, 0)
	result := trimCell(row, 1)
	if test == "" || result == "" {
		return false
	}
	if n := utf8.RuneCountInString(test); n < 2 || n > 200 {
		return false
	}
	for _, p := range rowExclusions {
		if p.MatchString(test) {
			return false
		}
	}
	if !resultShape.MatchString(result) {
		return false
	}
	return hasLetter.MatchString(test)
}

// MarkerFromRow builds a Marker from a validated table row. When the row has
// no unit column the unit is recovered from the tail of the result value.
func MarkerFromRow(row []string) (*marker.Marker, error) {
	test := trimCell(row, 0)
	result := trimCell(row, 1)
	unit := trimCell(row, 2)
	reference := trimCell(row, 3)

	if unit == "" && result != "" {
		if value, embedded, ok := marker.SplitTrailingUnit(result); ok {
			result = value
			unit = embedded
		}
	}
	return marker.New(test, result, unit, reference)
}

// extractTables walks every table on every page, recovers its rows through
// the shape-fallback chain, and converts valid rows into markers. Rows that
// fail validation or construction are skipped individually; one bad table
// never blocks the rest of the document.
func (p *Parser) extractTables(doc *document.Document, res *Result) error {
	for pageIdx, page := range doc.Pages {
		for tableIdx, table := range page.Tables {
			rows := table.ExtractRows(doc.Text)
			if len(rows) == 0 {
				p.log.Debug("table yielded no rows",
					zap.Int("page", pageIdx+1), zap.Int("table", tableIdx+1))
				continue
			}
			p.log.Debug("extracted table rows",
				zap.Int("page", pageIdx+1), zap.Int("table", tableIdx+1),
				zap.Int("rows", len(rows)))
			for _, row := range rows {
				if !IsMarkerRow(row) {
					continue
				}
				m, err := MarkerFromRow(row)
				if err != nil {
					p.log.Debug("skipping row", zap.Strings("row", row), zap.Error(err))
					continue
				}
				res.AddMarker(m)
			}
		}
	}
	return nil
}

func trimCell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
