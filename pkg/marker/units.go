package marker

import (
	"regexp"
	"strings"
)

// truncatedUnits maps unit fragments the OCR layer is known to cut short to
// their full form. "op" is an OCR misread of the percent sign. The table is
// a fixed lookup extended empirically as new artifacts are observed, not a
// general repair algorithm; unmapped units pass through untouched.
var truncatedUnits = map[string]string{
	"mg/":   "mg/l",
	"µg/":   "µg/l",
	"ng/":   "ng/ml",
	"pg/":   "pg/ml",
	"mmol/": "mmol/l",
	"pmol/": "pmol/l",
	"op":    "%",
	"1000/": "1000/µl",
	"Mill/": "Mill/µl",
}

// unitMisreads restores the µ prefix OCR renders as a plain u.
var unitMisreads = map[string]string{
	"ug/l":   "µg/l",
	"ug/dl":  "µg/dl",
	"ug/ml":  "µg/ml",
	"umol/l": "µmol/l",
}

var (
	trailingUnit = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s+([a-zA-Zµ/%]+(?:/[a-zA-Zµ]+)?)$`)
	unitShaped   = regexp.MustCompile(`^[a-zA-Zµ/%]+(?:/[a-zA-Zµ]+)?$`)
)

// NormalizeUnit trims the unit, repairs known truncations, and restores
// misread µ prefixes. Unknown units are returned unchanged.
func NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return ""
	}
	if fixed, ok := truncatedUnits[unit]; ok {
		unit = fixed
	}
	if fixed, ok := unitMisreads[strings.ToLower(unit)]; ok {
		unit = fixed
	}
	return unit
}

// SplitTrailingUnit recovers a unit embedded at the end of a result value
// ("14,2 g/dl" → "14,2", "g/dl"). It first matches a number followed by a
// unit-shaped token; failing that, it peels off the last whitespace-separated
// token when it looks like a unit. ok is false when no unit can be split off.
func SplitTrailingUnit(result string) (value, unit string, ok bool) {
	result = strings.TrimSpace(result)
	if m := trailingUnit.FindStringSubmatch(result); m != nil {
		return m[1], m[2], true
	}
	parts := strings.Fields(result)
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if unitShaped.MatchString(last) {
			return strings.Join(parts[:len(parts)-1], " "), last, true
		}
	}
	return result, "", false
}
