// Package refcatalog loads the reference table of known blood markers used to
// validate extraction output. The catalog contributes only to confidence
// scoring; extraction itself never consults it, and a missing catalog file
// degrades validation to a no-op rather than failing the pipeline.
package refcatalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vitalab/labmarker/pkg/marker"
)

// Entry describes one known marker: its canonical name, expected unit, and
// the range bands from the reference sheet.
type Entry struct {
	OriginalName string
	Unit         string
	OptimalRange string
	VeryLow      string
	Low          string
	Optimal      string
	High         string
	TooHigh      string
}

// Catalog maps folded (lowercased) marker names to their reference entries.
// It is populated once at startup and never mutated afterwards, so a single
// instance is safe to share across concurrent requests.
type Catalog map[string]Entry

// Load reads the catalog from a CSV file with the reference-sheet columns
// (Markername, Unit, Optimalbereich, very low, low, optimal, high, too high).
func Load(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference catalog: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses catalog CSV data from r. Rows without a marker name are
// skipped; ragged rows are tolerated.
func Read(r io.Reader) (Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse reference catalog: %w", err)
	}
	if len(records) == 0 {
		return Catalog{}, nil
	}

	// Map header names to column positions so column order in the sheet
	// can change without breaking the loader.
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	catalog := make(Catalog, len(records)-1)
	for _, row := range records[1:] {
		name := field(row, "markername")
		if name == "" {
			continue
		}
		catalog[marker.FoldName(name)] = Entry{
			OriginalName: name,
			Unit:         field(row, "unit"),
			OptimalRange: field(row, "optimalbereich"),
			VeryLow:      field(row, "very low"),
			Low:          field(row, "low"),
			Optimal:      field(row, "optimal"),
			High:         field(row, "high"),
			TooHigh:      field(row, "too high"),
		}
	}
	return catalog, nil
}

// Lookup returns the entry for a marker name, folding the name first.
func (c Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c[marker.FoldName(name)]
	return e, ok
}
