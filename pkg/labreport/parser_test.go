package labreport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalab/labmarker/pkg/document"
)

func cellRow(cells ...string) *document.TableRow {
	row := &document.TableRow{}
	for _, c := range cells {
		row.Cells = append(row.Cells, &document.TableCell{Text: c})
	}
	return row
}

func labReportDocument() *document.Document {
	return &document.Document{
		Text: "Ferritin: 120 ng/ml\n",
		Pages: []*document.Page{{
			PageNumber: 1,
			Tables: []*document.Table{{
				BodyRows: []*document.TableRow{
					cellRow("Hämoglobin", "14,2", "g/dl", "12-16"),
					cellRow("Leukozyten", "6,1", "1000/", "4-10"),
					cellRow("Seite 2", "von 3"),
				},
			}},
			FormFields: []*document.FormField{{
				Name:  &document.TextAnchor{Content: "Patient"},
				Value: &document.TextAnchor{Content: "Max Mustermann"},
			}},
		}},
		Entities: []*document.Entity{{
			Type:       "lab_result",
			Confidence: 0.95,
			Properties: []*document.Entity{
				{Type: "test_name", MentionText: "TSH"},
				{Type: "result_value", MentionText: "2,5"},
				{Type: "unit", MentionText: "mU/l"},
				{Type: "reference_range", MentionText: "0,4-4,0"},
			},
		}},
	}
}

func TestParse(t *testing.T) {
	p := NewParser(nil, nil)
	res, failures := p.Parse(labReportDocument())

	assert.Empty(t, failures)
	assert.Equal(t, 4, res.Stats.TotalMarkersFound)

	// Entity strategy.
	require.Len(t, res.Hormones, 1)
	tsh := res.Hormones[0]
	assert.Equal(t, "TSH", tsh.Test)
	assert.Equal(t, "2.5", tsh.Result)
	assert.Equal(t, "0,4-4,0", tsh.ReferenceRange)
	assert.Equal(t, 0.95, tsh.Confidence)

	// Table strategy, sorted by name; the page-header row is rejected.
	require.Len(t, res.Hematology, 2)
	assert.Equal(t, "Hämoglobin", res.Hematology[0].Test)
	assert.Equal(t, "14.2", res.Hematology[0].Result)
	assert.Equal(t, "Leukozyten", res.Hematology[1].Test)
	assert.Equal(t, "1000/µl", res.Hematology[1].Unit)

	// Pattern strategy over the flat text.
	require.Len(t, res.ClinicalChemistry, 1)
	assert.Equal(t, "Ferritin", res.ClinicalChemistry[0].Test)

	// Form-field strategy.
	assert.Equal(t, "Max Mustermann", res.PatientInfo.Name)

	// No catalog, so validation stays pending.
	assert.Equal(t, "pending", res.Stats.ValidationStatus)
}

func TestParseNilDocument(t *testing.T) {
	p := NewParser(nil, nil)
	res, failures := p.Parse(nil)

	require.NotNil(t, res)
	assert.Empty(t, failures)
	assert.Equal(t, 0, res.Stats.TotalMarkersFound)
}

func TestParseEmptyDocument(t *testing.T) {
	p := NewParser(nil, nil)
	res, failures := p.Parse(&document.Document{})

	assert.Empty(t, failures)
	assert.Equal(t, 0, res.Stats.TotalMarkersFound)
	assert.Equal(t, 0.0, res.Stats.ExtractionConfidence)
}

func TestRunStageConvertsPanic(t *testing.T) {
	p := NewParser(nil, nil)

	err := p.runStage("tables", func() error { panic("bad document shape") })
	require.Error(t, err)

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "tables", procErr.Stage)
	assert.Contains(t, procErr.Error(), "bad document shape")
}

func TestRunStageWrapsError(t *testing.T) {
	p := NewParser(nil, nil)

	cause := errors.New("boom")
	err := p.runStage("patterns", func() error { return cause })

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "patterns", procErr.Stage)
	assert.ErrorIs(t, err, cause)
}
