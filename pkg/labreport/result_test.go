package labreport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalab/labmarker/pkg/marker"
)

func mustMarker(t *testing.T, test, result, unit, ref string) *marker.Marker {
	t.Helper()
	m, err := marker.New(test, result, unit, ref)
	require.NoError(t, err)
	return m
}

func TestNewResultShape(t *testing.T) {
	res := NewResult()

	data, err := json.Marshal(res)
	require.NoError(t, err)

	// Every category key serializes as an empty list, never null.
	for _, key := range []string{
		`"hematology":[]`, `"clinical_chemistry":[]`, `"hormones":[]`,
		`"clinical_immunology":[]`, `"metals_trace_elements":[]`,
		`"micronutrients":[]`, `"quotients":[]`,
		`"omega_3_fatty_acids":[]`, `"omega_6_fatty_acids":[]`,
		`"monounsaturated_fatty_acids":[]`, `"trans_fatty_acids":[]`,
		`"saturated_fatty_acids":[]`,
		`"critical_values":[]`,
		`"validation_status":"pending"`,
	} {
		assert.Contains(t, string(data), key)
	}
	assert.NotContains(t, string(data), "processing_metadata")
}

func TestAddMarkerRouting(t *testing.T) {
	res := NewResult()

	res.AddMarker(mustMarker(t, "Hämoglobin", "14.2", "g/dl", "12-16"))
	res.AddMarker(mustMarker(t, "TSH", "2.5", "mU/l", ""))
	res.AddMarker(mustMarker(t, "CRP", "3", "mg/l", "<5"))
	res.AddMarker(mustMarker(t, "Zink", "85", "µg/dl", ""))
	res.AddMarker(mustMarker(t, "Vitamin D", "45", "ng/ml", "30-60"))
	res.AddMarker(mustMarker(t, "LDL/HDL Quotient", "2.1", "", ""))
	res.AddMarker(mustMarker(t, "Ferritin", "120", "ng/ml", "30-150"))

	assert.Len(t, res.Hematology, 1)
	assert.Len(t, res.Hormones, 1)
	assert.Len(t, res.ClinicalImmunology, 1)
	assert.Len(t, res.MetalsTraceElements, 1)
	assert.Len(t, res.Micronutrients, 1)
	assert.Len(t, res.Quotients, 1)
	assert.Len(t, res.ClinicalChemistry, 1)
	assert.Equal(t, 7, res.Stats.TotalMarkersFound)
}

func TestAddMarkerFattyAcidSubclasses(t *testing.T) {
	res := NewResult()
	for _, name := range []string{"DHA", "gamma-Linolensäure", "Nervonsäure", "Elaidinsäure", "Myristinsäure"} {
		m := mustMarker(t, name, "1", "mg/l", "")
		// Short acid names can fall into other categories on classification;
		// routing into the panel keys off the category a marker carries.
		m.Category = marker.FattyAcids
		res.AddMarker(m)
	}
	assert.Len(t, res.FattyAcids.Omega3, 1)
	assert.Len(t, res.FattyAcids.Omega6, 1)
	assert.Len(t, res.FattyAcids.Monounsaturated, 1)
	assert.Len(t, res.FattyAcids.TransFats, 1)
	assert.Len(t, res.FattyAcids.Saturated, 1)
	assert.Equal(t, "DHA", res.FattyAcids.Omega3[0].Test)
	assert.Equal(t, "gamma-Linolensäure", res.FattyAcids.Omega6[0].Test)
}

func TestAddMarkerSkipsDuplicateName(t *testing.T) {
	res := NewResult()

	res.AddMarker(mustMarker(t, "Ferritin", "120", "ng/ml", ""))
	res.AddMarker(mustMarker(t, "FERRITIN", "121", "ng/ml", ""))

	// The duplicate is not inserted, but still counts toward the total.
	assert.Len(t, res.ClinicalChemistry, 1)
	assert.Equal(t, "120", res.ClinicalChemistry[0].Result)
	assert.Equal(t, 2, res.Stats.TotalMarkersFound)
}

func TestAddMarkerRecordsCriticalValues(t *testing.T) {
	res := NewResult()

	res.AddMarker(mustMarker(t, "Ferritin", "800 **", "ng/ml", "30-150"))
	res.AddMarker(mustMarker(t, "TSH", "2.5", "mU/l", ""))

	assert.Equal(t, []string{"Ferritin"}, res.Stats.CriticalValues)
}

func TestAddMarkerNil(t *testing.T) {
	res := NewResult()
	res.AddMarker(nil)
	assert.Equal(t, 0, res.Stats.TotalMarkersFound)
}
