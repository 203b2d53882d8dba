package labreport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMarkerRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{"full result row", []string{"Hämoglobin", "14,2", "g/dl", "12-16"}, true},
		{"two cell row", []string{"Ferritin", "120 ng/ml"}, true},
		{"status result", []string{"Borrelien-AK", "negativ"}, true},
		{"comparator result", []string{"CRP", "<0,5"}, true},
		{"single cell", []string{"Hämoglobin"}, false},
		{"empty test", []string{"", "14,2"}, false},
		{"empty result", []string{"Hämoglobin", ""}, false},
		{"whitespace only result", []string{"Hämoglobin", "   "}, false},
		{"one rune test", []string{"A", "14,2"}, false},
		{"page header", []string{"Seite 2", "von 3"}, false},
		{"column header", []string{"Parameter", "Ergebnis"}, false},
		{"address line", []string{"Musterstraße 12", "10115"}, false},
		{"contact line", []string{"Telefon", "030 1234567"}, false},
		{"separator", []string{"----", "----"}, false},
		{"bare number test", []string{"42", "14,2"}, false},
		{"decimal number test", []string{"12,5", "14,2"}, false},
		{"article prefix", []string{"Die Werte", "14,2"}, false},
		{"entry label", []string{"Probeneingang", "01.02.2024"}, false},
		{"result without shape", []string{"Hämoglobin", "siehe Befund"}, false},
		{"test without letters", []string{"12-34", "14,2"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarkerRow(tt.row))
		})
	}
}

func TestMarkerFromRow(t *testing.T) {
	m, err := MarkerFromRow([]string{"Hämoglobin", "14,2", "g/dl", "12-16"})
	require.NoError(t, err)
	assert.Equal(t, "Hämoglobin", m.Test)
	assert.Equal(t, "14.2", m.Result)
	assert.Equal(t, "g/dl", m.Unit)
	assert.Equal(t, "12-16", m.ReferenceRange)
}

func TestMarkerFromRowRecoversEmbeddedUnit(t *testing.T) {
	// Two-column rows carry the unit at the tail of the result value.
	m, err := MarkerFromRow([]string{"Ferritin", "120 ng/ml"})
	require.NoError(t, err)
	assert.Equal(t, "120", m.Result)
	assert.Equal(t, "ng/ml", m.Unit)
}

func TestMarkerFromRowRepairsTruncatedUnit(t *testing.T) {
	m, err := MarkerFromRow([]string{"Leukozyten", "6,1", "1000/", "4-10"})
	require.NoError(t, err)
	assert.Equal(t, "1000/µl", m.Unit)
}

func TestMarkerFromRowStatusResultKeepsEmptyUnit(t *testing.T) {
	m, err := MarkerFromRow([]string{"Borrelien-AK", "negativ"})
	require.NoError(t, err)
	assert.Equal(t, "negativ", m.Result)
	assert.Empty(t, m.Unit)
}
