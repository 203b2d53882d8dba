// Package labreport turns an OCR-processed laboratory report into a
// categorized, de-duplicated, validated set of blood markers. All extraction
// strategies run best-effort over the same shared Result; a failure in any
// one strategy is logged and swallowed so the pipeline always produces a
// well-formed response.
package labreport

import "github.com/vitalab/labmarker/pkg/marker"

// Header carries laboratory metadata recovered from form fields.
type Header struct {
	MedicalDirector string `json:"medical_director"`
	Scientists      string `json:"scientists"`
	Address         string `json:"address"`
	Contact         string `json:"contact"`
	Insurance       string `json:"insurance"`
	CollectionDate  string `json:"collection_date"`
	CollectionTime  string `json:"collection_time"`
}

// PatientInfo carries patient metadata recovered from form fields.
type PatientInfo struct {
	Name            string `json:"name"`
	DiaryNumber     string `json:"diary_number"`
	BirthDateGender string `json:"birth_date_gender"`
	EntryDate       string `json:"entry_date"`
	ExitDate        string `json:"exit_date"`
}

// FattyAcidPanel splits fatty-acid markers into their five subclasses.
type FattyAcidPanel struct {
	Omega3          []*marker.Marker `json:"omega_3_fatty_acids"`
	Omega6          []*marker.Marker `json:"omega_6_fatty_acids"`
	Monounsaturated []*marker.Marker `json:"monounsaturated_fatty_acids"`
	TransFats       []*marker.Marker `json:"trans_fatty_acids"`
	Saturated       []*marker.Marker `json:"saturated_fatty_acids"`
}

// ExtractionStats summarizes the extraction outcome. ExtractionConfidence is
// the percentage of extracted markers found in the reference catalog.
type ExtractionStats struct {
	TotalMarkersFound       int      `json:"total_markers_found"`
	MarkersWithReference    int      `json:"markers_with_reference"`
	MarkersWithoutReference int      `json:"markers_without_reference"`
	CriticalValues          []string `json:"critical_values"`
	ExtractionConfidence    float64  `json:"extraction_confidence"`
	ValidationStatus        string   `json:"validation_status"`
}

// ProcessingMetadata describes the OCR call that produced the document.
type ProcessingMetadata struct {
	ProcessingTime float64 `json:"processing_time"`
	ProcessorID    string  `json:"processor_id"`
	DocumentPages  int     `json:"document_pages"`
}

// Result is the aggregate the whole pipeline writes into. It is initialized
// empty, mutated additively by every extraction strategy, post-processed
// once, then serialized and discarded.
type Result struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	Filename string `json:"filename,omitempty"`

	Header      Header      `json:"header"`
	PatientInfo PatientInfo `json:"patient_info"`

	Hematology          []*marker.Marker `json:"hematology"`
	ClinicalChemistry   []*marker.Marker `json:"clinical_chemistry"`
	Hormones            []*marker.Marker `json:"hormones"`
	ClinicalImmunology  []*marker.Marker `json:"clinical_immunology"`
	MetalsTraceElements []*marker.Marker `json:"metals_trace_elements"`
	Micronutrients      []*marker.Marker `json:"micronutrients"`
	FattyAcids          FattyAcidPanel   `json:"fatty_acids"`
	Quotients           []*marker.Marker `json:"quotients"`

	Stats    ExtractionStats     `json:"extraction_stats"`
	Metadata *ProcessingMetadata `json:"processing_metadata,omitempty"`
}

// NewResult returns an empty Result with all lists allocated so the
// serialized form always carries every category key.
func NewResult() *Result {
	return &Result{
		Hematology:          []*marker.Marker{},
		ClinicalChemistry:   []*marker.Marker{},
		Hormones:            []*marker.Marker{},
		ClinicalImmunology:  []*marker.Marker{},
		MetalsTraceElements: []*marker.Marker{},
		Micronutrients:      []*marker.Marker{},
		FattyAcids: FattyAcidPanel{
			Omega3:          []*marker.Marker{},
			Omega6:          []*marker.Marker{},
			Monounsaturated: []*marker.Marker{},
			TransFats:       []*marker.Marker{},
			Saturated:       []*marker.Marker{},
		},
		Quotients: []*marker.Marker{},
		Stats: ExtractionStats{
			CriticalValues:   []string{},
			ValidationStatus: "pending",
		},
	}
}

// AddMarker routes a marker to its category list, with fatty acids split
// further by subclass. A marker whose folded test name already exists in the
// target list is not inserted again, but it still counts toward the total so
// confidence reflects everything the strategies recovered.
func (r *Result) AddMarker(m *marker.Marker) {
	if m == nil {
		return
	}
	if m.Critical {
		r.Stats.CriticalValues = append(r.Stats.CriticalValues, m.Test)
	}
	list := r.categoryList(m)
	if !containsTest(*list, m.Test) {
		*list = append(*list, m)
	}
	r.Stats.TotalMarkersFound++
}

// categoryList returns the list a marker belongs in.
func (r *Result) categoryList(m *marker.Marker) *[]*marker.Marker {
	if m.Category == marker.FattyAcids {
		switch marker.ClassifyFattyAcid(m.Test) {
		case marker.Omega6:
			return &r.FattyAcids.Omega6
		case marker.Monounsaturated:
			return &r.FattyAcids.Monounsaturated
		case marker.TransFats:
			return &r.FattyAcids.TransFats
		case marker.Saturated:
			return &r.FattyAcids.Saturated
		default:
			return &r.FattyAcids.Omega3
		}
	}
	switch m.Category {
	case marker.Hematology:
		return &r.Hematology
	case marker.Hormones:
		return &r.Hormones
	case marker.ClinicalImmunology:
		return &r.ClinicalImmunology
	case marker.MetalsTraceElements:
		return &r.MetalsTraceElements
	case marker.Micronutrients:
		return &r.Micronutrients
	case marker.Quotients:
		return &r.Quotients
	default:
		return &r.ClinicalChemistry
	}
}

// markerLists visits every category list including the fatty-acid panel.
// The callback receives a pointer so post-processing can replace lists.
func (r *Result) markerLists(visit func(list *[]*marker.Marker)) {
	for _, list := range []*[]*marker.Marker{
		&r.Hematology, &r.ClinicalChemistry, &r.Hormones,
		&r.ClinicalImmunology, &r.MetalsTraceElements, &r.Micronutrients,
		&r.FattyAcids.Omega3, &r.FattyAcids.Omega6,
		&r.FattyAcids.Monounsaturated, &r.FattyAcids.TransFats,
		&r.FattyAcids.Saturated,
		&r.Quotients,
	} {
		visit(list)
	}
}

func containsTest(list []*marker.Marker, test string) bool {
	folded := marker.FoldName(test)
	for _, m := range list {
		if marker.FoldName(m.Test) == folded {
			return true
		}
	}
	return false
}
