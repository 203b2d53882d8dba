package labreport

import (
	"strings"

	"github.com/vitalab/labmarker/pkg/document"
)

// fieldMapping associates a keyword group with the Result field it fills.
// Groups are checked in declaration order and the first hit wins: a form
// field maps to at most one destination.
type fieldMapping struct {
	keywords []string
	assign   func(res *Result, value string)
}

var patientMappings = []fieldMapping{
	{[]string{"name", "patient"}, func(r *Result, v string) { r.PatientInfo.Name = v }},
	{[]string{"geboren", "birth", "geburt"}, func(r *Result, v string) { r.PatientInfo.BirthDateGender = v }},
	{[]string{"tagebuch", "diary", "nummer"}, func(r *Result, v string) { r.PatientInfo.DiaryNumber = v }},
	{[]string{"eingang", "entry", "received"}, func(r *Result, v string) { r.PatientInfo.EntryDate = v }},
	{[]string{"ausgang", "exit", "report"}, func(r *Result, v string) { r.PatientInfo.ExitDate = v }},
}

var headerMappings = []fieldMapping{
	{[]string{"direktor", "director", "leitung"}, func(r *Result, v string) { r.Header.MedicalDirector = v }},
	{[]string{"wissenschaft", "scientist"}, func(r *Result, v string) { r.Header.Scientists = v }},
	{[]string{"adresse", "address", "straße"}, func(r *Result, v string) { r.Header.Address = v }},
	{[]string{"telefon", "phone", "contact"}, func(r *Result, v string) { r.Header.Contact = v }},
	{[]string{"versicher", "insurance", "kasse"}, func(r *Result, v string) { r.Header.Insurance = v }},
	{[]string{"entnahme", "collection", "datum"}, func(r *Result, v string) { r.Header.CollectionDate = v }},
	{[]string{"uhrzeit", "time", "zeit"}, func(r *Result, v string) { r.Header.CollectionTime = v }},
}

// extractFormFields resolves every form field on every page and maps the
// ones whose names match a known keyword group into patient or header
// metadata. Unmatched fields are ignored.
func (p *Parser) extractFormFields(doc *document.Document, res *Result) error {
	for _, page := range doc.Pages {
		for _, field := range page.FormFields {
			name := field.Name.Resolve(doc.Text)
			value := field.Value.Resolve(doc.Text)
			if name == "" || value == "" {
				continue
			}
			mapFormField(name, value, res)
		}
	}
	return nil
}

// mapFormField writes the value into the first matching destination,
// patient-info groups before header groups.
func mapFormField(name, value string, res *Result) {
	folded := strings.ToLower(name)
	for _, group := range [][]fieldMapping{patientMappings, headerMappings} {
		for _, mapping := range group {
			for _, kw := range mapping.keywords {
				if strings.Contains(folded, kw) {
					mapping.assign(res, value)
					return
				}
			}
		}
	}
}
