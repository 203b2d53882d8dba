// Package document defines a neutral representation of an OCR-processed
// document: the flat text buffer plus the geometric structures (pages, tables,
// form fields, entities) the layout service recognized in it.
//
// The model deliberately tolerates the several shapes the upstream service has
// been observed to produce. Table rows may arrive as header rows, body rows,
// or an undifferentiated row list; cell text may be anchored into the flat
// buffer by offsets, carried inline, or duplicated into a content field.
// Every accessor probes the possible shapes in a fixed order and degrades to
// an empty result instead of failing, so a partially malformed document still
// yields whatever data it does contain.
//
// Documents are built either from a live Document AI response via FromProto
// or decoded from a serialized payload; the JSON tags mirror the wire names
// used by earlier pipeline versions.
package document

// Document is the root of an OCR result: the full text buffer and the pages
// that reference spans of it.
type Document struct {
	Text     string    `json:"text"`
	Pages    []*Page   `json:"pages,omitempty"`
	Entities []*Entity `json:"entities,omitempty"`
}

// Page holds the structures recognized on a single page.
type Page struct {
	PageNumber int          `json:"page_number,omitempty"`
	Tables     []*Table     `json:"tables,omitempty"`
	FormFields []*FormField `json:"form_fields,omitempty"`
}

// Table exposes its rows through up to three shapes. Which ones are populated
// depends on the processor version that produced the document; callers must
// go through ExtractRows rather than reading the fields directly.
type Table struct {
	HeaderRows []*TableRow `json:"header_rows,omitempty"`
	BodyRows   []*TableRow `json:"body_rows,omitempty"`

	// Rows is the undifferentiated row list emitted by older serialized
	// payloads that never split header from body.
	Rows []*TableRow `json:"rows,omitempty"`
}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	Cells []*TableCell `json:"cells,omitempty"`
}

// TableCell carries its text in one of three places: an anchor into the
// document text, an inline text field, or a content field.
type TableCell struct {
	Anchor  *TextAnchor `json:"layout,omitempty"`
	Text    string      `json:"text,omitempty"`
	Content string      `json:"content,omitempty"`
}

// FormField is a recognized key/value pair, both sides anchored into the
// document text.
type FormField struct {
	Name  *TextAnchor `json:"field_name,omitempty"`
	Value *TextAnchor `json:"field_value,omitempty"`
}

// Entity is a labeled span produced by a trained extractor processor.
// Entities nest: a top-level entity for a recognized lab result carries
// properties typed test_name, result_value, unit, reference_range.
type Entity struct {
	Type        string      `json:"type"`
	MentionText string      `json:"mention_text,omitempty"`
	Confidence  float64     `json:"confidence,omitempty"`
	Anchor      *TextAnchor `json:"text_anchor,omitempty"`
	Properties  []*Entity   `json:"properties,omitempty"`
}

// TextAnchor references a substring of the document text, either by inline
// content or by one or more (start,end) segments into the flat buffer.
type TextAnchor struct {
	Content  string        `json:"content,omitempty"`
	Segments []TextSegment `json:"text_segments,omitempty"`
}

// TextSegment is a half-open [Start,End) span of the document text, counted
// in runes.
type TextSegment struct {
	StartIndex int64 `json:"start_index"`
	EndIndex   int64 `json:"end_index"`
}
