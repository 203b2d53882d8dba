package document

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// FromProto converts a Document AI response into the neutral document model.
// Only the structures the extraction pipeline consumes are carried over:
// the text buffer, tables, form fields, and extractor entities.
func FromProto(doc *documentaipb.Document) *Document {
	if doc == nil {
		return &Document{}
	}

	out := &Document{Text: doc.Text}

	for _, page := range doc.Pages {
		p := &Page{PageNumber: int(page.PageNumber)}

		for _, table := range page.Tables {
			p.Tables = append(p.Tables, &Table{
				HeaderRows: rowsFromProto(table.HeaderRows),
				BodyRows:   rowsFromProto(table.BodyRows),
			})
		}

		for _, field := range page.FormFields {
			p.FormFields = append(p.FormFields, &FormField{
				Name:  anchorFromLayout(field.FieldName),
				Value: anchorFromLayout(field.FieldValue),
			})
		}

		out.Pages = append(out.Pages, p)
	}

	for _, entity := range doc.Entities {
		out.Entities = append(out.Entities, entityFromProto(entity))
	}

	return out
}

func rowsFromProto(rows []*documentaipb.Document_Page_Table_TableRow) []*TableRow {
	out := make([]*TableRow, 0, len(rows))
	for _, row := range rows {
		r := &TableRow{Cells: make([]*TableCell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, &TableCell{
				Anchor: anchorFromLayout(cell.Layout),
			})
		}
		out = append(out, r)
	}
	return out
}

func anchorFromLayout(layout *documentaipb.Document_Page_Layout) *TextAnchor {
	if layout == nil {
		return nil
	}
	return anchorFromProto(layout.TextAnchor)
}

func anchorFromProto(anchor *documentaipb.Document_TextAnchor) *TextAnchor {
	if anchor == nil {
		return nil
	}
	out := &TextAnchor{Content: anchor.Content}
	for _, seg := range anchor.TextSegments {
		out.Segments = append(out.Segments, TextSegment{
			StartIndex: seg.StartIndex,
			EndIndex:   seg.EndIndex,
		})
	}
	return out
}

func entityFromProto(entity *documentaipb.Document_Entity) *Entity {
	out := &Entity{
		Type:        entity.Type,
		MentionText: entity.MentionText,
		Confidence:  float64(entity.Confidence),
		Anchor:      anchorFromProto(entity.TextAnchor),
	}
	for _, prop := range entity.Properties {
		out.Properties = append(out.Properties, entityFromProto(prop))
	}
	return out
}
