package document

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protoAnchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
			{StartIndex: start, EndIndex: end},
		},
	}
}

func protoLayout(start, end int64) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{TextAnchor: protoAnchor(start, end)}
}

func TestFromProto(t *testing.T) {
	proto := &documentaipb.Document{
		Text: "Ferritin 120 ng/ml Name: Jane Doe",
		Pages: []*documentaipb.Document_Page{
			{
				PageNumber: 1,
				Tables: []*documentaipb.Document_Page_Table{
					{
						HeaderRows: []*documentaipb.Document_Page_Table_TableRow{
							{Cells: []*documentaipb.Document_Page_Table_TableCell{
								{Layout: protoLayout(0, 8)},
							}},
						},
						BodyRows: []*documentaipb.Document_Page_Table_TableRow{
							{Cells: []*documentaipb.Document_Page_Table_TableCell{
								{Layout: protoLayout(0, 8)},
								{Layout: protoLayout(9, 12)},
								{Layout: protoLayout(13, 18)},
							}},
						},
					},
				},
				FormFields: []*documentaipb.Document_Page_FormField{
					{
						FieldName:  protoLayout(19, 24),
						FieldValue: protoLayout(25, 33),
					},
				},
			},
		},
		Entities: []*documentaipb.Document_Entity{
			{
				Type:       "lab_result",
				Confidence: 0.93,
				Properties: []*documentaipb.Document_Entity{
					{Type: "test_name", MentionText: "Ferritin"},
					{Type: "result_value", MentionText: "120"},
				},
			},
		},
	}

	doc := FromProto(proto)

	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, 1, page.PageNumber)

	require.Len(t, page.Tables, 1)
	rows := page.Tables[0].ExtractRows(doc.Text)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Ferritin", "120", "ng/ml"}, rows[0])

	require.Len(t, page.FormFields, 1)
	assert.Equal(t, "Name:", page.FormFields[0].Name.Resolve(doc.Text))
	assert.Equal(t, "Jane Doe", page.FormFields[0].Value.Resolve(doc.Text))

	require.Len(t, doc.Entities, 1)
	entity := doc.Entities[0]
	assert.Equal(t, "lab_result", entity.Type)
	assert.InDelta(t, 0.93, entity.Confidence, 0.001)
	require.Len(t, entity.Properties, 2)
	assert.Equal(t, "Ferritin", entity.Properties[0].Text(doc.Text))
}

func TestFromProtoNil(t *testing.T) {
	doc := FromProto(nil)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Text)
	assert.Empty(t, doc.Pages)
}
