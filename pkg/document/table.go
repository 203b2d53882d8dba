package document

import "strings"

// ExtractRows recovers the table's content as rows of cell strings. The three
// row shapes are probed in a fixed order (body rows alone, header rows
// followed by body rows, then the undifferentiated row list) and the first
// shape that yields at least one row with a non-empty cell wins. A table with
// no usable shape returns nil; the caller falls back to pattern extraction
// over the raw text.
func (t *Table) ExtractRows(fullText string) [][]string {
	if t == nil {
		return nil
	}

	sources := [][]*TableRow{
		t.BodyRows,
		combineRows(t.HeaderRows, t.BodyRows),
		t.Rows,
	}
	for _, source := range sources {
		if rows := collectRows(source, fullText); len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// CellText resolves a cell's text, probing the anchor, the inline text field,
// and the content field in that order. It never fails; a cell with no usable
// representation yields "".
func (c *TableCell) CellText(fullText string) string {
	if c == nil {
		return ""
	}
	if text := c.Anchor.Resolve(fullText); text != "" {
		return text
	}
	if text := strings.TrimSpace(c.Text); text != "" {
		return text
	}
	return strings.TrimSpace(c.Content)
}

func combineRows(header, body []*TableRow) []*TableRow {
	if len(header) == 0 {
		return nil
	}
	combined := make([]*TableRow, 0, len(header)+len(body))
	combined = append(combined, header...)
	combined = append(combined, body...)
	return combined
}

// collectRows resolves every cell of every row, keeping only rows that carry
// at least one non-empty cell after trimming.
func collectRows(source []*TableRow, fullText string) [][]string {
	var rows [][]string
	for _, row := range source {
		if row == nil || len(row.Cells) == 0 {
			continue
		}
		cells := make([]string, 0, len(row.Cells))
		hasContent := false
		for _, cell := range row.Cells {
			text := cell.CellText(fullText)
			if strings.TrimSpace(text) != "" {
				hasContent = true
			}
			cells = append(cells, text)
		}
		if hasContent {
			rows = append(rows, cells)
		}
	}
	return rows
}
