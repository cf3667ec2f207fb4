package ir

import (
	"fmt"
	"strings"
)

// TableBlock is a cell grid. Cells are kept as a flat row-major list with
// explicit addresses and spans, matching how both formats store them; a
// spanned cell occupies multiple grid slots but appears once.
type TableBlock struct {
	Rows         int      `json:"rows"`
	Cols         int      `json:"cols"`
	Cells        []*Cell  `json:"cells"`
	CellSpacing  HWPUnit  `json:"cell_spacing,omitempty"`
	InnerMargins [4]HWPUnit `json:"inner_margins,omitempty"` // left, right, top, bottom
	BorderFillID int      `json:"border_fill_id,omitempty"`
}

// Cell owns a nested block sequence; cells may contain paragraphs or
// nested tables.
type Cell struct {
	Row          int     `json:"row"`
	Col          int     `json:"col"`
	RowSpan      int     `json:"row_span"`
	ColSpan      int     `json:"col_span"`
	Width        HWPUnit `json:"width,omitempty"`
	Height       HWPUnit `json:"height,omitempty"`
	BorderFillID int     `json:"border_fill_id,omitempty"`
	Blocks       []Block `json:"blocks"`
}

// NewTable creates a rows×cols table with one empty-paragraph cell per
// grid slot, each span 1×1.
func NewTable(rows, cols int) *TableBlock {
	t := &TableBlock{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]*Cell, 0, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t.Cells = append(t.Cells, &Cell{
				Row: r, Col: c, RowSpan: 1, ColSpan: 1,
				Blocks: []Block{ParagraphBlock(NewParagraph(0, 0))},
			})
		}
	}
	return t
}

// AddCell appends a cell, normalizing zero spans to 1.
func (t *TableBlock) AddCell(c *Cell) {
	if c.RowSpan < 1 {
		c.RowSpan = 1
	}
	if c.ColSpan < 1 {
		c.ColSpan = 1
	}
	t.Cells = append(t.Cells, c)
}

// CellAt returns the cell whose span covers the grid slot (row, col).
func (t *TableBlock) CellAt(row, col int) *Cell {
	for _, c := range t.Cells {
		if row >= c.Row && row < c.Row+c.RowSpan &&
			col >= c.Col && col < c.Col+c.ColSpan {
			return c
		}
	}
	return nil
}

// Validate checks the span invariant: every grid slot is covered by
// exactly one cell and no span escapes the declared dimensions.
func (t *TableBlock) Validate() error {
	if t.Rows < 1 || t.Cols < 1 {
		return fmt.Errorf("table has invalid dimensions %dx%d", t.Rows, t.Cols)
	}
	covered := make([]int, t.Rows*t.Cols)
	for _, c := range t.Cells {
		if c.Row < 0 || c.Col < 0 || c.Row+c.RowSpan > t.Rows || c.Col+c.ColSpan > t.Cols {
			return fmt.Errorf("cell (%d,%d) span %dx%d escapes %dx%d grid",
				c.Row, c.Col, c.RowSpan, c.ColSpan, t.Rows, t.Cols)
		}
		for r := c.Row; r < c.Row+c.RowSpan; r++ {
			for cc := c.Col; cc < c.Col+c.ColSpan; cc++ {
				covered[r*t.Cols+cc]++
			}
		}
	}
	for i, n := range covered {
		if n == 0 {
			return fmt.Errorf("grid slot (%d,%d) is not covered by any cell", i/t.Cols, i%t.Cols)
		}
		if n > 1 {
			return fmt.Errorf("grid slot (%d,%d) is covered by %d overlapping cells", i/t.Cols, i%t.Cols, n)
		}
	}
	return nil
}

// Text returns the table content as tab-separated rows, one line per row.
func (t *TableBlock) Text() string {
	var sb strings.Builder
	for r := 0; r < t.Rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < t.Cols; c++ {
			if c > 0 {
				sb.WriteByte('\t')
			}
			if cell := t.CellAt(r, c); cell != nil {
				sb.WriteString(cell.Text())
			}
		}
	}
	return sb.String()
}

// Text returns the concatenated text of the cell's blocks, one line each.
func (c *Cell) Text() string {
	parts := make([]string, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		if txt := b.Text(); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n")
}

// FirstParagraph returns the cell's first paragraph block, nil if none.
func (c *Cell) FirstParagraph() *Paragraph {
	for _, b := range c.Blocks {
		if b.Type == BlockTypeParagraph && b.Paragraph != nil {
			return b.Paragraph
		}
	}
	return nil
}
