package ir

import (
	"encoding/json"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("hwpx")

	if doc.Format != "hwpx" {
		t.Errorf("expected format hwpx, got %s", doc.Format)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
	if doc.Styles == nil {
		t.Error("expected initialized style table")
	}
}

func TestSection_AddParagraph(t *testing.T) {
	doc := NewDocument("hwp5")
	sec := doc.AddSection(PageGeometry{Width: FromMM(210), Height: FromMM(297)})

	p := NewParagraph(0, 0)
	p.AddRun(0, "안녕하세요")
	sec.AddParagraph(p)

	if len(sec.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(sec.Blocks))
	}
	if sec.Blocks[0].Type != BlockTypeParagraph {
		t.Errorf("expected paragraph type, got %s", sec.Blocks[0].Type)
	}
	if got := sec.Blocks[0].Paragraph.Text(); got != "안녕하세요" {
		t.Errorf("expected '안녕하세요', got %s", got)
	}
}

func TestParagraph_TextWithMarkers(t *testing.T) {
	p := NewParagraph(0, 0)
	p.AddRun(0, "품목")
	p.AddMarker(0, MarkerTab)
	p.AddRun(0, "금액")
	p.AddMarker(0, MarkerLineBreak)
	p.AddRun(0, "합계")
	p.AddMarker(0, MarkerFieldStart)

	if got := p.Text(); got != "품목\t금액\n합계" {
		t.Errorf("expected '품목\\t금액\\n합계', got %q", got)
	}
}

func TestParagraph_SetTextPreservesStyleID(t *testing.T) {
	p := NewParagraph(3, 7)
	p.AddRun(2, "(입력)")

	p.SetText(5, "첫째 줄\n둘째 줄")

	if p.StyleID != 3 || p.ParaShapeID != 7 {
		t.Errorf("style ids changed: got (%d,%d)", p.StyleID, p.ParaShapeID)
	}
	if got := p.Text(); got != "첫째 줄\n둘째 줄" {
		t.Errorf("expected two lines, got %q", got)
	}
	// newline must be a marker run, not literal text
	for _, r := range p.Runs {
		if r.Marker == MarkerNone && r.Text == "\n" {
			t.Error("newline stored as literal text instead of marker")
		}
	}
}

func TestParagraph_IsEmpty(t *testing.T) {
	p := NewParagraph(0, 0)
	if !p.IsEmpty() {
		t.Error("new paragraph should be empty")
	}
	p.AddMarker(0, MarkerAnchor)
	if !p.IsEmpty() {
		t.Error("marker-only paragraph should be empty")
	}
	p.AddRun(0, "  ")
	if !p.IsEmpty() {
		t.Error("whitespace-only paragraph should be empty")
	}
	p.AddRun(0, "본문")
	if p.IsEmpty() {
		t.Error("paragraph with text should not be empty")
	}
}

func TestTable_CellAtWithSpans(t *testing.T) {
	table := &TableBlock{Rows: 2, Cols: 3}
	table.AddCell(&Cell{Row: 0, Col: 0, RowSpan: 2, ColSpan: 1})
	table.AddCell(&Cell{Row: 0, Col: 1, RowSpan: 1, ColSpan: 2})
	table.AddCell(&Cell{Row: 1, Col: 1, RowSpan: 1, ColSpan: 1})
	table.AddCell(&Cell{Row: 1, Col: 2, RowSpan: 1, ColSpan: 1})

	if err := table.Validate(); err != nil {
		t.Fatalf("valid span layout rejected: %v", err)
	}

	// (1,0) is covered by the rowspan-2 cell at (0,0)
	c := table.CellAt(1, 0)
	if c == nil || c.Row != 0 || c.Col != 0 {
		t.Errorf("expected spanned cell (0,0) at slot (1,0), got %+v", c)
	}
	// (0,2) is covered by the colspan-2 cell at (0,1)
	c = table.CellAt(0, 2)
	if c == nil || c.Col != 1 {
		t.Errorf("expected spanned cell (0,1) at slot (0,2), got %+v", c)
	}
}

func TestTable_ValidateRejectsOverlapAndGaps(t *testing.T) {
	overlap := &TableBlock{Rows: 1, Cols: 2}
	overlap.AddCell(&Cell{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2})
	overlap.AddCell(&Cell{Row: 0, Col: 1, RowSpan: 1, ColSpan: 1})
	if err := overlap.Validate(); err == nil {
		t.Error("overlapping spans not rejected")
	}

	gap := &TableBlock{Rows: 1, Cols: 2}
	gap.AddCell(&Cell{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1})
	if err := gap.Validate(); err == nil {
		t.Error("uncovered grid slot not rejected")
	}

	escape := &TableBlock{Rows: 1, Cols: 1}
	escape.AddCell(&Cell{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2})
	if err := escape.Validate(); err == nil {
		t.Error("span escaping the grid not rejected")
	}
}

func TestNewTable_FullGrid(t *testing.T) {
	table := NewTable(3, 2)
	if err := table.Validate(); err != nil {
		t.Fatalf("NewTable grid invalid: %v", err)
	}
	if len(table.Cells) != 6 {
		t.Errorf("expected 6 cells, got %d", len(table.Cells))
	}
	cell := table.CellAt(2, 1)
	if cell == nil {
		t.Fatal("missing cell at (2,1)")
	}
	if cell.FirstParagraph() == nil {
		t.Error("new cell should hold an empty paragraph")
	}
}

func TestHWPUnit_Conversions(t *testing.T) {
	// A4 width 210mm
	w := FromMM(210)
	if mm := w.MM(); mm < 209.9 || mm > 210.1 {
		t.Errorf("expected ~210mm, got %f", mm)
	}
	// height 1000 = 10pt
	if pt := HWPUnit(1000).Pt(); pt != 10.0 {
		t.Errorf("expected 10pt, got %f", pt)
	}
	if u := FromPt(10); u != 1000 {
		t.Errorf("expected 1000, got %d", u)
	}
}

func TestScaleToFit(t *testing.T) {
	w, h := ScaleToFit(2000, 1000, 1000, 1000)
	if w != 1000 || h != 500 {
		t.Errorf("expected 1000x500, got %dx%d", w, h)
	}
	// already fits: unchanged
	w, h = ScaleToFit(500, 400, 1000, 1000)
	if w != 500 || h != 400 {
		t.Errorf("expected 500x400, got %dx%d", w, h)
	}
	// no target box: unchanged
	w, h = ScaleToFit(500, 400, 0, 0)
	if w != 500 || h != 400 {
		t.Errorf("expected passthrough, got %dx%d", w, h)
	}
}

func TestStyleTable_Lookups(t *testing.T) {
	st := NewStyleTable()
	st.FaceNames = append(st.FaceNames, FaceName{Name: "함초롬바탕"})
	st.CharShapes = append(st.CharShapes, CharShape{Height: 1000})
	st.BorderFills = append(st.BorderFills, BorderFill{Shaded: true, FillColor: 0xDDDDDD})

	if name := st.FaceName(0); name != "함초롬바탕" {
		t.Errorf("expected 함초롬바탕, got %s", name)
	}
	if _, ok := st.CharShape(1); ok {
		t.Error("out-of-range char shape id resolved")
	}
	// border fills are referenced 1-based
	if bf, ok := st.BorderFill(1); !ok || !bf.Shaded {
		t.Errorf("expected shaded border fill for id 1, got %+v ok=%v", bf, ok)
	}
	if _, ok := st.BorderFill(0); ok {
		t.Error("border fill id 0 should not resolve")
	}
}

func TestNumberingScheme_RenderNumber(t *testing.T) {
	var scheme NumberingScheme
	scheme.Levels[0] = NumberLevel{Format: "^1.", Start: 1}
	scheme.Levels[1] = NumberLevel{Format: "^가.", Start: 1}

	if got := scheme.RenderNumber(1, 3); got != "3." {
		t.Errorf("expected '3.', got %q", got)
	}
	if got := scheme.RenderNumber(2, 2); got != "나." {
		t.Errorf("expected '나.', got %q", got)
	}
	// missing level falls back to decimal
	if got := scheme.RenderNumber(5, 4); got != "4." {
		t.Errorf("expected '4.', got %q", got)
	}
}

func TestDocument_JSONSerialization(t *testing.T) {
	doc := NewDocument("hwp5")
	doc.Metadata.Title = "사업계획서"
	doc.Metadata.Author = "기획팀"

	sec := doc.AddSection(PageGeometry{Width: FromMM(210), Height: FromMM(297)})
	p := NewParagraph(1, 2)
	p.AddRun(0, "제1장 개요")
	sec.AddParagraph(p)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var restored Document
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if restored.Metadata.Title != doc.Metadata.Title {
		t.Errorf("title mismatch: expected %s, got %s", doc.Metadata.Title, restored.Metadata.Title)
	}
	if len(restored.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(restored.Sections))
	}
	if got := restored.Sections[0].Blocks[0].Paragraph.Text(); got != "제1장 개요" {
		t.Errorf("expected '제1장 개요', got %s", got)
	}
}
