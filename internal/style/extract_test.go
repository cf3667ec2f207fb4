package style

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// profileDoc builds a small report-shaped document: centered title,
// larger subtitle, body text with one numbered heading, and a 2x2 table
// with a bold shaded header row.
func profileDoc() *ir.Document {
	doc := ir.NewDocument("hwpx")
	doc.Metadata.Source = "/tmp/검사계획서.hwpx"

	st := doc.Styles
	st.FaceNames = append(st.FaceNames,
		ir.FaceName{Name: "바탕"},
		ir.FaceName{Name: "맑은 고딕"},
	)
	st.CharShapes = append(st.CharShapes,
		ir.CharShape{Height: 1000},                                   // 0: 본문 10pt
		ir.CharShape{Height: 1800, Bold: true, FaceIDs: [7]int{1, 1, 1, 1, 1, 1, 1}}, // 1: 제목 18pt
		ir.CharShape{Height: 1300},                                   // 2: 부제목 13pt
		ir.CharShape{Height: 1000, Bold: true},                       // 3: 표 머리글
	)
	st.ParaShapes = append(st.ParaShapes,
		ir.ParaShape{Align: ir.AlignJustify, LineSpacing: 160, LineSpacingKind: ir.LineSpacingPercent},
		ir.ParaShape{Align: ir.AlignCenter, LineSpacing: 160, LineSpacingKind: ir.LineSpacingPercent},
		ir.ParaShape{Align: ir.AlignJustify, LineSpacing: 160, LineSpacingKind: ir.LineSpacingPercent,
			HeadingKind: 2, NumberingID: 1},
	)
	st.Styles = append(st.Styles,
		ir.Style{Name: "바탕글", EngName: "Normal"},
		ir.Style{Name: "제목", EngName: "Title", CharShapeID: 1, ParaShapeID: 1},
		ir.Style{Name: "부제목", EngName: "Subtitle", CharShapeID: 2},
		ir.Style{Name: "표 머리글", EngName: "Table Head", CharShapeID: 3, ParaShapeID: 1},
		ir.Style{Name: "표 내용", EngName: "Table Body"},
	)
	st.BorderFills = append(st.BorderFills, ir.BorderFill{Shaded: true, FillColor: 0xD9D9D9})
	var num ir.NumberingScheme
	num.Levels[0] = ir.NumberLevel{Format: "^1.", Start: 1}
	num.Levels[1] = ir.NumberLevel{Format: "^2)", Start: 1}
	st.Numberings = append(st.Numberings, num)

	sec := doc.AddSection(ir.PageGeometry{
		Width: 59528, Height: 84188,
		MarginLeft: 8504, MarginRight: 8504,
		MarginTop: 5668, MarginBottom: 4252,
	})

	title := ir.NewParagraph(1, 1)
	title.AddRun(1, "통합 검사 계획서")
	sec.AddParagraph(title)

	subtitle := ir.NewParagraph(2, 0)
	subtitle.AddRun(2, "2026년 상반기")
	sec.AddParagraph(subtitle)

	heading := ir.NewParagraph(0, 2)
	heading.AddRun(0, "1. 개요")
	sec.AddParagraph(heading)

	for _, txt := range []string{"첫째 문단.", "둘째 문단.", "셋째 문단."} {
		p := ir.NewParagraph(0, 0)
		p.AddRun(0, txt)
		sec.AddParagraph(p)
	}

	tbl := &ir.TableBlock{Rows: 2, Cols: 2}
	add := func(row, col, styleID, charID, borderFill int, txt string) {
		p := ir.NewParagraph(styleID, 0)
		p.AddRun(charID, txt)
		tbl.Cells = append(tbl.Cells, &ir.Cell{
			Row: row, Col: col, RowSpan: 1, ColSpan: 1,
			BorderFillID: borderFill,
			Blocks:       []ir.Block{ir.ParagraphBlock(p)},
		})
	}
	add(0, 0, 3, 3, 1, "항목")
	add(0, 1, 3, 3, 1, "수량")
	add(1, 0, 4, 0, 0, "볼트")
	add(1, 1, 4, 0, 0, "100")
	sec.AddTable(tbl)

	return doc
}

func TestExtract_Roles(t *testing.T) {
	p := Extract(profileDoc(), DefaultThresholds())

	checks := []struct {
		role    Role
		styleID int
		charID  int
		sizePt  float64
		bold    bool
	}{
		{RoleTitle, 1, 1, 18.0, true},
		{RoleSubtitle, 2, 2, 13.0, false},
		{RoleBody, 0, 0, 10.0, false},
		{RoleTableHeader, 3, 3, 10.0, true},
		{RoleTableCell, 4, 0, 10.0, false},
	}
	for _, c := range checks {
		rs := p.Role(c.role)
		if rs == nil {
			t.Errorf("Expected role %s, got none", c.role)
			continue
		}
		if rs.StyleID != c.styleID {
			t.Errorf("%s: expected style id %d, got %d", c.role, c.styleID, rs.StyleID)
		}
		if rs.CharShapeID != c.charID {
			t.Errorf("%s: expected char shape %d, got %d", c.role, c.charID, rs.CharShapeID)
		}
		if rs.FontSize != c.sizePt {
			t.Errorf("%s: expected %gpt, got %g", c.role, c.sizePt, rs.FontSize)
		}
		if rs.Bold != c.bold {
			t.Errorf("%s: expected bold=%v, got %v", c.role, c.bold, rs.Bold)
		}
	}

	if got := p.Role(RoleTitle).FontFamily; got != "맑은 고딕" {
		t.Errorf("Expected title font 맑은 고딕, got %q", got)
	}
	if got := p.Role(RoleTitle).Align; got != string(ir.AlignCenter) {
		t.Errorf("Expected centered title, got %q", got)
	}
	if got := p.Role(RoleBody).LineSpacing; got != 160 {
		t.Errorf("Expected line spacing 160, got %d", got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	doc := profileDoc()
	a := Extract(doc, DefaultThresholds())
	b := Extract(doc, DefaultThresholds())
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected identical profiles from identical input")
	}

	ja, err := a.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	jb, err := b.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !bytes.Equal(ja, jb) {
		t.Error("Expected identical JSON bytes")
	}
}

func TestExtract_PageGeometry(t *testing.T) {
	p := Extract(profileDoc(), DefaultThresholds())
	info := p.DocumentInfo

	if info.Source != "검사계획서.hwpx" {
		t.Errorf("Expected source 검사계획서.hwpx, got %q", info.Source)
	}
	if info.Format != "hwpx" {
		t.Errorf("Expected format hwpx, got %q", info.Format)
	}
	// A4: 59528u = 210.0mm, 84188u = 297.0mm
	if info.PageWidthMM != 210.0 {
		t.Errorf("Expected width 210.0mm, got %g", info.PageWidthMM)
	}
	if info.PageHeightMM != 297.0 {
		t.Errorf("Expected height 297.0mm, got %g", info.PageHeightMM)
	}
	if info.Margins.Left != 30.0 || info.Margins.Top != 20.0 || info.Margins.Bottom != 15.0 {
		t.Errorf("Unexpected margins: %+v", info.Margins)
	}
}

func TestExtract_Numbering(t *testing.T) {
	p := Extract(profileDoc(), DefaultThresholds())
	want := map[int]string{1: "^1.", 2: "^2)"}
	if !reflect.DeepEqual(p.Numbering, want) {
		t.Errorf("Expected numbering %v, got %v", want, p.Numbering)
	}
}

func TestExtract_MinBodyCount(t *testing.T) {
	doc := ir.NewDocument("hwpx")
	doc.Styles.Styles = append(doc.Styles.Styles,
		ir.Style{Name: "바탕글", EngName: "Normal"},
		ir.Style{Name: "특수", EngName: "Special"},
	)
	doc.Styles.CharShapes = append(doc.Styles.CharShapes, ir.CharShape{Height: 1000})
	doc.Styles.ParaShapes = append(doc.Styles.ParaShapes, ir.ParaShape{Align: ir.AlignJustify})
	sec := doc.AddSection(ir.PageGeometry{})
	p := ir.NewParagraph(1, 0)
	p.AddRun(0, "한 문단뿐")
	sec.AddParagraph(p)

	// 표본 1개는 과반 투표가 못 되므로 기본 스타일이 본문이 된다
	prof := Extract(doc, DefaultThresholds())
	if got := prof.Role(RoleBody).StyleID; got != 0 {
		t.Errorf("Expected fallback body style 0, got %d", got)
	}

	th := DefaultThresholds()
	th.MinBodyCount = 1
	prof = Extract(doc, th)
	if got := prof.Role(RoleBody).StyleID; got != 1 {
		t.Errorf("Expected body style 1, got %d", got)
	}
}

func TestExtract_HeaderBoldRequired(t *testing.T) {
	doc := ir.NewDocument("hwpx")
	doc.Styles.CharShapes = append(doc.Styles.CharShapes, ir.CharShape{Height: 1000})
	doc.Styles.ParaShapes = append(doc.Styles.ParaShapes, ir.ParaShape{Align: ir.AlignJustify})
	doc.Styles.Styles = append(doc.Styles.Styles,
		ir.Style{Name: "바탕글", EngName: "Normal"},
		ir.Style{Name: "머리글 후보", EngName: "Head"},
	)
	sec := doc.AddSection(ir.PageGeometry{})
	for i := 0; i < 2; i++ {
		p := ir.NewParagraph(0, 0)
		p.AddRun(0, "본문")
		sec.AddParagraph(p)
	}
	tbl := &ir.TableBlock{Rows: 2, Cols: 1}
	head := ir.NewParagraph(1, 0)
	head.AddRun(0, "구분") // 굵기도 음영도 없는 머리글 행
	body := ir.NewParagraph(0, 0)
	body.AddRun(0, "내용")
	tbl.Cells = append(tbl.Cells,
		&ir.Cell{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1, Blocks: []ir.Block{ir.ParagraphBlock(head)}},
		&ir.Cell{Row: 1, Col: 0, RowSpan: 1, ColSpan: 1, Blocks: []ir.Block{ir.ParagraphBlock(body)}},
	)
	sec.AddTable(tbl)

	if prof := Extract(doc, DefaultThresholds()); prof.Role(RoleTableHeader) != nil {
		t.Error("Expected no header role for plain row-0 style")
	}

	th := DefaultThresholds()
	th.HeaderBoldRequired = false
	prof := Extract(doc, th)
	if rs := prof.Role(RoleTableHeader); rs == nil || rs.StyleID != 1 {
		t.Errorf("Expected header style 1 without bold requirement, got %+v", rs)
	}
}

func TestProfile_SaveLoad(t *testing.T) {
	p := Extract(profileDoc(), DefaultThresholds())
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(p, loaded) {
		t.Error("Loaded profile differs from the saved one")
	}
}

func TestProfile_CharShapeFor(t *testing.T) {
	p := &Profile{Styles: map[Role]*RoleStyle{
		RoleBody:  {CharShapeID: 2},
		RoleTitle: {CharShapeID: 5},
	}}
	if got := p.CharShapeFor(RoleTitle); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	// 없는 역할은 본문으로
	if got := p.CharShapeFor(RoleTableCell); got != 2 {
		t.Errorf("Expected body fallback 2, got %d", got)
	}
	var empty Profile
	if got := empty.CharShapeFor(RoleBody); got != 0 {
		t.Errorf("Expected 0 for empty profile, got %d", got)
	}
}
