package inject

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/style"
)

// templateDoc builds a 3-section template: title/body text, an empty
// 2행x3열 table behind an anchor, and an anchored image.
func templateDoc() *ir.Document {
	doc := ir.NewDocument("hwpx")
	st := doc.Styles
	st.CharShapes = append(st.CharShapes,
		ir.CharShape{Height: 1000},             // 0: 본문
		ir.CharShape{Height: 1600, Bold: true}, // 1: 제목
		ir.CharShape{Height: 1000},             // 2: 표 셀
		ir.CharShape{Height: 1000, Bold: true}, // 3: 표 머리글
	)
	st.ParaShapes = append(st.ParaShapes,
		ir.ParaShape{Align: ir.AlignJustify, LineSpacing: 160, LineSpacingKind: ir.LineSpacingPercent},
		ir.ParaShape{Align: ir.AlignCenter, LineSpacing: 160, LineSpacingKind: ir.LineSpacingPercent},
	)
	st.Styles = append(st.Styles,
		ir.Style{Name: "바탕글", EngName: "Normal"},
		ir.Style{Name: "제목", EngName: "Title", CharShapeID: 1, ParaShapeID: 1},
	)

	s0 := doc.AddSection(ir.PageGeometry{Width: 59528, Height: 84188})
	title := ir.NewParagraph(1, 1)
	title.AddRun(1, "제목 자리")
	s0.AddParagraph(title)
	body := ir.NewParagraph(0, 0)
	body.AddRun(0, "개요 자리")
	s0.AddParagraph(body)

	s1 := doc.AddSection(ir.PageGeometry{Width: 59528, Height: 84188})
	host := ir.NewParagraph(0, 0)
	host.AddMarker(0, ir.MarkerAnchor)
	host.AddRun(0, "표 설명")
	s1.AddParagraph(host)
	s1.AddTable(ir.NewTable(2, 3))

	s2 := doc.AddSection(ir.PageGeometry{Width: 59528, Height: 84188})
	imgHost := ir.NewParagraph(0, 0)
	imgHost.AddMarker(0, ir.MarkerAnchor)
	s2.AddParagraph(imgHost)
	img := ir.NewImage("image1")
	img.Format = "png"
	img.Data = []byte("old image bytes")
	img.SetDimensions(21600, 14400)
	s2.AddImage(img)

	return doc
}

func testProfile() *style.Profile {
	return &style.Profile{Styles: map[style.Role]*style.RoleStyle{
		style.RoleBody:        {StyleID: 0, CharShapeID: 0, ParaShapeID: 0, FontSize: 10},
		style.RoleTableHeader: {StyleID: 0, CharShapeID: 3, FontSize: 10, Bold: true},
		style.RoleTableCell:   {StyleID: 0, CharShapeID: 2, FontSize: 10},
	}}
}

func TestApply_ParagraphText(t *testing.T) {
	doc := templateDoc()
	m := Mapping{{SectionKey: "개요", TargetPath: "s0.b1", ContentRef: "overview"}}
	contents := map[string]Content{"overview": {Text: "올해 상반기 검사 결과 요약."}}

	out, err := Apply(doc, testProfile(), m, contents)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	blk, err := out.BlockAt(ir.BlockPath{Section: 0, Block: 1})
	if err != nil {
		t.Fatal(err)
	}
	p := blk.Paragraph
	if got := p.Text(); got != "올해 상반기 검사 결과 요약." {
		t.Errorf("Expected injected text, got %q", got)
	}
	if len(p.Runs) != 1 || p.Runs[0].CharShapeID != 0 {
		t.Errorf("Expected one body-shape run, got %+v", p.Runs)
	}
	// 문단 자체의 스타일 참조는 그대로
	if p.StyleID != 0 || p.ParaShapeID != 0 {
		t.Errorf("Paragraph style ids changed: style=%d paraShape=%d", p.StyleID, p.ParaShapeID)
	}

	// 원본은 손대지 않는다
	orig, _ := doc.BlockAt(ir.BlockPath{Section: 0, Block: 1})
	if got := orig.Paragraph.Text(); got != "개요 자리" {
		t.Errorf("Input document was mutated: %q", got)
	}
}

func TestApply_MultilineText(t *testing.T) {
	out, err := Apply(templateDoc(), testProfile(),
		Mapping{{SectionKey: "개요", TargetPath: "s0.b1", ContentRef: "c"}},
		map[string]Content{"c": {Text: "첫 줄\n둘째 줄"}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	blk, _ := out.BlockAt(ir.BlockPath{Section: 0, Block: 1})
	runs := blk.Paragraph.Runs
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Text != "첫 줄" || runs[1].Marker != ir.MarkerLineBreak || runs[2].Text != "둘째 줄" {
		t.Errorf("Unexpected run split: %+v", runs)
	}
}

func TestApply_PreservesAnchors(t *testing.T) {
	out, err := Apply(templateDoc(), testProfile(),
		Mapping{{SectionKey: "표설명", TargetPath: "s1.b0", ContentRef: "c"}},
		map[string]Content{"c": {Text: "새 설명"}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	blk, _ := out.BlockAt(ir.BlockPath{Section: 1, Block: 0})
	runs := blk.Paragraph.Runs
	if len(runs) != 2 {
		t.Fatalf("Expected anchor + text, got %+v", runs)
	}
	if runs[0].Marker != ir.MarkerAnchor {
		t.Error("Anchor marker was lost during substitution")
	}
	if runs[1].Text != "새 설명" {
		t.Errorf("Expected 새 설명, got %q", runs[1].Text)
	}
}

// 3열x2행 빈 표를 그대로 채우는 기본 시나리오.
func TestApply_TableFill(t *testing.T) {
	grid := [][]string{
		{"품목", "금액", "비율"},
		{"장비", "1000", "50%"},
	}
	out, err := Apply(templateDoc(), testProfile(),
		Mapping{{SectionKey: "내역", TargetPath: "s1.b1", ContentRef: "tbl"}},
		map[string]Content{"tbl": {Table: grid}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	blk, _ := out.BlockAt(ir.BlockPath{Section: 1, Block: 1})
	tbl := blk.Table
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			if got := tbl.CellAt(r, c).Text(); got != grid[r][c] {
				t.Errorf("Cell (%d,%d): expected %q, got %q", r, c, grid[r][c], got)
			}
		}
	}

	// 빈 머리글 행은 프로파일의 표 머리글 모양을, 본문 행은 표 셀 모양을 쓴다
	if got := tbl.CellAt(0, 0).FirstParagraph().Runs[0].CharShapeID; got != 3 {
		t.Errorf("Expected header char shape 3, got %d", got)
	}
	if got := tbl.CellAt(1, 0).FirstParagraph().Runs[0].CharShapeID; got != 2 {
		t.Errorf("Expected cell char shape 2, got %d", got)
	}
}

func TestApply_TableHeaderKeepsExistingShape(t *testing.T) {
	doc := templateDoc()
	blk, _ := doc.BlockAt(ir.BlockPath{Section: 1, Block: 1})
	blk.Table.CellAt(0, 0).FirstParagraph().AddRun(1, "구분")

	out, err := Apply(doc, testProfile(),
		Mapping{{SectionKey: "내역", TargetPath: "s1.b1", ContentRef: "tbl"}},
		map[string]Content{"tbl": {Table: [][]string{
			{"구분", "수량", "단가"},
			{"볼트", "100", "500"},
		}}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	got, _ := out.BlockAt(ir.BlockPath{Section: 1, Block: 1})
	run := got.Table.CellAt(0, 0).FirstParagraph().Runs[0]
	if run.CharShapeID != 1 {
		t.Errorf("Expected header to keep char shape 1, got %d", run.CharShapeID)
	}
	if run.Text != "구분" {
		t.Errorf("Expected 구분, got %q", run.Text)
	}
}

// 2x2 내용을 3x2 표에 넣으면 셀을 건드리기 전에 실패한다.
func TestApply_ShapeMismatch(t *testing.T) {
	doc := ir.NewDocument("hwpx")
	sec := doc.AddSection(ir.PageGeometry{})
	tbl := ir.NewTable(3, 2)
	tbl.CellAt(0, 0).FirstParagraph().AddRun(0, "원래 값")
	sec.AddTable(tbl)

	_, err := Apply(doc, testProfile(),
		Mapping{{SectionKey: "내역", TargetPath: "s0.b0", ContentRef: "tbl"}},
		map[string]Content{"tbl": {Table: [][]string{{"a", "b"}, {"c", "d"}}}})
	if err == nil {
		t.Fatal("Expected shape mismatch")
	}
	if !IsShapeMismatch(err) {
		t.Errorf("Expected ShapeMismatch, got %v", err)
	}
	// 원본 표는 그대로
	if got := tbl.CellAt(0, 0).Text(); got != "원래 값" {
		t.Errorf("Source table was touched: %q", got)
	}
}

func TestApply_RaggedGridRejected(t *testing.T) {
	_, err := Apply(templateDoc(), testProfile(),
		Mapping{{SectionKey: "내역", TargetPath: "s1.b1", ContentRef: "tbl"}},
		map[string]Content{"tbl": {Table: [][]string{
			{"품목", "금액", "비율"},
			{"장비", "1000"},
		}}})
	if !IsShapeMismatch(err) {
		t.Errorf("Expected ShapeMismatch for ragged grid, got %v", err)
	}
}

func TestApply_Image(t *testing.T) {
	newData := []byte{0x89, 'P', 'N', 'G', 9, 9, 9}
	out, err := Apply(templateDoc(), testProfile(),
		Mapping{{SectionKey: "결과사진", TargetPath: "s2.b1", ContentRef: "img"}},
		map[string]Content{"img": {Image: &ImageContent{
			Data:    newData,
			Format:  "png",
			Width:   43200,
			Height:  14400,
			Caption: "그림 1 측정 장면",
		}}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	blk, _ := out.BlockAt(ir.BlockPath{Section: 2, Block: 1})
	img := blk.Image
	if !bytes.Equal(img.Data, newData) {
		t.Error("Image bytes were not replaced")
	}
	// 3:1 원본을 21600x14400 틀에 맞추면 21600x7200
	if img.Width != 21600 || img.Height != 7200 {
		t.Errorf("Expected 21600x7200, got %dx%d", img.Width, img.Height)
	}
	if img.Caption == nil || img.Caption.Text() != "그림 1 측정 장면" {
		t.Errorf("Expected caption, got %+v", img.Caption)
	}
}

func TestApply_TargetNotFound(t *testing.T) {
	doc := templateDoc()
	cases := []string{"s9.b0", "s0.b99", "잘못된 경로"}
	for _, path := range cases {
		_, err := Apply(doc, testProfile(),
			Mapping{{SectionKey: "k", TargetPath: path, ContentRef: "c"}},
			map[string]Content{"c": {Text: "x"}})
		if !IsTargetNotFound(err) {
			t.Errorf("Path %q: expected TargetNotFound, got %v", path, err)
		}
	}
}

func TestApply_MissingContent(t *testing.T) {
	_, err := Apply(templateDoc(), testProfile(),
		Mapping{{SectionKey: "개요", TargetPath: "s0.b1", ContentRef: "없는것"}},
		map[string]Content{})
	if err == nil {
		t.Error("Expected error for missing content ref")
	}
}

func TestApply_KindMismatch(t *testing.T) {
	doc := templateDoc()
	// 문단에 표를
	if _, err := Apply(doc, testProfile(),
		Mapping{{SectionKey: "k", TargetPath: "s0.b1", ContentRef: "c"}},
		map[string]Content{"c": {Table: [][]string{{"x"}}}}); err == nil {
		t.Error("Expected error for table content on a paragraph")
	}
	// 표에 문단을
	if _, err := Apply(doc, testProfile(),
		Mapping{{SectionKey: "k", TargetPath: "s1.b1", ContentRef: "c"}},
		map[string]Content{"c": {Text: "x"}}); err == nil {
		t.Error("Expected error for text content on a table")
	}
}

// 같은 매핑을 두 번 적용해도 결과 트리는 같다.
func TestApply_Idempotent(t *testing.T) {
	doc := templateDoc()
	m := Mapping{
		{SectionKey: "개요", TargetPath: "s0.b1", ContentRef: "text"},
		{SectionKey: "내역", TargetPath: "s1.b1", ContentRef: "tbl"},
	}
	contents := map[string]Content{
		"text": {Text: "요약."},
		"tbl": {Table: [][]string{
			{"품목", "금액", "비율"},
			{"장비", "1000", "50%"},
		}},
	}

	once, err := Apply(doc, testProfile(), m, contents)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	again, err := Apply(once, testProfile(), m, contents)
	if err != nil {
		t.Fatalf("Second apply failed: %v", err)
	}
	if !ir.Equal(once, again) {
		for _, d := range ir.Diff(once, again) {
			t.Errorf("Apply is not idempotent: %s", d)
		}
	}
}

func TestMapping_Validate(t *testing.T) {
	cases := []struct {
		name string
		m    Mapping
	}{
		{"빈 sectionKey", Mapping{{TargetPath: "s0.b0", ContentRef: "c"}}},
		{"빈 contentRef", Mapping{{SectionKey: "k", TargetPath: "s0.b0"}}},
		{"잘못된 경로", Mapping{{SectionKey: "k", TargetPath: "b0.s0", ContentRef: "c"}}},
		{"중복 대상", Mapping{
			{SectionKey: "a", TargetPath: "s0.b0", ContentRef: "c1"},
			{SectionKey: "b", TargetPath: "s0.b0", ContentRef: "c2"},
		}},
	}
	for _, c := range cases {
		if err := c.m.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}

	ok := Mapping{
		{SectionKey: "개요", TargetPath: "s0.b1", ContentRef: "c1"},
		{SectionKey: "내역", TargetPath: "s1.b1.r0c0.b0", ContentRef: "c2"},
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("Expected valid mapping, got %v", err)
	}
}

func TestMapping_SaveLoad(t *testing.T) {
	m := Mapping{
		{SectionKey: "개요", TargetPath: "s0.b1", ContentRef: "overview"},
		{SectionKey: "내역", TargetPath: "s1.b1", ContentRef: "items"},
	}
	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadMapping(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Errorf("Expected %+v, got %+v", m, loaded)
	}
}
