package hwp5

import (
	"encoding/binary"
	"sort"
	"strconv"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

// SectionParser decodes one BodyText section stream into a document
// section: paragraphs, tables, and images in source order. 표와 그림은
// 닻(anchor) 컨트롤을 품은 문단 바로 뒤에 배치된다.
type SectionParser struct {
	docInfo *DocInfo
	opts    parser.Options
	binData func(name string) ([]byte, bool) // nil이면 이미지 바이트를 싣지 않음
}

// NewSectionParser creates a section parser. binData resolves embedded
// storage names ("BIN0001.png") to raw bytes and may be nil.
func NewSectionParser(docInfo *DocInfo, opts parser.Options, binData func(string) ([]byte, bool)) *SectionParser {
	return &SectionParser{docInfo: docInfo, opts: opts, binData: binData}
}

// Parse decodes a section stream.
func (sp *SectionParser) Parse(data []byte, stream string) (*ir.Section, error) {
	records, err := NewRecordReader(data, stream).ReadAll()
	if err != nil {
		return nil, err
	}
	roots := BuildTree(records)

	sec := &ir.Section{Blocks: make([]ir.Block, 0, len(roots))}
	sec.Blocks = sp.buildBlocks(roots, sec)
	return sec, nil
}

// buildBlocks converts PARA_HEADER nodes into ordered blocks. 섹션
// 최상위와 셀 내부가 같은 구조를 공유한다. sec은 구역 정의를 받을
// 섹션이며 셀 내부에서는 nil이다.
func (sp *SectionParser) buildBlocks(nodes []*RecordNode, sec *ir.Section) []ir.Block {
	var blocks []ir.Block
	for _, node := range nodes {
		if node.TagID != TagParaHeader {
			parser.Debugf("본문: %s 건너뜀", TagName(node.TagID))
			continue
		}
		para, anchored := sp.buildParagraph(node, sec)
		if para != nil && (sp.opts.KeepEmpty || !para.IsEmpty()) {
			blocks = append(blocks, ir.ParagraphBlock(para))
		}
		blocks = append(blocks, anchored...)
	}
	return blocks
}

// buildParagraph decodes one PARA_HEADER subtree. Returns the paragraph
// and any blocks anchored in it (tables, images).
func (sp *SectionParser) buildParagraph(node *RecordNode, sec *ir.Section) (*ir.Paragraph, []ir.Block) {
	para := &ir.Paragraph{}
	if len(node.Data) >= 6 {
		para.ParaShapeID = int(binary.LittleEndian.Uint16(node.Data[4:6]))
	}
	if len(node.Data) >= 7 {
		para.StyleID = int(node.Data[6])
	}

	var refs []shapeRef
	if sc := node.FindChild(TagParaCharShape); sc != nil {
		refs = parseCharShapeRefs(sc.Data)
	}
	if text := node.FindChild(TagParaText); text != nil {
		para.Runs = BuildRuns(ParseParaText(text.Data), refs)
	}
	if para.Runs == nil {
		para.Runs = make([]ir.Run, 0)
	}

	var anchored []ir.Block
	for _, ctrl := range node.FindChildren(TagCtrlHeader) {
		if len(ctrl.Data) < 4 {
			continue
		}
		ctrlID := reverseCtrlID(ctrl.Data[0:4])
		switch ctrlID {
		case CtrlTable:
			if tbl := sp.buildTable(ctrl); tbl != nil {
				anchored = append(anchored, ir.TableBlockOf(tbl))
			}
		case CtrlGSO:
			anchored = append(anchored, sp.buildShape(ctrl)...)
		case CtrlSection:
			if sec != nil {
				sp.applySectionDef(sec, ctrl)
			}
		case CtrlColumn, CtrlHeaderCtrl, CtrlFooter, CtrlFootnote, CtrlEndnote,
			CtrlAutoNumber, CtrlNewNumber, CtrlPageHide, CtrlPageNumber,
			CtrlIndexMark, CtrlBookmark:
			// 레이아웃/참조 컨트롤: 본문 블록을 만들지 않는다
		default:
			parser.Debugf("컨트롤 %q 건너뜀", ctrlID)
		}
	}

	claimable, spliced := splitAnchored(anchored)
	reconcileAnchors(para, len(claimable))
	return para, append(claimable, spliced...)
}

// splitAnchored separates object blocks that belong to an anchor (표,
// 그림) from spliced content (글상자 문단). 닻 마커는 앞쪽 묶음에만
// 대응한다.
func splitAnchored(blocks []ir.Block) (claimable, spliced []ir.Block) {
	for _, b := range blocks {
		if b.Type == ir.BlockTypeTable || b.Type == ir.BlockTypeImage {
			claimable = append(claimable, b)
		} else {
			spliced = append(spliced, b)
		}
	}
	return claimable, spliced
}

// reconcileAnchors keeps exactly want anchor markers in the paragraph.
// 블록을 만들지 못한 컨트롤의 닻은 버리고, 본문이 잘려 닻이 모자라면
// 끝에 보충해 닻과 뒤따르는 블록의 1:1 대응을 지킨다.
func reconcileAnchors(para *ir.Paragraph, want int) {
	kept := 0
	runs := para.Runs[:0]
	for _, r := range para.Runs {
		if r.Marker == ir.MarkerAnchor {
			if kept >= want {
				continue
			}
			kept++
		}
		runs = append(runs, r)
	}
	for ; kept < want; kept++ {
		runs = append(runs, ir.Run{Marker: ir.MarkerAnchor})
	}
	para.Runs = runs
}

// applySectionDef pulls the PAGE_DEF record out of a 구역 정의 control.
func (sp *SectionParser) applySectionDef(sec *ir.Section, ctrl *RecordNode) {
	pd := ctrl.FindChild(TagPageDef)
	if pd == nil || len(pd.Data) < 36 {
		return
	}
	u := func(off int) ir.HWPUnit {
		return ir.HWPUnit(binary.LittleEndian.Uint32(pd.Data[off : off+4]))
	}
	sec.Page = ir.PageGeometry{
		Width:        u(0),
		Height:       u(4),
		MarginLeft:   u(8),
		MarginRight:  u(12),
		MarginTop:    u(16),
		MarginBottom: u(20),
		HeaderOffset: u(24),
		FooterOffset: u(28),
		GutterOffset: u(32),
	}
	if len(pd.Data) >= 40 {
		attrs := binary.LittleEndian.Uint32(pd.Data[36:40])
		sec.Page.Landscape = attrs&0x03 == 1
	}
}

// buildTable decodes a 표 control: the TABLE record gives dimensions,
// each 셀 리스트 헤더 gives one cell with address, span, and content.
func (sp *SectionParser) buildTable(ctrl *RecordNode) *ir.TableBlock {
	tblRec := ctrl.FindChild(TagTable)
	if tblRec == nil || len(tblRec.Data) < 8 {
		parser.Warnf("표 컨트롤에 TABLE 레코드가 없음")
		return nil
	}

	data := tblRec.Data
	tbl := &ir.TableBlock{
		Rows: int(binary.LittleEndian.Uint16(data[4:6])),
		Cols: int(binary.LittleEndian.Uint16(data[6:8])),
	}
	if tbl.Rows < 1 || tbl.Cols < 1 {
		parser.Warnf("표 크기가 잘못됨: %dx%d", tbl.Rows, tbl.Cols)
		return nil
	}
	if len(data) >= 10 {
		tbl.CellSpacing = ir.HWPUnit(binary.LittleEndian.Uint16(data[8:10]))
	}
	if len(data) >= 18 {
		for i := 0; i < 4; i++ {
			tbl.InnerMargins[i] = ir.HWPUnit(binary.LittleEndian.Uint16(data[10+i*2 : 12+i*2]))
		}
	}
	// 행 높이 배열 뒤에 표 전체의 테두리/배경 ID가 온다
	if off := 18 + 2*tbl.Rows; len(data) >= off+2 {
		tbl.BorderFillID = int(binary.LittleEndian.Uint16(data[off : off+2]))
	}

	// 셀 리스트는 TABLE 레코드 뒤에 온다. 앞에 오는 리스트는 캡션.
	seenTable := false
	for _, child := range ctrl.Children {
		switch child.TagID {
		case TagTable:
			seenTable = true
		case TagListHeader:
			if !seenTable {
				continue
			}
			cell := sp.buildCell(child)
			if cell == nil {
				continue
			}
			if cell.Row >= tbl.Rows || cell.Col >= tbl.Cols ||
				cell.Row+cell.RowSpan > tbl.Rows || cell.Col+cell.ColSpan > tbl.Cols {
				parser.Warnf("셀 (%d,%d) 병합 범위가 %dx%d 표를 벗어남",
					cell.Row, cell.Col, tbl.Rows, tbl.Cols)
				continue
			}
			if tbl.CellAt(cell.Row, cell.Col) != nil {
				parser.Warnf("셀 (%d,%d)이 겹침", cell.Row, cell.Col)
				continue
			}
			tbl.Cells = append(tbl.Cells, cell)
		}
	}
	// 모자라는 칸은 빈 셀로 채워 그리드 불변식을 지킨다
	sp.fillMissingCells(tbl)
	sortCells(tbl)
	return tbl
}

// sortCells puts the cell list in row-major order. 채워 넣은 셀이 뒤에
// 붙으므로 정렬로 불변식을 되살린다.
func sortCells(tbl *ir.TableBlock) {
	sort.Slice(tbl.Cells, func(i, j int) bool {
		a, b := tbl.Cells[i], tbl.Cells[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
}

// buildCell decodes one 셀 리스트 헤더: 6바이트 리스트 정보 뒤에 셀
// 주소, 병합 범위, 크기, 테두리/배경 ID가 온다.
func (sp *SectionParser) buildCell(list *RecordNode) *ir.Cell {
	data := list.Data
	if len(data) < 14 {
		// 주소 없는 리스트 헤더: 표 캡션 등. 셀이 아니다.
		return nil
	}
	cell := &ir.Cell{
		Col:     int(binary.LittleEndian.Uint16(data[6:8])),
		Row:     int(binary.LittleEndian.Uint16(data[8:10])),
		ColSpan: int(binary.LittleEndian.Uint16(data[10:12])),
		RowSpan: int(binary.LittleEndian.Uint16(data[12:14])),
	}
	if cell.ColSpan < 1 {
		cell.ColSpan = 1
	}
	if cell.RowSpan < 1 {
		cell.RowSpan = 1
	}
	if len(data) >= 22 {
		cell.Width = ir.HWPUnit(binary.LittleEndian.Uint32(data[14:18]))
		cell.Height = ir.HWPUnit(binary.LittleEndian.Uint32(data[18:22]))
	}
	if len(data) >= 32 {
		cell.BorderFillID = int(binary.LittleEndian.Uint16(data[30:32]))
	}

	cell.Blocks = sp.buildBlocks(list.Children, nil)
	if len(cell.Blocks) == 0 {
		cell.Blocks = []ir.Block{ir.ParagraphBlock(ir.NewParagraph(0, 0))}
	}
	return cell
}

// fillMissingCells covers grid slots no parsed cell claims. 손상된
// 문서에서도 표 불변식(모든 칸이 정확히 한 셀에 덮임)을 유지한다.
func (sp *SectionParser) fillMissingCells(tbl *ir.TableBlock) {
	for r := 0; r < tbl.Rows; r++ {
		for c := 0; c < tbl.Cols; c++ {
			if tbl.CellAt(r, c) == nil {
				tbl.AddCell(&ir.Cell{
					Row: r, Col: c, RowSpan: 1, ColSpan: 1,
					Blocks: []ir.Block{ir.ParagraphBlock(ir.NewParagraph(0, 0))},
				})
			}
		}
	}
}

// buildShape decodes a 그리기 개체 control. A picture component becomes
// an image block; a text box contributes its paragraphs instead.
func (sp *SectionParser) buildShape(ctrl *RecordNode) []ir.Block {
	pic := findDescendant(ctrl, TagShapePicture)
	if pic == nil {
		// 글상자: 리스트 헤더 아래 문단들을 본문으로 편입
		var blocks []ir.Block
		for _, list := range ctrl.FindChildren(TagListHeader) {
			blocks = append(blocks, sp.buildBlocks(list.Children, nil)...)
		}
		if blocks == nil {
			parser.Debugf("그림도 글상자도 아닌 그리기 개체 건너뜀")
		}
		return blocks
	}

	img := sp.buildImage(ctrl, pic)
	if img == nil {
		return nil
	}
	// 캡션 리스트가 있으면 첫 문단을 캡션으로
	for _, list := range ctrl.FindChildren(TagListHeader) {
		for _, b := range sp.buildBlocks(list.Children, nil) {
			if b.Type == ir.BlockTypeParagraph && !b.Paragraph.IsEmpty() {
				img.Caption = b.Paragraph
				break
			}
		}
		if img.Caption != nil {
			break
		}
	}
	return []ir.Block{ir.ImageBlockOf(img)}
}

// buildImage decodes SHAPE_COMPONENT_PICTURE: 테두리(12) + 꼭짓점(32) +
// 자르기(16) + 안쪽 여백(8) 뒤에 그림 정보가 오고 BinData ID는 71바이트
// 지점의 uint16이다.
func (sp *SectionParser) buildImage(ctrl *RecordNode, pic *RecordNode) *ir.ImageBlock {
	if len(pic.Data) < 73 {
		parser.Warnf("SHAPE_COMPONENT_PICTURE 레코드가 너무 짧음: %d바이트", len(pic.Data))
		return nil
	}
	binID := int(binary.LittleEndian.Uint16(pic.Data[71:73]))
	img := ir.NewImage(strconv.Itoa(binID))

	if comp := ctrl.FindChild(TagShapeComponent); comp != nil && len(comp.Data) >= 36 {
		img.SetDimensions(
			ir.HWPUnit(binary.LittleEndian.Uint32(comp.Data[28:32])),
			ir.HWPUnit(binary.LittleEndian.Uint32(comp.Data[32:36])),
		)
	}

	entry, ok := sp.docInfo.Table.BinDataByID(binID)
	if !ok {
		parser.Warnf("BinData ID %d에 해당하는 항목이 없음", binID)
		return img
	}
	switch entry.Kind {
	case ir.BinDataLink:
		img.Name = entry.AbsPath
		img.Format = extFromName(entry.AbsPath)
	case ir.BinDataEmbed, ir.BinDataStored:
		img.Name = GetBinDataPath(entry)
		img.Format = strings.ToLower(entry.Ext)
		if sp.opts.LoadImages && sp.binData != nil {
			if data, found := sp.binData(img.Name); found {
				img.Data = data
			} else {
				parser.Warnf("BinData 스트림 %s을(를) 찾을 수 없음", img.Name)
			}
		}
	}
	return img
}

func extFromName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// findDescendant searches the subtree depth-first for a tag.
func findDescendant(node *RecordNode, tagID uint16) *RecordNode {
	for _, c := range node.Children {
		if c.TagID == tagID {
			return c
		}
		if found := findDescendant(c, tagID); found != nil {
			return found
		}
	}
	return nil
}
