package hwpx

import (
	"encoding/xml"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

// 섹션 XML 디코딩. 실행(run) 안의 요소 순서가 의미를 가지므로 run은
// 토큰 단위로 직접 해석하고, 표와 그림처럼 구조가 고정된 부분은 구조체
// 디코딩에 맡긴다.

type xmlSection struct {
	XMLName xml.Name  `xml:"sec"`
	Paras   []xmlPara `xml:"p"`
}

type xmlPara struct {
	ParaPrIDRef int      `xml:"paraPrIDRef,attr"`
	StyleIDRef  int      `xml:"styleIDRef,attr"`
	Runs        []xmlRun `xml:"run"`
}

type xmlRun struct {
	CharPrIDRef int
	SecPr       *xmlSecPr
	Items       []runItem
}

// runItem is one ordered piece of run content.
type runItem struct {
	text   string
	marker ir.MarkerKind
	table  *xmlTable
	pic    *xmlPic
}

// 마커 요소 이름 -> 모델 마커
var markerElement = map[string]ir.MarkerKind{
	"tab":        ir.MarkerTab,
	"lineBreak":  ir.MarkerLineBreak,
	"linebreak":  ir.MarkerLineBreak,
	"hyphen":     ir.MarkerHyphen,
	"nbSpace":    ir.MarkerBundleSpace,
	"fwSpace":    ir.MarkerFixedSpace,
	"fieldBegin": ir.MarkerFieldStart,
	"fieldEnd":   ir.MarkerFieldEnd,
	"titleMark":  ir.MarkerTitleMark,
}

// MarkerElementName returns the section XML element for a marker kind,
// empty for markers with no element form.
func MarkerElementName(kind ir.MarkerKind) string {
	switch kind {
	case ir.MarkerTab:
		return "tab"
	case ir.MarkerLineBreak:
		return "lineBreak"
	case ir.MarkerHyphen:
		return "hyphen"
	case ir.MarkerBundleSpace:
		return "nbSpace"
	case ir.MarkerFixedSpace:
		return "fwSpace"
	case ir.MarkerFieldStart:
		return "fieldBegin"
	case ir.MarkerFieldEnd:
		return "fieldEnd"
	case ir.MarkerTitleMark:
		return "titleMark"
	}
	return ""
}

// UnmarshalXML decodes a run keeping child order.
func (r *xmlRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "charPrIDRef" {
			r.CharPrIDRef, _ = strconv.Atoi(a.Value)
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "secPr":
				var sp xmlSecPr
				if err := d.DecodeElement(&sp, &t); err != nil {
					return err
				}
				r.SecPr = &sp
			case "t":
				if err := r.decodeText(d); err != nil {
					return err
				}
			case "tbl":
				var tbl xmlTable
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				r.Items = append(r.Items, runItem{table: &tbl})
			case "pic":
				var pic xmlPic
				if err := d.DecodeElement(&pic, &t); err != nil {
					return err
				}
				r.Items = append(r.Items, runItem{pic: &pic})
			case "ctrl":
				// 단 정의, 머리말 같은 레이아웃 컨트롤
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if kind, ok := markerElement[t.Name.Local]; ok {
					r.Items = append(r.Items, runItem{marker: kind})
				}
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// decodeText walks a t element: character data plus embedded markers.
func (r *xmlRun) decodeText(d *xml.Decoder) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(t) > 0 {
				r.Items = append(r.Items, runItem{text: string(t)})
			}
		case xml.StartElement:
			if kind, ok := markerElement[t.Name.Local]; ok {
				r.Items = append(r.Items, runItem{marker: kind})
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlSecPr struct {
	PagePr *xmlPagePr `xml:"pagePr"`
}

type xmlPagePr struct {
	Landscape string         `xml:"landscape,attr"`
	Width     int            `xml:"width,attr"`
	Height    int            `xml:"height,attr"`
	Margin    *xmlPageMargin `xml:"margin"`
}

type xmlPageMargin struct {
	Header int `xml:"header,attr"`
	Footer int `xml:"footer,attr"`
	Gutter int `xml:"gutter,attr"`
	Left   int `xml:"left,attr"`
	Right  int `xml:"right,attr"`
	Top    int `xml:"top,attr"`
	Bottom int `xml:"bottom,attr"`
}

type xmlTable struct {
	RowCnt          int          `xml:"rowCnt,attr"`
	ColCnt          int          `xml:"colCnt,attr"`
	CellSpacing     int          `xml:"cellSpacing,attr"`
	BorderFillIDRef int          `xml:"borderFillIDRef,attr"`
	InMargin        *xmlMargin4  `xml:"inMargin"`
	Rows            []xmlTableRow `xml:"tr"`
}

type xmlMargin4 struct {
	Left   int `xml:"left,attr"`
	Right  int `xml:"right,attr"`
	Top    int `xml:"top,attr"`
	Bottom int `xml:"bottom,attr"`
}

type xmlTableRow struct {
	Cells []xmlTableCell `xml:"tc"`
}

type xmlTableCell struct {
	BorderFillIDRef int         `xml:"borderFillIDRef,attr"`
	SubList         xmlSubList  `xml:"subList"`
	Addr            xmlCellAddr `xml:"cellAddr"`
	Span            xmlCellSpan `xml:"cellSpan"`
	Size            xmlCellSize `xml:"cellSz"`
}

type xmlSubList struct {
	Paras []xmlPara `xml:"p"`
}

type xmlCellAddr struct {
	ColAddr int `xml:"colAddr,attr"`
	RowAddr int `xml:"rowAddr,attr"`
}

type xmlCellSpan struct {
	ColSpan int `xml:"colSpan,attr"`
	RowSpan int `xml:"rowSpan,attr"`
}

type xmlCellSize struct {
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type xmlPic struct {
	Img     xmlPicImg   `xml:"img"`
	Size    *xmlPicSize `xml:"sz"`
	Caption *xmlCaption `xml:"caption"`
}

type xmlPicImg struct {
	BinaryItemIDRef string `xml:"binaryItemIDRef,attr"`
}

type xmlPicSize struct {
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

type xmlCaption struct {
	SubList xmlSubList `xml:"subList"`
}

// sectionConverter turns decoded section XML into model blocks.
type sectionConverter struct {
	binData map[string]string // id -> href
	loadBin func(href string) ([]byte, bool)
	opts    parser.Options
}

// ParseSection decodes one section XML document.
func ParseSection(data []byte, binData map[string]string, loadBin func(string) ([]byte, bool), opts parser.Options) (*ir.Section, error) {
	var xs xmlSection
	if err := xml.Unmarshal(data, &xs); err != nil {
		return nil, fmt.Errorf("섹션 XML 파싱 실패: %w", err)
	}

	conv := &sectionConverter{binData: binData, loadBin: loadBin, opts: opts}
	sec := &ir.Section{}
	sec.Blocks = conv.convertParas(xs.Paras, sec)
	return sec, nil
}

// convertParas mirrors the binary reader's convention: a table or image
// leaves an anchor marker in its hosting paragraph and lands as the next
// sibling block. sec은 구역 속성을 받을 대상이며 셀 안에서는 nil이다.
func (c *sectionConverter) convertParas(paras []xmlPara, sec *ir.Section) []ir.Block {
	blocks := make([]ir.Block, 0, len(paras))
	for _, xp := range paras {
		para := &ir.Paragraph{
			StyleID:     xp.StyleIDRef,
			ParaShapeID: xp.ParaPrIDRef,
			Runs:        make([]ir.Run, 0, 1),
		}
		var anchored []ir.Block

		for _, run := range xp.Runs {
			if run.SecPr != nil && sec != nil {
				applyPagePr(sec, run.SecPr.PagePr)
			}
			for _, item := range run.Items {
				switch {
				case item.table != nil:
					if tbl := c.convertTable(item.table); tbl != nil {
						para.AddMarker(run.CharPrIDRef, ir.MarkerAnchor)
						anchored = append(anchored, ir.TableBlockOf(tbl))
					}
				case item.pic != nil:
					if img := c.convertPic(item.pic); img != nil {
						para.AddMarker(run.CharPrIDRef, ir.MarkerAnchor)
						anchored = append(anchored, ir.ImageBlockOf(img))
					}
				case item.marker != ir.MarkerNone:
					para.AddMarker(run.CharPrIDRef, item.marker)
				default:
					c.appendText(para, run.CharPrIDRef, item.text)
				}
			}
		}

		if c.opts.KeepEmpty || !para.IsEmpty() {
			blocks = append(blocks, ir.ParagraphBlock(para))
		}
		blocks = append(blocks, anchored...)
	}
	return blocks
}

// appendText merges consecutive text of the same shape into one run.
func (c *sectionConverter) appendText(para *ir.Paragraph, shapeID int, text string) {
	n := len(para.Runs)
	if n > 0 && para.Runs[n-1].Marker == ir.MarkerNone && para.Runs[n-1].CharShapeID == shapeID {
		para.Runs[n-1].Text += text
		return
	}
	para.AddRun(shapeID, text)
}

func applyPagePr(sec *ir.Section, pp *xmlPagePr) {
	if pp == nil {
		return
	}
	sec.Page.Width = ir.HWPUnit(pp.Width)
	sec.Page.Height = ir.HWPUnit(pp.Height)
	sec.Page.Landscape = strings.EqualFold(pp.Landscape, "WIDELY")
	if m := pp.Margin; m != nil {
		sec.Page.MarginLeft = ir.HWPUnit(m.Left)
		sec.Page.MarginRight = ir.HWPUnit(m.Right)
		sec.Page.MarginTop = ir.HWPUnit(m.Top)
		sec.Page.MarginBottom = ir.HWPUnit(m.Bottom)
		sec.Page.HeaderOffset = ir.HWPUnit(m.Header)
		sec.Page.FooterOffset = ir.HWPUnit(m.Footer)
		sec.Page.GutterOffset = ir.HWPUnit(m.Gutter)
	}
}

func (c *sectionConverter) convertTable(xt *xmlTable) *ir.TableBlock {
	rows, cols := xt.RowCnt, xt.ColCnt
	if rows < 1 {
		rows = len(xt.Rows)
	}
	if cols < 1 {
		for _, tr := range xt.Rows {
			n := 0
			for _, tc := range tr.Cells {
				span := tc.Span.ColSpan
				if span < 1 {
					span = 1
				}
				n += span
			}
			if n > cols {
				cols = n
			}
		}
	}
	if rows < 1 || cols < 1 {
		parser.Warnf("표 크기를 알 수 없어 건너뜀")
		return nil
	}

	tbl := &ir.TableBlock{
		Rows:         rows,
		Cols:         cols,
		CellSpacing:  ir.HWPUnit(xt.CellSpacing),
		BorderFillID: xt.BorderFillIDRef,
	}
	if m := xt.InMargin; m != nil {
		tbl.InnerMargins = [4]ir.HWPUnit{
			ir.HWPUnit(m.Left), ir.HWPUnit(m.Right),
			ir.HWPUnit(m.Top), ir.HWPUnit(m.Bottom),
		}
	}

	for _, tr := range xt.Rows {
		for _, tc := range tr.Cells {
			cell := &ir.Cell{
				Row:          tc.Addr.RowAddr,
				Col:          tc.Addr.ColAddr,
				RowSpan:      tc.Span.RowSpan,
				ColSpan:      tc.Span.ColSpan,
				Width:        ir.HWPUnit(tc.Size.Width),
				Height:       ir.HWPUnit(tc.Size.Height),
				BorderFillID: tc.BorderFillIDRef,
			}
			if cell.RowSpan < 1 {
				cell.RowSpan = 1
			}
			if cell.ColSpan < 1 {
				cell.ColSpan = 1
			}
			if cell.Row+cell.RowSpan > tbl.Rows || cell.Col+cell.ColSpan > tbl.Cols {
				parser.Warnf("셀 (%d,%d) 병합 범위가 %dx%d 표를 벗어남",
					cell.Row, cell.Col, tbl.Rows, tbl.Cols)
				continue
			}
			if tbl.CellAt(cell.Row, cell.Col) != nil {
				parser.Warnf("셀 (%d,%d)이 겹침", cell.Row, cell.Col)
				continue
			}
			cell.Blocks = c.convertParas(tc.SubList.Paras, nil)
			if len(cell.Blocks) == 0 {
				cell.Blocks = []ir.Block{ir.ParagraphBlock(ir.NewParagraph(0, 0))}
			}
			tbl.Cells = append(tbl.Cells, cell)
		}
	}

	for r := 0; r < tbl.Rows; r++ {
		for col := 0; col < tbl.Cols; col++ {
			if tbl.CellAt(r, col) == nil {
				tbl.AddCell(&ir.Cell{
					Row: r, Col: col, RowSpan: 1, ColSpan: 1,
					Blocks: []ir.Block{ir.ParagraphBlock(ir.NewParagraph(0, 0))},
				})
			}
		}
	}
	sort.Slice(tbl.Cells, func(i, j int) bool {
		a, b := tbl.Cells[i], tbl.Cells[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return tbl
}

func (c *sectionConverter) convertPic(xp *xmlPic) *ir.ImageBlock {
	id := xp.Img.BinaryItemIDRef
	if id == "" {
		parser.Debugf("binaryItemIDRef 없는 그림 건너뜀")
		return nil
	}
	img := ir.NewImage(id)
	if xp.Size != nil {
		img.SetDimensions(ir.HWPUnit(xp.Size.Width), ir.HWPUnit(xp.Size.Height))
	}

	if href, ok := c.binData[id]; ok {
		img.Name = href
		img.Format = strings.TrimPrefix(strings.ToLower(path.Ext(href)), ".")
		if c.opts.LoadImages && c.loadBin != nil {
			if data, found := c.loadBin(href); found {
				img.Data = data
			} else {
				parser.Warnf("BinData %s을(를) 찾을 수 없음", href)
			}
		}
	}

	if xp.Caption != nil {
		for _, b := range c.convertParas(xp.Caption.SubList.Paras, nil) {
			if b.Type == ir.BlockTypeParagraph && !b.Paragraph.IsEmpty() {
				img.Caption = b.Paragraph
				break
			}
		}
	}
	return img
}
