package hwpx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// header.xml의 참조 목록(refList)을 스타일 테이블로 해석한다.
// 요소 이름은 접두사 없이 로컬 이름으로만 맞추므로 hh: 네임스페이스
// 유무와 무관하게 동작한다.

type xmlHead struct {
	XMLName xml.Name   `xml:"head"`
	SecCnt  int        `xml:"secCnt,attr"`
	RefList xmlRefList `xml:"refList"`
}

type xmlRefList struct {
	FontFaces  []xmlFontFace `xml:"fontfaces>fontface"`
	BorderFill []xmlBorderFill `xml:"borderFills>borderFill"`
	CharPrs    []xmlCharPr   `xml:"charProperties>charPr"`
	TabPrs     []xmlTabPr    `xml:"tabProperties>tabPr"`
	Numberings []xmlNumbering `xml:"numberings>numbering"`
	Bullets    []xmlBullet   `xml:"bullets>bullet"`
	ParaPrs    []xmlParaPr   `xml:"paraProperties>paraPr"`
	Styles     []xmlStyle    `xml:"styles>style"`
}

type xmlFontFace struct {
	Lang  string    `xml:"lang,attr"`
	Fonts []xmlFont `xml:"font"`
}

type xmlFont struct {
	ID   int    `xml:"id,attr"`
	Face string `xml:"face,attr"`
}

type xmlBorderFill struct {
	ID        int          `xml:"id,attr"`
	FillBrush *xmlFillBrush `xml:"fillBrush"`
}

type xmlFillBrush struct {
	WinBrush *xmlWinBrush `xml:"winBrush"`
}

type xmlWinBrush struct {
	FaceColor string `xml:"faceColor,attr"`
}

type xmlCharPr struct {
	ID        int           `xml:"id,attr"`
	Height    int           `xml:"height,attr"`
	TextColor string        `xml:"textColor,attr"`
	FontRef   *xmlFontRef   `xml:"fontRef"`
	Bold      *struct{}     `xml:"bold"`
	Italic    *struct{}     `xml:"italic"`
	Underline *xmlUnderline `xml:"underline"`
}

type xmlFontRef struct {
	Hangul   int `xml:"hangul,attr"`
	Latin    int `xml:"latin,attr"`
	Hanja    int `xml:"hanja,attr"`
	Japanese int `xml:"japanese,attr"`
	Other    int `xml:"other,attr"`
	Symbol   int `xml:"symbol,attr"`
	User     int `xml:"user,attr"`
}

type xmlUnderline struct {
	Type string `xml:"type,attr"`
}

type xmlTabPr struct {
	ID int `xml:"id,attr"`
}

type xmlNumbering struct {
	ID    int           `xml:"id,attr"`
	Start int           `xml:"start,attr"`
	Heads []xmlParaHead `xml:"paraHead"`
}

type xmlParaHead struct {
	Level  int    `xml:"level,attr"`
	Start  int    `xml:"start,attr"`
	Format string `xml:",chardata"`
}

type xmlBullet struct {
	ID   int    `xml:"id,attr"`
	Char string `xml:"char,attr"`
}

type xmlParaPr struct {
	ID          int             `xml:"id,attr"`
	TabPrIDRef  int             `xml:"tabPrIDRef,attr"`
	Align       *xmlAlign       `xml:"align"`
	Heading     *xmlHeading     `xml:"heading"`
	Margin      *xmlParaMargin  `xml:"margin"`
	LineSpacing *xmlLineSpacing `xml:"lineSpacing"`
	Border      *xmlParaBorder  `xml:"border"`
}

type xmlAlign struct {
	Horizontal string `xml:"horizontal,attr"`
}

type xmlHeading struct {
	Type  string `xml:"type,attr"`
	IDRef int    `xml:"idRef,attr"`
}

type xmlParaMargin struct {
	Intent xmlValue `xml:"intent"`
	Left   xmlValue `xml:"left"`
	Right  xmlValue `xml:"right"`
	Prev   xmlValue `xml:"prev"`
	Next   xmlValue `xml:"next"`
}

type xmlValue struct {
	Value int `xml:"value,attr"`
}

type xmlLineSpacing struct {
	Type  string `xml:"type,attr"`
	Value int    `xml:"value,attr"`
}

type xmlParaBorder struct {
	BorderFillIDRef int `xml:"borderFillIDRef,attr"`
}

type xmlStyle struct {
	ID              int    `xml:"id,attr"`
	Type            string `xml:"type,attr"`
	Name            string `xml:"name,attr"`
	EngName         string `xml:"engName,attr"`
	ParaPrIDRef     int    `xml:"paraPrIDRef,attr"`
	CharPrIDRef     int    `xml:"charPrIDRef,attr"`
	NextStyleIDRef  int    `xml:"nextStyleIDRef,attr"`
}

// 정렬 문자열 <-> 모델 값
var alignFromXML = map[string]ir.Alignment{
	"JUSTIFY":          ir.AlignJustify,
	"LEFT":             ir.AlignLeft,
	"RIGHT":            ir.AlignRight,
	"CENTER":           ir.AlignCenter,
	"DISTRIBUTE":       ir.AlignDistribute,
	"DISTRIBUTE_SPACE": ir.AlignDistribute,
}

// AlignToXML maps a model alignment to its header.xml attribute value.
func AlignToXML(a ir.Alignment) string {
	switch a {
	case ir.AlignLeft:
		return "LEFT"
	case ir.AlignRight:
		return "RIGHT"
	case ir.AlignCenter:
		return "CENTER"
	case ir.AlignDistribute:
		return "DISTRIBUTE"
	default:
		return "JUSTIFY"
	}
}

var headingFromXML = map[string]uint8{
	"NONE":    0,
	"OUTLINE": 1,
	"NUMBER":  2,
	"BULLET":  3,
}

// HeadingToXML maps a heading kind back to its attribute value.
func HeadingToXML(kind uint8) string {
	switch kind {
	case 1:
		return "OUTLINE"
	case 2:
		return "NUMBER"
	case 3:
		return "BULLET"
	default:
		return "NONE"
	}
}

// LineSpacingToXML maps a spacing kind to its attribute value.
func LineSpacingToXML(kind ir.LineSpacingKind) string {
	switch kind {
	case ir.LineSpacingFixed:
		return "FIXED"
	case ir.LineSpacingAtLeast:
		return "AT_LEAST"
	default:
		return "PERCENT"
	}
}

// ParseHeader decodes header.xml into a style table. Returns the
// declared section count alongside (0 when absent).
func ParseHeader(data []byte) (*ir.StyleTable, int, error) {
	var head xmlHead
	if err := xml.Unmarshal(data, &head); err != nil {
		return nil, 0, fmt.Errorf("header.xml 파싱 실패: %w", err)
	}

	table := ir.NewStyleTable()

	// 글꼴: HANGUL 언어 블록을 기준으로 id 순서대로 싣는다
	faces := head.RefList.FontFaces
	var primary []xmlFont
	for _, ff := range faces {
		if strings.EqualFold(ff.Lang, "HANGUL") {
			primary = ff.Fonts
			break
		}
	}
	if primary == nil && len(faces) > 0 {
		primary = faces[0].Fonts
	}
	for _, f := range primary {
		table.FaceNames = append(table.FaceNames, ir.FaceName{Name: f.Face})
	}

	for _, bf := range head.RefList.BorderFill {
		fill := ir.BorderFill{}
		if bf.FillBrush != nil && bf.FillBrush.WinBrush != nil {
			if color, ok := parseHexColor(bf.FillBrush.WinBrush.FaceColor); ok {
				fill.Shaded = true
				fill.FillColor = color
			}
		}
		table.BorderFills = append(table.BorderFills, fill)
	}

	for _, cp := range head.RefList.CharPrs {
		cs := ir.CharShape{Height: ir.HWPUnit(cp.Height)}
		if cp.FontRef != nil {
			cs.FaceIDs = [7]int{
				cp.FontRef.Hangul, cp.FontRef.Latin, cp.FontRef.Hanja,
				cp.FontRef.Japanese, cp.FontRef.Other, cp.FontRef.Symbol,
				cp.FontRef.User,
			}
		}
		cs.Bold = cp.Bold != nil
		cs.Italic = cp.Italic != nil
		cs.Underline = cp.Underline != nil && !strings.EqualFold(cp.Underline.Type, "NONE")
		if color, ok := parseHexColor(cp.TextColor); ok {
			cs.Color = color
		}
		table.CharShapes = append(table.CharShapes, cs)
	}

	for range head.RefList.TabPrs {
		table.TabDefs = append(table.TabDefs, ir.TabDef{})
	}

	for _, num := range head.RefList.Numberings {
		scheme := ir.NumberingScheme{}
		for _, h := range num.Heads {
			level := h.Level
			if level < 1 || level > 7 {
				continue
			}
			start := h.Start
			if start < 1 {
				start = 1
			}
			scheme.Levels[level-1] = ir.NumberLevel{
				Format: strings.TrimSpace(h.Format),
				Start:  start,
			}
		}
		table.Numberings = append(table.Numberings, scheme)
	}

	for _, b := range head.RefList.Bullets {
		table.Bullets = append(table.Bullets, ir.Bullet{Char: b.Char})
	}

	for _, pp := range head.RefList.ParaPrs {
		ps := ir.ParaShape{
			Align:           ir.AlignJustify,
			LineSpacing:     160,
			LineSpacingKind: ir.LineSpacingPercent,
			TabDefID:        pp.TabPrIDRef,
		}
		if pp.Align != nil {
			if a, ok := alignFromXML[strings.ToUpper(pp.Align.Horizontal)]; ok {
				ps.Align = a
			}
		}
		if pp.Heading != nil {
			ps.HeadingKind = headingFromXML[strings.ToUpper(pp.Heading.Type)]
			if ps.HeadingKind == 2 || ps.HeadingKind == 3 {
				ps.NumberingID = pp.Heading.IDRef
			}
		}
		if pp.Margin != nil {
			ps.Indent = ir.HWPUnit(pp.Margin.Intent.Value)
			ps.MarginLeft = ir.HWPUnit(pp.Margin.Left.Value)
			ps.MarginRight = ir.HWPUnit(pp.Margin.Right.Value)
			ps.SpacingBefore = ir.HWPUnit(pp.Margin.Prev.Value)
			ps.SpacingAfter = ir.HWPUnit(pp.Margin.Next.Value)
		}
		if pp.LineSpacing != nil {
			ps.LineSpacing = pp.LineSpacing.Value
			switch strings.ToUpper(pp.LineSpacing.Type) {
			case "FIXED":
				ps.LineSpacingKind = ir.LineSpacingFixed
			case "AT_LEAST", "ATLEAST", "BETWEEN_LINES", "BETWEENLINES":
				ps.LineSpacingKind = ir.LineSpacingAtLeast
			default:
				ps.LineSpacingKind = ir.LineSpacingPercent
			}
		}
		if pp.Border != nil {
			ps.BorderFillID = pp.Border.BorderFillIDRef
		}
		table.ParaShapes = append(table.ParaShapes, ps)
	}

	for _, st := range head.RefList.Styles {
		style := ir.Style{
			Name:        st.Name,
			EngName:     st.EngName,
			ParaShapeID: st.ParaPrIDRef,
			CharShapeID: st.CharPrIDRef,
			NextStyleID: st.NextStyleIDRef,
		}
		if strings.EqualFold(st.Type, "CHAR") {
			style.Kind = ir.StyleKindChar
		}
		table.Styles = append(table.Styles, style)
	}

	return table, head.SecCnt, nil
}

// parseHexColor parses "#RRGGBB" into the 0x00BBGGRR form the binary
// format uses. "none"과 빈 값은 색 없음.
func parseHexColor(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return 0, false
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, false
	}
	var r, g, b uint32
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, false
	}
	return b<<16 | g<<8 | r, true
}

// FormatHexColor renders a 0x00BBGGRR color as "#RRGGBB".
func FormatHexColor(c uint32) string {
	return fmt.Sprintf("#%02X%02X%02X", c&0xFF, (c>>8)&0xFF, (c>>16)&0xFF)
}
