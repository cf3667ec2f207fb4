package hwp5

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// TextItem is one decoded piece of a PARA_TEXT record: a run of plain
// text, or a single control marker. Pos is the item's start offset in
// WCHAR units, matching the positions PARA_CHAR_SHAPE uses.
type TextItem struct {
	Pos    int
	Marker ir.MarkerKind // MarkerNone이면 텍스트 항목
	Text   string
	CtrlID string // 확장 컨트롤의 4문자 ID ("tbl ", "gso ", "secd" 등)
}

// IsText reports whether the item carries plain text.
func (t TextItem) IsText() bool {
	return t.Marker == ir.MarkerNone
}

// markerForCode maps the control codes that survive into the document
// model. Codes without a mapping are structural bookkeeping and only
// advance the position counter.
func markerForCode(code uint16) (ir.MarkerKind, bool) {
	switch code {
	case CharFieldStart:
		return ir.MarkerFieldStart, true
	case CharFieldEnd:
		return ir.MarkerFieldEnd, true
	case CharTitleMark:
		return ir.MarkerTitleMark, true
	case CharTab:
		return ir.MarkerTab, true
	case CharLineBreak:
		return ir.MarkerLineBreak, true
	case CharGsoTable:
		return ir.MarkerAnchor, true
	case CharParaBreak:
		return ir.MarkerParaBreak, true
	case CharHyphen:
		return ir.MarkerHyphen, true
	case CharBundleSpace:
		return ir.MarkerBundleSpace, true
	case CharFixedSpace:
		return ir.MarkerFixedSpace, true
	}
	return ir.MarkerNone, false
}

// ParseParaText decodes a PARA_TEXT record into text and marker items.
// 제어 문자 0~31: char 타입은 1 WCHAR, inline/extended 타입은 8 WCHAR
// (코드 + 14바이트)를 차지한다. 확장 컨트롤의 추가 데이터 처음 4바이트는
// 역순으로 저장된 컨트롤 ID다.
func ParseParaText(data []byte) []TextItem {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	var items []TextItem
	var buf []uint16
	bufStart := 0

	flush := func() {
		if len(buf) > 0 {
			items = append(items, TextItem{Pos: bufStart, Text: string(utf16.Decode(buf))})
			buf = nil
		}
	}

	pos := 0
	for i := 0; i+2 <= len(data); {
		code := binary.LittleEndian.Uint16(data[i : i+2])

		if code >= 32 {
			if len(buf) == 0 {
				bufStart = pos
			}
			buf = append(buf, code)
			i += 2
			pos++
			continue
		}

		flush()
		size := ctrlCharSize(code)
		item := TextItem{Pos: pos}
		if kind, ok := markerForCode(code); ok {
			item.Marker = kind
			if size == 8 && i+6 <= len(data) {
				item.CtrlID = reverseCtrlID(data[i+2 : i+6])
			}
			items = append(items, item)
		}
		i += size * 2
		pos += size
	}
	flush()
	return items
}

// reverseCtrlID decodes a byte-reversed 4-char control ID.
func reverseCtrlID(b []byte) string {
	return string([]byte{b[3], b[2], b[1], b[0]})
}

// PlainText renders a PARA_TEXT record as plain text: tabs become \t,
// line breaks become \n, everything else invisible.
func PlainText(data []byte) string {
	var sb strings.Builder
	for _, item := range ParseParaText(data) {
		switch item.Marker {
		case ir.MarkerNone:
			sb.WriteString(item.Text)
		case ir.MarkerTab:
			sb.WriteByte('\t')
		case ir.MarkerLineBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// DecodeUTF16LE converts UTF-16LE bytes to a Go string, trimming NUL
// padding. 레코드 안의 글꼴 이름, 스타일 이름 등에 쓰인다.
func DecodeUTF16LE(data []byte) string {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	u16 := make([]uint16, len(data)/2)
	for i := range u16 {
		u16[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	return strings.TrimRight(string(utf16.Decode(u16)), "\x00")
}

// shapeRef is one (position, char shape ID) pair from PARA_CHAR_SHAPE.
type shapeRef struct {
	pos int
	id  int
}

// parseCharShapeRefs decodes PARA_CHAR_SHAPE: uint32 쌍 (시작 위치,
// 글자 모양 ID)의 나열.
func parseCharShapeRefs(data []byte) []shapeRef {
	n := len(data) / 8
	refs := make([]shapeRef, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, shapeRef{
			pos: int(binary.LittleEndian.Uint32(data[i*8 : i*8+4])),
			id:  int(binary.LittleEndian.Uint32(data[i*8+4 : i*8+8])),
		})
	}
	return refs
}

// shapeAt returns the char shape ID active at a WCHAR position.
func shapeAt(refs []shapeRef, pos int) int {
	id := 0
	for _, ref := range refs {
		if ref.pos > pos {
			break
		}
		id = ref.id
	}
	return id
}

// BuildRuns merges decoded text items with char-shape references into
// document runs. Text items spanning a shape boundary are split so each
// run carries exactly one shape ID. 문단 끝(MarkerParaBreak)은 문단 구조
// 자체가 표현하므로 마지막 항목이면 버린다.
func BuildRuns(items []TextItem, refs []shapeRef) []ir.Run {
	var runs []ir.Run

	for idx, item := range items {
		if item.Marker == ir.MarkerParaBreak && idx == len(items)-1 {
			break
		}
		if item.Marker != ir.MarkerNone {
			runs = append(runs, ir.Run{
				CharShapeID: shapeAt(refs, item.Pos),
				Marker:      item.Marker,
			})
			continue
		}

		// 텍스트: 모양 경계마다 분할
		units := utf16.Encode([]rune(item.Text))
		start := 0
		startID := shapeAt(refs, item.Pos)
		for u := 1; u <= len(units); u++ {
			var id int
			if u < len(units) {
				id = shapeAt(refs, item.Pos+u)
			}
			if u == len(units) || id != startID {
				runs = append(runs, ir.Run{
					CharShapeID: startID,
					Text:        string(utf16.Decode(units[start:u])),
				})
				start = u
				startID = id
			}
		}
	}
	return runs
}
