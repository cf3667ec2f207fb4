package hwp5

import (
	"encoding/binary"
	"fmt"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

// DocInfo is the decoded DocInfo stream: section count plus the style
// arena every body record references by id.
type DocInfo struct {
	SectionCount int
	Table        *ir.StyleTable
}

// ParseDocInfo decodes the DocInfo record stream. Unknown tags are
// skipped with a debug log; a truncated record aborts the whole parse.
func ParseDocInfo(data []byte) (*DocInfo, error) {
	records, err := NewRecordReader(data, StreamDocInfo).ReadAll()
	if err != nil {
		return nil, err
	}

	info := &DocInfo{
		SectionCount: 1,
		Table:        ir.NewStyleTable(),
	}

	for _, rec := range records {
		switch rec.TagID {
		case TagDocumentProperties:
			info.parseDocumentProperties(rec.Data)
		case TagIDMappings:
			// 엔터티 개수 테이블: 실제 엔터티는 뒤따르는 레코드로 채워짐
		case TagBinData:
			info.parseBinData(rec.Data)
		case TagFaceName:
			info.parseFaceName(rec.Data)
		case TagBorderFill:
			info.parseBorderFill(rec.Data)
		case TagCharShape:
			info.parseCharShape(rec.Data)
		case TagTabDef:
			info.parseTabDef(rec.Data)
		case TagNumbering:
			info.parseNumbering(rec.Data)
		case TagBullet:
			info.parseBullet(rec.Data)
		case TagParaShape:
			info.parseParaShape(rec.Data)
		case TagStyle:
			info.parseStyle(rec.Data)
		default:
			parser.Debugf("DocInfo: %s (%d바이트) 건너뜀", TagName(rec.TagID), rec.Size)
		}
	}
	return info, nil
}

// parseDocumentProperties: 구역 개수 uint16 하나면 충분하다. 나머지는
// 시작 번호와 캐럿 위치.
func (d *DocInfo) parseDocumentProperties(data []byte) {
	if len(data) < 2 {
		return
	}
	d.SectionCount = int(binary.LittleEndian.Uint16(data[0:2]))
	if d.SectionCount < 1 {
		d.SectionCount = 1
	}
}

// parseBinData: type 하위 4비트가 저장 방식 (0 링크, 1 임베딩, 2 스토리지)
func (d *DocInfo) parseBinData(data []byte) {
	if len(data) < 2 {
		return
	}
	typ := binary.LittleEndian.Uint16(data[0:2])

	entry := ir.BinDataEntry{}
	switch typ & 0x000F {
	case 0:
		entry.Kind = ir.BinDataLink
		// 절대 경로 + 상대 경로, 길이 접두 UTF-16 문자열 두 개
		abs, next := readPrefixedString(data, 2)
		entry.AbsPath = abs
		_, _ = readPrefixedString(data, next)
	case 1:
		entry.Kind = ir.BinDataEmbed
		if len(data) >= 4 {
			entry.StorageID = binary.LittleEndian.Uint16(data[2:4])
		}
		ext, _ := readPrefixedString(data, 4)
		entry.Ext = ext
	case 2:
		entry.Kind = ir.BinDataStored
		if len(data) >= 4 {
			entry.StorageID = binary.LittleEndian.Uint16(data[2:4])
		}
	}
	d.Table.BinData = append(d.Table.BinData, entry)
}

// readPrefixedString reads a WORD-length-prefixed UTF-16LE string at
// offset. Returns the string and the offset past it.
func readPrefixedString(data []byte, offset int) (string, int) {
	if offset+2 > len(data) {
		return "", len(data)
	}
	n := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	start := offset + 2
	end := start + n*2
	if end > len(data) {
		end = len(data)
	}
	return DecodeUTF16LE(data[start:end]), end
}

// parseFaceName: 속성 1바이트 + 길이 접두 이름. 대체 글꼴 정보는 무시.
func (d *DocInfo) parseFaceName(data []byte) {
	if len(data) < 3 {
		d.Table.FaceNames = append(d.Table.FaceNames, ir.FaceName{})
		return
	}
	name, _ := readPrefixedString(data, 1)
	d.Table.FaceNames = append(d.Table.FaceNames, ir.FaceName{Name: name})
}

// parseBorderFill: 테두리 4방향과 대각선을 지나 채우기 정보만 취한다.
// 채우기 type 비트 0이 단색 채우기.
func (d *DocInfo) parseBorderFill(data []byte) {
	bf := ir.BorderFill{}
	// 속성(2) + 4×테두리(6) + 대각선(6) = 32, 채우기 type은 32부터
	if len(data) >= 40 {
		fillType := binary.LittleEndian.Uint32(data[32:36])
		if fillType&0x01 != 0 {
			bf.Shaded = true
			bf.FillColor = binary.LittleEndian.Uint32(data[36:40])
		}
	}
	d.Table.BorderFills = append(d.Table.BorderFills, bf)
}

// parseCharShape: 72바이트 고정 레이아웃
// 언어별 글꼴 ID 7개(0:14), 장평 등 7바이트 테이블 4벌(14:42),
// 크기(42:46), 속성(46:50), 글자색(52:56)
func (d *DocInfo) parseCharShape(data []byte) {
	cs := ir.CharShape{}
	if len(data) < 50 {
		parser.Warnf("CHAR_SHAPE 레코드가 너무 짧음: %d바이트", len(data))
		d.Table.CharShapes = append(d.Table.CharShapes, cs)
		return
	}

	for i := 0; i < 7; i++ {
		cs.FaceIDs[i] = int(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	cs.Height = ir.HWPUnit(int32(binary.LittleEndian.Uint32(data[42:46])))

	// 속성 비트: 0 기울임, 1 진하게, 2~3 밑줄 위치
	attrs := binary.LittleEndian.Uint32(data[46:50])
	cs.Italic = attrs&0x01 != 0
	cs.Bold = attrs&0x02 != 0
	cs.Underline = (attrs>>2)&0x03 != 0

	if len(data) >= 56 {
		cs.Color = binary.LittleEndian.Uint32(data[52:56])
	}
	d.Table.CharShapes = append(d.Table.CharShapes, cs)
}

// parseTabDef: 속성과 탭 개수만 유지한다. 개별 탭 위치는 해석하지 않음.
func (d *DocInfo) parseTabDef(data []byte) {
	td := ir.TabDef{}
	if len(data) >= 4 {
		td.Attrs = binary.LittleEndian.Uint32(data[0:4])
	}
	if len(data) >= 6 {
		td.Count = int(binary.LittleEndian.Uint16(data[4:6]))
	}
	d.Table.TabDefs = append(d.Table.TabDefs, td)
}

// parseNumbering: 7개 수준 각각 문단 머리 정보 12바이트 + 길이 접두
// 형식 문자열. 수준들 뒤에 시작 번호가 온다 (5.0.2.5부터 수준별 uint32).
func (d *DocInfo) parseNumbering(data []byte) {
	scheme := ir.NumberingScheme{}
	offset := 0
	for level := 0; level < 7; level++ {
		if offset+12 > len(data) {
			break
		}
		offset += 12 // 속성(4) + 너비 보정(2) + 본문 거리(2) + 글자 모양 ID(4)
		format, next := readPrefixedString(data, offset)
		scheme.Levels[level].Format = format
		scheme.Levels[level].Start = 1
		offset = next
	}
	if offset+2 <= len(data) {
		start := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if start > 0 {
			for level := range scheme.Levels {
				scheme.Levels[level].Start = start
			}
		}
	}
	if offset+28 <= len(data) {
		for level := 0; level < 7; level++ {
			start := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
			if start > 0 {
				scheme.Levels[level].Start = start
			}
			offset += 4
		}
	}
	d.Table.Numberings = append(d.Table.Numberings, scheme)
}

// parseBullet: 문단 머리 정보 12바이트 뒤의 글머리표 문자 하나
func (d *DocInfo) parseBullet(data []byte) {
	b := ir.Bullet{}
	if len(data) >= 14 {
		b.Char = DecodeUTF16LE(data[12:14])
	}
	d.Table.Bullets = append(d.Table.Bullets, b)
}

// paragraph alignment values in PARA_SHAPE attribute bits 2~4
var alignTable = map[uint32]ir.Alignment{
	0: ir.AlignJustify,
	1: ir.AlignLeft,
	2: ir.AlignRight,
	3: ir.AlignCenter,
	4: ir.AlignDistribute,
	5: ir.AlignDistribute,
}

// parseParaShape: 54바이트 이상 고정 레이아웃
// 속성1(0:4), 왼쪽/오른쪽 여백과 들여쓰기(4:16), 문단 간격(16:24),
// 줄 간격(24:28, 구버전), 탭/번호/테두리 ID(28:34)
func (d *DocInfo) parseParaShape(data []byte) {
	ps := ir.ParaShape{Align: ir.AlignJustify, LineSpacing: 160, LineSpacingKind: ir.LineSpacingPercent}
	if len(data) < 28 {
		parser.Warnf("PARA_SHAPE 레코드가 너무 짧음: %d바이트", len(data))
		d.Table.ParaShapes = append(d.Table.ParaShapes, ps)
		return
	}

	attrs1 := binary.LittleEndian.Uint32(data[0:4])
	if align, ok := alignTable[(attrs1>>2)&0x07]; ok {
		ps.Align = align
	}
	switch attrs1 & 0x03 {
	case 0:
		ps.LineSpacingKind = ir.LineSpacingPercent
	case 1:
		ps.LineSpacingKind = ir.LineSpacingFixed
	default:
		ps.LineSpacingKind = ir.LineSpacingAtLeast
	}
	// 비트 23~24: 문단 머리 종류 (0 없음, 1 개요, 2 번호, 3 글머리표)
	ps.HeadingKind = uint8((attrs1 >> 23) & 0x03)

	ps.MarginLeft = ir.HWPUnit(int32(binary.LittleEndian.Uint32(data[4:8])))
	ps.MarginRight = ir.HWPUnit(int32(binary.LittleEndian.Uint32(data[8:12])))
	ps.Indent = ir.HWPUnit(int32(binary.LittleEndian.Uint32(data[12:16])))
	ps.SpacingBefore = ir.HWPUnit(int32(binary.LittleEndian.Uint32(data[16:20])))
	ps.SpacingAfter = ir.HWPUnit(int32(binary.LittleEndian.Uint32(data[20:24])))
	ps.LineSpacing = int(int32(binary.LittleEndian.Uint32(data[24:28])))

	if len(data) >= 30 {
		ps.TabDefID = int(binary.LittleEndian.Uint16(data[28:30]))
	}
	if len(data) >= 32 {
		ps.NumberingID = int(binary.LittleEndian.Uint16(data[30:32]))
	}
	if len(data) >= 34 {
		ps.BorderFillID = int(binary.LittleEndian.Uint16(data[32:34]))
	}
	// 번호/글머리표 문단이 아니면 ID 필드는 묵은 값일 수 있다
	if ps.HeadingKind != 2 && ps.HeadingKind != 3 {
		ps.NumberingID = 0
	}
	d.Table.ParaShapes = append(d.Table.ParaShapes, ps)
}

// parseStyle: 한글 이름 + 영문 이름 + 종류 + 다음 스타일 + 모양 ID들
func (d *DocInfo) parseStyle(data []byte) {
	st := ir.Style{}

	name, offset := readPrefixedString(data, 0)
	st.Name = name
	engName, offset := readPrefixedString(data, offset)
	st.EngName = engName

	// 종류(1) + 다음 스타일 ID(1) + 언어 ID(2) + 문단 모양 ID(2) + 글자 모양 ID(2)
	if offset+8 <= len(data) {
		if data[offset]&0x07 == 1 {
			st.Kind = ir.StyleKindChar
		}
		st.NextStyleID = int(data[offset+1])
		st.ParaShapeID = int(binary.LittleEndian.Uint16(data[offset+4 : offset+6]))
		st.CharShapeID = int(binary.LittleEndian.Uint16(data[offset+6 : offset+8]))
	}
	d.Table.Styles = append(d.Table.Styles, st)
}

// GetBinDataPath returns the BinData storage stream name for an embedded
// entry, e.g. "BIN0002.png".
func GetBinDataPath(entry ir.BinDataEntry) string {
	ext := entry.Ext
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("BIN%04X.%s", entry.StorageID, ext)
}
