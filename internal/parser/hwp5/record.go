package hwp5

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/parkgeonsan/sandoc/internal/parser"
)

// RecordHeader는 레코드의 32비트 헤더
// TagID (10비트) | Level (10비트) | Size (12비트)
type RecordHeader uint32

// TagID returns the record tag (lower 10 bits).
func (h RecordHeader) TagID() uint16 {
	return uint16(h & 0x3FF)
}

// Level returns the nesting depth (middle 10 bits).
func (h RecordHeader) Level() uint16 {
	return uint16((h >> 10) & 0x3FF)
}

// Size returns the payload size field (upper 12 bits). A value of 0xFFF
// means the real size follows the header as an extra uint32.
func (h RecordHeader) Size() uint32 {
	return uint32((h >> 20) & 0xFFF)
}

// Record는 파싱된 단일 레코드
type Record struct {
	TagID uint16
	Level uint16
	Size  uint32
	Data  []byte
}

// RecordReader walks a decompressed stream record by record.
type RecordReader struct {
	data   []byte
	offset int
	stream string // 진단용 스트림 이름
}

// NewRecordReader creates a reader over stream data. The stream name only
// feeds error messages.
func NewRecordReader(data []byte, stream string) *RecordReader {
	return &RecordReader{data: data, stream: stream}
}

// Next returns the next record, or io.EOF at end of stream. A header that
// promises more bytes than the stream holds is fatal: the stream is cut off
// and nothing after this point can be trusted.
func (r *RecordReader) Next() (*Record, error) {
	if r.offset >= len(r.data) {
		return nil, io.EOF
	}
	if r.offset+4 > len(r.data) {
		return nil, r.truncated("레코드 헤더가 잘림")
	}

	header := RecordHeader(binary.LittleEndian.Uint32(r.data[r.offset : r.offset+4]))
	r.offset += 4

	size := header.Size()
	if size == 0xFFF {
		// 확장 크기: 헤더 뒤 4바이트에 실제 크기
		if r.offset+4 > len(r.data) {
			return nil, r.truncated("확장 크기 필드가 잘림")
		}
		size = binary.LittleEndian.Uint32(r.data[r.offset : r.offset+4])
		r.offset += 4
	}

	if uint32(len(r.data)-r.offset) < size {
		return nil, r.truncated(fmt.Sprintf("태그 0x%04X: 데이터 %d바이트 필요, %d바이트 남음",
			header.TagID(), size, len(r.data)-r.offset))
	}

	rec := &Record{
		TagID: header.TagID(),
		Level: header.Level(),
		Size:  size,
		Data:  r.data[r.offset : r.offset+int(size)],
	}
	r.offset += int(size)
	return rec, nil
}

func (r *RecordReader) truncated(detail string) error {
	return &parser.FormatError{
		Kind:   parser.TruncatedRecord,
		Path:   r.stream,
		Detail: detail,
	}
}

// ReadAll drains the stream into a flat record list.
func (r *RecordReader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// RecordNode is a record with its nested children resolved.
type RecordNode struct {
	*Record
	Children []*RecordNode
}

// FindChild returns the first direct child with the given tag, or nil.
func (n *RecordNode) FindChild(tagID uint16) *RecordNode {
	for _, c := range n.Children {
		if c.TagID == tagID {
			return c
		}
	}
	return nil
}

// FindChildren returns all direct children with the given tag.
func (n *RecordNode) FindChildren(tagID uint16) []*RecordNode {
	var out []*RecordNode
	for _, c := range n.Children {
		if c.TagID == tagID {
			out = append(out, c)
		}
	}
	return out
}

// BuildTree reconstructs record nesting from the flat list using the level
// field. A stack holds the open record at each level; a record at level N
// becomes a child of the stack entry at N-1. Records that skip levels are
// attached to the deepest open ancestor, so a malformed level never drops
// data.
func BuildTree(records []*Record) []*RecordNode {
	var roots []*RecordNode
	var stack []*RecordNode

	for _, rec := range records {
		node := &RecordNode{Record: rec}
		level := int(rec.Level)

		if level > len(stack) {
			level = len(stack)
		}
		stack = stack[:level]

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			p := stack[len(stack)-1]
			p.Children = append(p.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

// DecompressStream inflates record stream data. HWP 스트림은 보통
// 헤더 없는 raw deflate지만 zlib 헤더가 붙은 경우도 있어 둘 다 시도한다.
func DecompressStream(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("빈 스트림")
	}

	// zlib 헤더(0x78)로 시작하면 zlib 먼저 시도
	if data[0] == 0x78 {
		if out, err := tryZlib(data); err == nil {
			return out, nil
		}
	}

	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()

	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("압축 해제 실패: %w", err)
	}
	return out, nil
}

func tryZlib(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// TagName returns a readable name for known record tags. 알 수 없는 태그는
// 16진수 문자열로 반환.
func TagName(tagID uint16) string {
	names := map[uint16]string{
		TagDocumentProperties: "DOCUMENT_PROPERTIES",
		TagIDMappings:         "ID_MAPPINGS",
		TagBinData:            "BIN_DATA",
		TagFaceName:           "FACE_NAME",
		TagBorderFill:         "BORDER_FILL",
		TagCharShape:          "CHAR_SHAPE",
		TagTabDef:             "TAB_DEF",
		TagNumbering:          "NUMBERING",
		TagBullet:             "BULLET",
		TagParaShape:          "PARA_SHAPE",
		TagStyle:              "STYLE",
		TagDocData:            "DOC_DATA",
		TagDistributeDocData:  "DISTRIBUTE_DOC_DATA",
		TagCompatibleDocument: "COMPATIBLE_DOCUMENT",
		TagLayoutCompatible:   "LAYOUT_COMPATIBLE",
		TagTrackChange:        "TRACK_CHANGE",
		TagMemoShape:          "MEMO_SHAPE",
		TagForbiddenChar:      "FORBIDDEN_CHAR",
		TagParaHeader:         "PARA_HEADER",
		TagParaText:           "PARA_TEXT",
		TagParaCharShape:      "PARA_CHAR_SHAPE",
		TagParaLineSeg:        "PARA_LINE_SEG",
		TagParaRangeTag:       "PARA_RANGE_TAG",
		TagCtrlHeader:         "CTRL_HEADER",
		TagListHeader:         "LIST_HEADER",
		TagPageDef:            "PAGE_DEF",
		TagFootnoteShape:      "FOOTNOTE_SHAPE",
		TagPageBorderFill:     "PAGE_BORDER_FILL",
		TagShapeComponent:     "SHAPE_COMPONENT",
		TagTable:              "TABLE",
		TagShapeLine:          "SHAPE_COMPONENT_LINE",
		TagShapeRectangle:     "SHAPE_COMPONENT_RECTANGLE",
		TagShapeEllipse:       "SHAPE_COMPONENT_ELLIPSE",
		TagShapeArc:           "SHAPE_COMPONENT_ARC",
		TagShapePolygon:       "SHAPE_COMPONENT_POLYGON",
		TagShapeCurve:         "SHAPE_COMPONENT_CURVE",
		TagShapeOLE:           "SHAPE_COMPONENT_OLE",
		TagShapePicture:       "SHAPE_COMPONENT_PICTURE",
		TagShapeContainer:     "SHAPE_COMPONENT_CONTAINER",
		TagCtrlData:           "CTRL_DATA",
		TagEqEdit:             "EQEDIT",
		TagCtrlFormField:      "FORM_OBJECT",
		TagMemoList:           "MEMO_LIST",
		TagChartData:          "CHART_DATA",
		TagVideoData:          "VIDEO_DATA",
	}
	if name, ok := names[tagID]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_0x%04X", tagID)
}
