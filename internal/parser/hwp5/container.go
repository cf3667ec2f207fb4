package hwp5

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/parkgeonsan/sandoc/internal/parser"
)

// StreamEntry describes one stream found in the compound file, in
// directory order.
type StreamEntry struct {
	Name string // 전체 경로, 예: "BodyText/Section0"
	Size int64
}

// Container is an opened HWP 5.x compound file with every stream loaded
// and the FileHeader validated. All further decoding works off this
// in-memory copy.
type Container struct {
	path    string
	header  *FileHeader
	streams map[string][]byte
	order   []StreamEntry
}

// OpenContainer reads the OLE2 structure, loads all streams, and checks
// that the document is a readable HWP 5.x file. Encrypted and DRM
// documents are rejected here, before any record decoding starts.
func OpenContainer(r io.ReaderAt, path string) (*Container, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return nil, &parser.FormatError{
			Kind:   parser.BadSignature,
			Path:   path,
			Detail: "OLE2 컨테이너가 아닙니다",
			Err:    err,
		}
	}

	c := &Container{
		path:    path,
		streams: make(map[string][]byte),
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		name := entry.Name
		if len(entry.Path) > 0 {
			name = strings.Join(entry.Path, "/") + "/" + entry.Name
		}
		data, readErr := io.ReadAll(entry)
		if readErr != nil {
			// 손상된 스트림: FileHeader가 아니면 건너뛰고 계속
			if name == StreamFileHeader {
				return nil, &parser.FormatError{
					Kind:   parser.CorruptStream,
					Path:   path,
					Detail: "FileHeader 스트림을 읽을 수 없습니다",
					Err:    readErr,
				}
			}
			parser.Warnf("스트림 %s 읽기 실패: %v", name, readErr)
			continue
		}
		c.streams[name] = data
		c.order = append(c.order, StreamEntry{Name: name, Size: int64(len(data))})
	}

	headerData, ok := c.streams[StreamFileHeader]
	if !ok {
		return nil, &parser.FormatError{
			Kind:   parser.BadSignature,
			Path:   path,
			Detail: "FileHeader 스트림이 없습니다",
		}
	}
	header, err := ParseFileHeader(headerData)
	if err != nil {
		return nil, err
	}
	if err := header.checkReadable(path); err != nil {
		return nil, err
	}
	c.header = header

	// 배포용 문서는 BodyText 대신 난독화된 ViewText만 담고 있다
	if len(c.SectionNames()) == 0 && c.hasPrefix(StreamViewText+"/") {
		return nil, &parser.FormatError{
			Kind:   parser.Unsupported,
			Path:   path,
			Detail: "배포용 문서(ViewText)는 지원하지 않습니다",
		}
	}

	return c, nil
}

// Header returns the validated file header.
func (c *Container) Header() *FileHeader {
	return c.header
}

// Stream returns the raw bytes of a stream by full path.
func (c *Container) Stream(name string) ([]byte, bool) {
	data, ok := c.streams[name]
	return data, ok
}

// Streams lists every stream in directory order.
func (c *Container) Streams() []StreamEntry {
	out := make([]StreamEntry, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Container) hasPrefix(prefix string) bool {
	for _, e := range c.order {
		if strings.HasPrefix(e.Name, prefix) {
			return true
		}
	}
	return false
}

// RecordStream returns a stream's record data, decompressed when the
// header says body streams are compressed.
func (c *Container) RecordStream(name string) ([]byte, error) {
	data, ok := c.streams[name]
	if !ok {
		return nil, &parser.FormatError{
			Kind:   parser.CorruptStream,
			Path:   c.path,
			Detail: fmt.Sprintf("%s 스트림이 없습니다", name),
		}
	}
	if !c.header.IsCompressed() {
		return data, nil
	}
	out, err := DecompressStream(data)
	if err != nil {
		return nil, &parser.FormatError{
			Kind:   parser.CorruptStream,
			Path:   c.path,
			Detail: fmt.Sprintf("%s 압축 해제 실패", name),
			Err:    err,
		}
	}
	return out, nil
}

// SectionNames returns the BodyText section stream names in section
// order (Section0, Section1, ...).
func (c *Container) SectionNames() []string {
	type sec struct {
		idx  int
		name string
	}
	var secs []sec
	prefix := StreamBodyText + "/Section"
	for name := range c.streams {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		idx, err := strconv.Atoi(name[len(prefix):])
		if err != nil {
			continue
		}
		secs = append(secs, sec{idx: idx, name: name})
	}
	sort.Slice(secs, func(i, j int) bool { return secs[i].idx < secs[j].idx })

	names := make([]string, len(secs))
	for i, s := range secs {
		names[i] = s.name
	}
	return names
}

// BinDataStream returns embedded binary data by storage name, e.g.
// "BIN0001.png". 압축 플래그가 켜져 있어도 이미 압축된 포맷(PNG/JPG)은
// 원본 그대로 저장된 경우가 있어 해제 실패 시 원본을 돌려준다.
func (c *Container) BinDataStream(name string) ([]byte, bool) {
	data, ok := c.streams[StreamBinData+"/"+name]
	if !ok {
		return nil, false
	}
	if c.header.IsCompressed() {
		if out, err := DecompressStream(data); err == nil {
			return out, true
		}
	}
	return data, true
}

// SummaryStream returns the \x05HwpSummaryInformation property set bytes.
func (c *Container) SummaryStream() ([]byte, bool) {
	data, ok := c.streams[StreamSummaryInfo]
	return data, ok
}
