package hwp5

import (
	"context"
	"fmt"
	"os"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

func init() {
	parser.Register(parser.Engine{
		Format: parser.FormatHWP,
		Open: func(path string, opts parser.Options) (parser.Reader, error) {
			return New(path, opts)
		},
	})
}

// Parser reads one HWP 5.x file into the unified document model.
type Parser struct {
	path      string
	file      *os.File
	container *Container
	opts      parser.Options
}

// New opens and validates an HWP 5.x file. 암호화/DRM/배포용 문서는
// 여기서 거부된다.
func New(path string, opts parser.Options) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("파일 열기 실패: %w", err)
	}

	container, err := OpenContainer(file, path)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Parser{
		path:      path,
		file:      file,
		container: container,
		opts:      opts,
	}, nil
}

// Close releases the underlying file.
func (p *Parser) Close() error {
	return p.file.Close()
}

// Header returns the validated file header.
func (p *Parser) Header() *FileHeader {
	return p.container.Header()
}

// Container returns the opened compound file.
func (p *Parser) Container() *Container {
	return p.container
}

// Parse decodes the whole document: summary info, DocInfo styles, then
// every BodyText section in order.
func (p *Parser) Parse(ctx context.Context) (*ir.Document, error) {
	doc := ir.NewDocument("hwp5")
	doc.Version = p.container.Header().Version.String()
	doc.Metadata.Source = p.path

	if data, ok := p.container.SummaryStream(); ok {
		ParseSummaryInfo(data, &doc.Metadata)
	}

	docInfoData, err := p.container.RecordStream(StreamDocInfo)
	if err != nil {
		return nil, err
	}
	docInfo, err := ParseDocInfo(docInfoData)
	if err != nil {
		return nil, err
	}
	doc.Styles = docInfo.Table

	names := p.container.SectionNames()
	if len(names) == 0 {
		return nil, &parser.FormatError{
			Kind:   parser.CorruptStream,
			Path:   p.path,
			Detail: "BodyText 섹션이 없습니다",
		}
	}
	if docInfo.SectionCount != len(names) {
		parser.Warnf("구역 수 불일치: 문서 속성 %d개, 스트림 %d개",
			docInfo.SectionCount, len(names))
	}

	sp := NewSectionParser(docInfo, p.opts, p.container.BinDataStream)
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		data, err := p.container.RecordStream(name)
		if err != nil {
			return nil, err
		}
		sec, err := sp.Parse(data, name)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, sec)
	}

	return doc, nil
}
