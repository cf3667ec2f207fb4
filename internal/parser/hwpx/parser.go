// Package hwpx decodes and encodes HWPX (OWPML) documents. HWPX 파일은
// mimetype, version.xml, Contents/content.hpf(OPF 매니페스트), header.xml,
// section{N}.xml을 담은 ZIP 컨테이너다.
package hwpx

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

func init() {
	parser.Register(parser.Engine{
		Format:   parser.FormatHWPX,
		CanWrite: true,
		Open: func(path string, opts parser.Options) (parser.Reader, error) {
			return New(path, opts)
		},
	})
}

// Parser reads an HWPX container into the unified model.
type Parser struct {
	path string
	zr   *zip.ReadCloser
	opts parser.Options

	files    map[string]*zip.File
	manifest *Manifest
	version  *VersionInfo
}

// New opens an HWPX file and validates the container marker.
func New(path string, opts parser.Options) (*Parser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &parser.FormatError{
			Kind:   parser.BadSignature,
			Path:   path,
			Detail: "ZIP 컨테이너가 아닙니다",
			Err:    err,
		}
	}

	p := &Parser{
		path:  path,
		zr:    zr,
		opts:  opts,
		files: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		p.files[f.Name] = f
	}

	if err := p.checkMimeType(); err != nil {
		zr.Close()
		return nil, err
	}
	return p, nil
}

// checkMimeType validates the mimetype marker entry. 항목이 없으면 경고만
// 남긴다. 일부 생성기는 mimetype을 빠뜨린다.
func (p *Parser) checkMimeType() error {
	data, err := p.readEntry(EntryMimeType)
	if err != nil {
		parser.Warnf("mimetype 항목이 없습니다: %s", p.path)
		return nil
	}
	if got := strings.TrimSpace(string(data)); got != MimeType {
		return &parser.FormatError{
			Kind:   parser.BadSignature,
			Path:   p.path,
			Detail: fmt.Sprintf("mimetype이 %q입니다 (%q 필요)", got, MimeType),
		}
	}
	return nil
}

// readEntry reads one container member by name.
func (p *Parser) readEntry(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("컨테이너에 %s이(가) 없습니다", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%s 열기 실패: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Close releases the underlying archive.
func (p *Parser) Close() error {
	if p.zr == nil {
		return nil
	}
	err := p.zr.Close()
	p.zr = nil
	return err
}

// Manifest returns the parsed package manifest, nil before Parse or when
// the container has none.
func (p *Parser) Manifest() *Manifest { return p.manifest }

// Version returns the parsed version.xml info, nil when absent.
func (p *Parser) Version() *VersionInfo { return p.version }

// Parse reads the whole container into a Document.
func (p *Parser) Parse(ctx context.Context) (*ir.Document, error) {
	doc := ir.NewDocument("hwpx")
	doc.Metadata.Source = p.path

	if data, err := p.readEntry(EntryVersion); err == nil {
		if v, err := ParseVersion(data); err == nil {
			p.version = v
			doc.Version = v.String()
		} else {
			parser.Warnf("version.xml 파싱 실패: %v", err)
		}
	}

	if data, err := p.readEntry(EntryManifest); err == nil {
		m, err := ParseManifest(data)
		if err != nil {
			parser.Warnf("매니페스트 파싱 실패: %v", err)
		} else {
			p.manifest = m
			meta := m.ToMetadata()
			meta.Source = p.path
			doc.Metadata = meta
		}
	} else {
		parser.Warnf("매니페스트가 없습니다: %s", p.path)
	}

	if data, err := p.readEntry(EntryHeader); err == nil {
		table, _, err := ParseHeader(data)
		if err != nil {
			return nil, &parser.FormatError{
				Kind:   parser.CorruptStream,
				Path:   EntryHeader,
				Detail: "헤더 파싱 실패",
				Err:    err,
			}
		}
		doc.Styles = table
	} else {
		parser.Warnf("header.xml이 없습니다: %s", p.path)
	}

	paths := p.sectionPaths()
	if len(paths) == 0 {
		return nil, &parser.FormatError{
			Kind:   parser.CorruptStream,
			Path:   p.path,
			Detail: "섹션이 없습니다",
		}
	}

	binData := p.binDataItems()
	loadBin := func(href string) ([]byte, bool) {
		data, err := p.readEntry(href)
		if err != nil {
			return nil, false
		}
		return data, true
	}

	for _, name := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := p.readEntry(name)
		if err != nil {
			return nil, &parser.FormatError{
				Kind:   parser.CorruptStream,
				Path:   name,
				Detail: "섹션을 읽을 수 없습니다",
				Err:    err,
			}
		}
		sec, err := ParseSection(data, binData, loadBin, p.opts)
		if err != nil {
			return nil, &parser.FormatError{
				Kind:   parser.CorruptStream,
				Path:   name,
				Detail: "섹션 파싱 실패",
				Err:    err,
			}
		}
		doc.Sections = append(doc.Sections, sec)
	}

	return doc, nil
}

// sectionPaths returns section members in reading order: the manifest
// spine when present, otherwise a sorted scan of the archive.
func (p *Parser) sectionPaths() []string {
	if p.manifest != nil {
		if paths := p.manifest.SectionPaths(); len(paths) > 0 {
			var found []string
			for _, name := range paths {
				if _, ok := p.files[name]; ok {
					found = append(found, name)
				} else {
					parser.Warnf("매니페스트의 섹션 %s이(가) 컨테이너에 없습니다", name)
				}
			}
			if len(found) > 0 {
				return found
			}
		}
	}

	var paths []string
	for name := range p.files {
		lower := strings.ToLower(name)
		if strings.HasPrefix(name, "Contents/") &&
			strings.Contains(lower, "section") && strings.HasSuffix(lower, ".xml") {
			paths = append(paths, name)
		}
	}
	sort.Strings(paths)
	return paths
}

// binDataItems maps binary item id -> archive member. 매니페스트가 없으면
// BinData/ 아래 구성원 이름을 id로 쓴다.
func (p *Parser) binDataItems() map[string]string {
	if p.manifest != nil {
		if items := p.manifest.BinDataItems(); len(items) > 0 {
			return items
		}
	}
	items := make(map[string]string)
	for name := range p.files {
		if strings.HasPrefix(name, BinDataPrefix) {
			items[strings.TrimPrefix(name, BinDataPrefix)] = name
		}
	}
	return items
}
