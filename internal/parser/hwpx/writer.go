package hwpx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

// 직렬화는 통합 모델을 OWPML 구성원으로 되돌린다. 문단에 닻 마커가 있으면
// 뒤따르는 표/그림 블록을 그 자리(run 안)에 도로 심는다. 읽기와 쓰기가
// 서로의 역이 되도록 요소·속성은 리더가 소비하는 것만 내보낸다.

// OWPML 네임스페이스
const (
	nsHead      = "http://www.hancom.co.kr/hwpml/2011/head"
	nsParagraph = "http://www.hancom.co.kr/hwpml/2011/paragraph"
	nsSection   = "http://www.hancom.co.kr/hwpml/2011/section"
	nsCore      = "http://www.hancom.co.kr/hwpml/2011/core"
	nsVersion   = "http://www.hancom.co.kr/hwpml/2011/version"
	nsOPF       = "http://www.idpf.org/2007/opf/"
	nsOCF       = "urn:oasis:names:tc:opendocument:xmlns:container"
)

// WriteDocument serializes doc into w as a complete HWPX container.
// The mimetype marker is written first and uncompressed so other tools
// can probe it at a fixed offset.
func WriteDocument(w io.Writer, doc *ir.Document) error {
	if doc == nil {
		return fmt.Errorf("nil 문서는 저장할 수 없습니다")
	}
	if len(doc.Sections) == 0 {
		return fmt.Errorf("구역이 없는 문서는 저장할 수 없습니다")
	}

	bins, refs := collectImages(doc)

	zw := zip.NewWriter(w)
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: EntryMimeType, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("mimetype 생성 실패: %w", err)
	}
	if _, err := io.WriteString(mw, MimeType); err != nil {
		return fmt.Errorf("mimetype 쓰기 실패: %w", err)
	}

	type member struct {
		name string
		data []byte
	}
	members := make([]member, 0, 4+len(doc.Sections))

	version, err := buildVersionXML(doc.Version)
	if err != nil {
		return fmt.Errorf("version.xml 생성 실패: %w", err)
	}
	members = append(members, member{EntryVersion, version})

	container, err := buildContainerXML()
	if err != nil {
		return fmt.Errorf("container.xml 생성 실패: %w", err)
	}
	members = append(members, member{EntryContainer, container})

	manifest, err := buildManifestXML(doc.Metadata, len(doc.Sections), bins)
	if err != nil {
		return fmt.Errorf("매니페스트 생성 실패: %w", err)
	}
	members = append(members, member{EntryManifest, manifest})

	header, err := buildHeaderXML(doc.Styles, len(doc.Sections))
	if err != nil {
		return fmt.Errorf("header.xml 생성 실패: %w", err)
	}
	members = append(members, member{EntryHeader, header})

	for i, sec := range doc.Sections {
		data, err := buildSectionXML(sec, refs)
		if err != nil {
			return fmt.Errorf("섹션 %d 생성 실패: %w", i, err)
		}
		members = append(members, member{sectionMemberName(i), data})
	}

	for _, bin := range bins {
		if len(bin.data) > 0 {
			members = append(members, member{bin.href, bin.data})
		}
	}

	for _, m := range members {
		f, err := zw.Create(m.name)
		if err != nil {
			return fmt.Errorf("%s 생성 실패: %w", m.name, err)
		}
		if _, err := f.Write(m.data); err != nil {
			return fmt.Errorf("%s 쓰기 실패: %w", m.name, err)
		}
	}
	return zw.Close()
}

func sectionMemberName(idx int) string {
	return fmt.Sprintf("Contents/section%d.xml", idx)
}

// binItem is one BinData member scheduled for the archive.
type binItem struct {
	id   string
	href string
	data []byte
}

// collectImages walks every block (nested tables included) and assigns
// each distinct image a manifest id and archive member. 같은 id의 그림은
// 한 번만 싣는다.
func collectImages(doc *ir.Document) ([]binItem, map[*ir.ImageBlock]string) {
	var items []binItem
	refs := make(map[*ir.ImageBlock]string)
	seen := make(map[string]bool)
	usedHref := make(map[string]bool)

	var walk func(blocks []ir.Block)
	walk = func(blocks []ir.Block) {
		for _, blk := range blocks {
			switch blk.Type {
			case ir.BlockTypeTable:
				if blk.Table != nil {
					for _, cell := range blk.Table.Cells {
						walk(cell.Blocks)
					}
				}
			case ir.BlockTypeImage:
				img := blk.Image
				if img == nil {
					continue
				}
				id := img.BinDataID
				if id == "" {
					id = fmt.Sprintf("img%d", len(items)+1)
				}
				refs[img] = id
				if seen[id] {
					continue
				}
				seen[id] = true
				href := memberHref(img, id, usedHref)
				usedHref[href] = true
				items = append(items, binItem{id: id, href: href, data: img.Data})
			}
		}
	}
	for _, sec := range doc.Sections {
		walk(sec.Blocks)
	}
	return items, refs
}

func memberHref(img *ir.ImageBlock, id string, used map[string]bool) string {
	name := path.Base(img.Name)
	if name == "" || name == "." {
		ext := img.Format
		if ext == "" {
			ext = "bin"
		}
		name = id + "." + ext
	}
	href := BinDataPrefix + name
	for used[href] {
		name = id + "_" + name
		href = BinDataPrefix + name
	}
	return href
}

func mediaTypeForHref(href string) string {
	switch path.Ext(href) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// xmlBuilder wraps an encoder with an element stack and a sticky error,
// emitting prefixed names literally.
type xmlBuilder struct {
	enc   *xml.Encoder
	stack []string
	err   error
}

func newXMLBuilder(buf *bytes.Buffer) *xmlBuilder {
	buf.WriteString(xml.Header)
	return &xmlBuilder{enc: xml.NewEncoder(buf)}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func attrInt(name string, v int) xml.Attr {
	return attr(name, strconv.Itoa(v))
}

func (b *xmlBuilder) start(name string, attrs ...xml.Attr) {
	if b.err != nil {
		return
	}
	b.err = b.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
	if b.err == nil {
		b.stack = append(b.stack, name)
	}
}

func (b *xmlBuilder) end() {
	if b.err != nil || len(b.stack) == 0 {
		return
	}
	name := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.err = b.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (b *xmlBuilder) leaf(name string, attrs ...xml.Attr) {
	b.start(name, attrs...)
	b.end()
}

func (b *xmlBuilder) text(s string) {
	if b.err != nil {
		return
	}
	b.err = b.enc.EncodeToken(xml.CharData(s))
}

func (b *xmlBuilder) elem(name, content string) {
	b.start(name)
	b.text(content)
	b.end()
}

func (b *xmlBuilder) finish() error {
	if b.err != nil {
		return b.err
	}
	if len(b.stack) != 0 {
		return fmt.Errorf("닫히지 않은 요소: %s", b.stack[len(b.stack)-1])
	}
	return b.enc.Flush()
}

func buildVersionXML(version string) ([]byte, error) {
	major, minor, micro, build := 5, 0, 5, 0
	if version != "" {
		var a, b, c, d int
		if _, err := fmt.Sscanf(version, "%d.%d.%d.%d", &a, &b, &c, &d); err == nil {
			major, minor, micro, build = a, b, c, d
		}
	}

	var buf bytes.Buffer
	xb := newXMLBuilder(&buf)
	// tagetApplication은 실제 포맷의 속성 이름 그대로다 (오타 포함)
	xb.leaf("hv:HCFVersion",
		attr("xmlns:hv", nsVersion),
		attr("tagetApplication", "WORDPROCESSOR"),
		attrInt("major", major),
		attrInt("minor", minor),
		attrInt("micro", micro),
		attrInt("buildNumber", build),
		attr("os", "10"),
		attr("xmlVersion", "1.4"),
		attr("application", "sandoc"),
	)
	if err := xb.finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildContainerXML emits the OCF container descriptor pointing viewers
// at the package manifest.
func buildContainerXML() ([]byte, error) {
	var buf bytes.Buffer
	xb := newXMLBuilder(&buf)
	xb.start("ocf:container", attr("xmlns:ocf", nsOCF))
	xb.start("ocf:rootfiles")
	xb.leaf("ocf:rootfile",
		attr("full-path", EntryManifest),
		attr("media-type", "application/hwpml-package+xml"),
	)
	xb.end()
	xb.end()
	if err := xb.finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildManifestXML(meta ir.Metadata, sections int, bins []binItem) ([]byte, error) {
	var buf bytes.Buffer
	xb := newXMLBuilder(&buf)
	xb.start("opf:package",
		attr("xmlns:opf", nsOPF),
		attr("version", "1.0"),
		attr("unique-identifier", "_uid"),
	)

	xb.start("opf:metadata")
	if meta.Title != "" {
		xb.elem("opf:title", meta.Title)
	}
	xb.elem("opf:language", "ko")
	if meta.Author != "" {
		xb.elem("opf:creator", meta.Author)
	}
	if meta.Subject != "" {
		xb.elem("opf:subject", meta.Subject)
	}
	if meta.Keywords != "" {
		xb.elem("opf:keywords", meta.Keywords)
	}
	if meta.Created != "" {
		xb.elem("opf:date", meta.Created)
	}
	xb.end()

	xb.start("opf:manifest")
	xb.leaf("opf:item",
		attr("id", "header"),
		attr("href", EntryHeader),
		attr("media-type", "application/xml"),
	)
	for i := 0; i < sections; i++ {
		xb.leaf("opf:item",
			attr("id", fmt.Sprintf("section%d", i)),
			attr("href", sectionMemberName(i)),
			attr("media-type", "application/xml"),
		)
	}
	for _, bin := range bins {
		xb.leaf("opf:item",
			attr("id", bin.id),
			attr("href", bin.href),
			attr("media-type", mediaTypeForHref(bin.href)),
		)
	}
	xb.end()

	xb.start("opf:spine")
	for i := 0; i < sections; i++ {
		xb.leaf("opf:itemref", attr("idref", fmt.Sprintf("section%d", i)))
	}
	xb.end()

	xb.end()
	if err := xb.finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildHeaderXML(st *ir.StyleTable, secCnt int) ([]byte, error) {
	if st == nil {
		st = ir.NewStyleTable()
	}

	var buf bytes.Buffer
	xb := newXMLBuilder(&buf)
	xb.start("hh:head",
		attr("xmlns:hh", nsHead),
		attr("xmlns:hc", nsCore),
		attr("version", "1.4"),
		attrInt("secCnt", secCnt),
	)
	xb.start("hh:refList")

	if len(st.FaceNames) > 0 {
		xb.start("hh:fontfaces", attrInt("itemCnt", 1))
		xb.start("hh:fontface", attr("lang", "HANGUL"), attrInt("fontCnt", len(st.FaceNames)))
		for i, f := range st.FaceNames {
			xb.leaf("hh:font", attrInt("id", i), attr("face", f.Name), attr("type", "TTF"))
		}
		xb.end()
		xb.end()
	}

	if len(st.BorderFills) > 0 {
		xb.start("hh:borderFills", attrInt("itemCnt", len(st.BorderFills)))
		for i, bf := range st.BorderFills {
			xb.start("hh:borderFill", attrInt("id", i+1), attr("threeD", "0"), attr("shadow", "0"))
			if bf.Shaded {
				xb.start("hh:fillBrush")
				xb.leaf("hh:winBrush",
					attr("faceColor", FormatHexColor(bf.FillColor)),
					attr("hatchColor", "#999999"),
					attr("alpha", "0"),
				)
				xb.end()
			}
			xb.end()
		}
		xb.end()
	}

	if len(st.CharShapes) > 0 {
		xb.start("hh:charProperties", attrInt("itemCnt", len(st.CharShapes)))
		for i, cs := range st.CharShapes {
			xb.start("hh:charPr",
				attrInt("id", i),
				attrInt("height", int(cs.Height)),
				attr("textColor", FormatHexColor(cs.Color)),
				attr("useFontSpace", "0"),
				attr("useKerning", "0"),
			)
			xb.leaf("hh:fontRef",
				attrInt("hangul", cs.FaceIDs[0]),
				attrInt("latin", cs.FaceIDs[1]),
				attrInt("hanja", cs.FaceIDs[2]),
				attrInt("japanese", cs.FaceIDs[3]),
				attrInt("other", cs.FaceIDs[4]),
				attrInt("symbol", cs.FaceIDs[5]),
				attrInt("user", cs.FaceIDs[6]),
			)
			if cs.Bold {
				xb.leaf("hh:bold")
			}
			if cs.Italic {
				xb.leaf("hh:italic")
			}
			if cs.Underline {
				xb.leaf("hh:underline", attr("type", "BOTTOM"), attr("shape", "SOLID"))
			}
			xb.end()
		}
		xb.end()
	}

	if len(st.TabDefs) > 0 {
		xb.start("hh:tabProperties", attrInt("itemCnt", len(st.TabDefs)))
		for i := range st.TabDefs {
			xb.leaf("hh:tabPr", attrInt("id", i), attr("autoTabLeft", "0"), attr("autoTabRight", "0"))
		}
		xb.end()
	}

	if len(st.Numberings) > 0 {
		xb.start("hh:numberings", attrInt("itemCnt", len(st.Numberings)))
		for i, num := range st.Numberings {
			xb.start("hh:numbering", attrInt("id", i+1), attrInt("start", 1))
			for lv, rule := range num.Levels {
				if rule.Format == "" && rule.Start == 0 {
					continue
				}
				xb.start("hh:paraHead", attrInt("level", lv+1), attrInt("start", rule.Start))
				xb.text(rule.Format)
				xb.end()
			}
			xb.end()
		}
		xb.end()
	}

	if len(st.Bullets) > 0 {
		xb.start("hh:bullets", attrInt("itemCnt", len(st.Bullets)))
		for i, bu := range st.Bullets {
			xb.leaf("hh:bullet", attrInt("id", i+1), attr("char", bu.Char))
		}
		xb.end()
	}

	if len(st.ParaShapes) > 0 {
		xb.start("hh:paraProperties", attrInt("itemCnt", len(st.ParaShapes)))
		for i, ps := range st.ParaShapes {
			xb.start("hh:paraPr", attrInt("id", i), attrInt("tabPrIDRef", ps.TabDefID))
			xb.leaf("hh:align", attr("horizontal", AlignToXML(ps.Align)))
			if ps.HeadingKind > 0 {
				xb.leaf("hh:heading",
					attr("type", HeadingToXML(ps.HeadingKind)),
					attrInt("idRef", ps.NumberingID),
				)
			}
			xb.start("hh:margin")
			xb.leaf("hc:intent", attrInt("value", int(ps.Indent)), attr("unit", "HWPUNIT"))
			xb.leaf("hc:left", attrInt("value", int(ps.MarginLeft)), attr("unit", "HWPUNIT"))
			xb.leaf("hc:right", attrInt("value", int(ps.MarginRight)), attr("unit", "HWPUNIT"))
			xb.leaf("hc:prev", attrInt("value", int(ps.SpacingBefore)), attr("unit", "HWPUNIT"))
			xb.leaf("hc:next", attrInt("value", int(ps.SpacingAfter)), attr("unit", "HWPUNIT"))
			xb.end()
			xb.leaf("hh:lineSpacing",
				attr("type", LineSpacingToXML(ps.LineSpacingKind)),
				attrInt("value", ps.LineSpacing),
				attr("unit", "PERCENT"),
			)
			if ps.BorderFillID > 0 {
				xb.leaf("hh:border", attrInt("borderFillIDRef", ps.BorderFillID))
			}
			xb.end()
		}
		xb.end()
	}

	if len(st.Styles) > 0 {
		xb.start("hh:styles", attrInt("itemCnt", len(st.Styles)))
		for i, s := range st.Styles {
			typ := "PARA"
			if s.Kind == ir.StyleKindChar {
				typ = "CHAR"
			}
			xb.leaf("hh:style",
				attrInt("id", i),
				attr("type", typ),
				attr("name", s.Name),
				attr("engName", s.EngName),
				attrInt("paraPrIDRef", s.ParaShapeID),
				attrInt("charPrIDRef", s.CharShapeID),
				attrInt("nextStyleIDRef", s.NextStyleID),
				attr("langID", "1042"),
			)
		}
		xb.end()
	}

	xb.end()
	xb.end()
	if err := xb.finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sectionWriter carries the builder and image id map through one section.
type sectionWriter struct {
	b    *xmlBuilder
	refs map[*ir.ImageBlock]string
}

func buildSectionXML(sec *ir.Section, refs map[*ir.ImageBlock]string) ([]byte, error) {
	var buf bytes.Buffer
	xb := newXMLBuilder(&buf)
	xb.start("hs:sec",
		attr("xmlns:hs", nsSection),
		attr("xmlns:hp", nsParagraph),
		attr("xmlns:hc", nsCore),
	)

	sw := &sectionWriter{b: xb, refs: refs}
	sw.writeBlocks(sec.Blocks, &sec.Page)

	xb.end()
	if err := xb.finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBlocks serializes a block sequence. 문단의 닻 마커 개수만큼 바로
// 뒤의 표/그림 블록을 거둬들여 그 문단 안에 되심는다. page는 구역 속성을
// 실을 첫 문단에 전달되고 셀 안에서는 nil이다.
func (sw *sectionWriter) writeBlocks(blocks []ir.Block, page *ir.PageGeometry) {
	secPr := page
	for i := 0; i < len(blocks); i++ {
		blk := blocks[i]
		switch blk.Type {
		case ir.BlockTypeParagraph:
			if blk.Paragraph == nil {
				continue
			}
			n := anchorCount(blk.Paragraph)
			var claimed []ir.Block
			for len(claimed) < n && i+1 < len(blocks) && isAnchorable(blocks[i+1]) {
				i++
				claimed = append(claimed, blocks[i])
			}
			sw.writePara(blk.Paragraph, claimed, secPr)
			secPr = nil
		case ir.BlockTypeTable, ir.BlockTypeImage:
			// 닻 없는 블록: 전용 문단에 싣는다
			sw.writeHostPara(blk, secPr)
			secPr = nil
		}
	}
	if secPr != nil && *secPr != (ir.PageGeometry{}) {
		// 블록 없는 구역에도 용지 정보는 남긴다
		sw.writePara(ir.NewParagraph(0, 0), nil, secPr)
	}
}

func anchorCount(p *ir.Paragraph) int {
	n := 0
	for _, r := range p.Runs {
		if r.Marker == ir.MarkerAnchor {
			n++
		}
	}
	return n
}

func isAnchorable(b ir.Block) bool {
	return b.Type == ir.BlockTypeTable || b.Type == ir.BlockTypeImage
}

// writeHostPara wraps a bare table/image in its own paragraph.
func (sw *sectionWriter) writeHostPara(blk ir.Block, secPr *ir.PageGeometry) {
	host := ir.NewParagraph(0, 0)
	host.AddMarker(0, ir.MarkerAnchor)
	sw.writePara(host, []ir.Block{blk}, secPr)
}

func (sw *sectionWriter) writePara(p *ir.Paragraph, claimed []ir.Block, secPr *ir.PageGeometry) {
	b := sw.b
	b.start("hp:p",
		attrInt("paraPrIDRef", p.ParaShapeID),
		attrInt("styleIDRef", p.StyleID),
		attr("pageBreak", "0"),
		attr("columnBreak", "0"),
		attr("merged", "0"),
	)

	if len(p.Runs) == 0 && secPr != nil {
		b.start("hp:run", attrInt("charPrIDRef", 0))
		sw.writeSecPr(secPr)
		b.end()
	}

	ci := 0
	i := 0
	for i < len(p.Runs) {
		shape := p.Runs[i].CharShapeID
		b.start("hp:run", attrInt("charPrIDRef", shape))
		if secPr != nil {
			sw.writeSecPr(secPr)
			secPr = nil
		}
		for i < len(p.Runs) && p.Runs[i].CharShapeID == shape {
			r := p.Runs[i]
			switch r.Marker {
			case ir.MarkerNone:
				b.elem("hp:t", r.Text)
			case ir.MarkerAnchor:
				if ci < len(claimed) {
					sw.writeAnchored(claimed[ci])
					ci++
				} else {
					parser.Debugf("대응하는 블록 없는 닻 마커를 건너뜀")
				}
			case ir.MarkerParaBreak:
				// 문단 경계는 문단 요소 자체가 표현한다
			default:
				if name := MarkerElementName(r.Marker); name != "" {
					b.leaf("hp:" + name)
				}
			}
			i++
		}
		b.end()
	}

	b.end()
}

func (sw *sectionWriter) writeSecPr(page *ir.PageGeometry) {
	b := sw.b
	landscape := "NARROWLY"
	if page.Landscape {
		landscape = "WIDELY"
	}
	b.start("hp:secPr")
	b.start("hp:pagePr",
		attr("landscape", landscape),
		attrInt("width", int(page.Width)),
		attrInt("height", int(page.Height)),
		attr("gutterType", "LEFT_ONLY"),
	)
	b.leaf("hp:margin",
		attrInt("header", int(page.HeaderOffset)),
		attrInt("footer", int(page.FooterOffset)),
		attrInt("gutter", int(page.GutterOffset)),
		attrInt("left", int(page.MarginLeft)),
		attrInt("right", int(page.MarginRight)),
		attrInt("top", int(page.MarginTop)),
		attrInt("bottom", int(page.MarginBottom)),
	)
	b.end()
	b.end()
}

func (sw *sectionWriter) writeAnchored(blk ir.Block) {
	switch blk.Type {
	case ir.BlockTypeTable:
		if blk.Table != nil {
			sw.writeTable(blk.Table)
		}
	case ir.BlockTypeImage:
		if blk.Image != nil {
			sw.writePic(blk.Image)
		}
	}
}

func (sw *sectionWriter) writeTable(t *ir.TableBlock) {
	b := sw.b
	b.start("hp:tbl",
		attrInt("rowCnt", t.Rows),
		attrInt("colCnt", t.Cols),
		attrInt("cellSpacing", int(t.CellSpacing)),
		attrInt("borderFillIDRef", t.BorderFillID),
		attr("repeatHeader", "1"),
	)
	b.leaf("hp:inMargin",
		attrInt("left", int(t.InnerMargins[0])),
		attrInt("right", int(t.InnerMargins[1])),
		attrInt("top", int(t.InnerMargins[2])),
		attrInt("bottom", int(t.InnerMargins[3])),
	)

	rows := make([][]*ir.Cell, t.Rows)
	for _, c := range t.Cells {
		if c.Row < 0 || c.Row >= t.Rows {
			continue
		}
		rows[c.Row] = append(rows[c.Row], c)
	}
	for _, cells := range rows {
		if len(cells) == 0 {
			continue
		}
		sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })
		b.start("hp:tr")
		for _, c := range cells {
			sw.writeCell(c)
		}
		b.end()
	}
	b.end()
}

func (sw *sectionWriter) writeCell(c *ir.Cell) {
	b := sw.b
	b.start("hp:tc", attrInt("borderFillIDRef", c.BorderFillID))
	b.start("hp:subList",
		attr("textDirection", "HORIZONTAL"),
		attr("lineWrap", "BREAK"),
		attr("vertAlign", "CENTER"),
	)
	sw.writeBlocks(c.Blocks, nil)
	b.end()
	b.leaf("hp:cellAddr", attrInt("colAddr", c.Col), attrInt("rowAddr", c.Row))
	b.leaf("hp:cellSpan", attrInt("colSpan", c.ColSpan), attrInt("rowSpan", c.RowSpan))
	b.leaf("hp:cellSz", attrInt("width", int(c.Width)), attrInt("height", int(c.Height)))
	b.end()
}

func (sw *sectionWriter) writePic(img *ir.ImageBlock) {
	b := sw.b
	b.start("hp:pic")
	b.leaf("hc:img", attr("binaryItemIDRef", sw.refs[img]))
	b.leaf("hp:sz", attrInt("width", int(img.Width)), attrInt("height", int(img.Height)))
	if img.Caption != nil {
		b.start("hp:caption")
		b.start("hp:subList")
		sw.writePara(img.Caption, nil, nil)
		b.end()
		b.end()
	}
	b.end()
}
