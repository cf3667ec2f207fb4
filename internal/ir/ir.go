// Package ir defines the format-neutral document model shared by the HWP 5.x
// and HWPX readers and by the HWPX writer. A Document owns its Sections, the
// Sections own ordered Blocks, and all style entities live in a single
// id-indexed StyleTable so that blocks reference styles by integer id.
package ir

// HWPUnit is the base linear unit of both formats: 1/7200 inch.
// Character heights use the same unit (height 1000 = 10pt).
type HWPUnit int

// MM converts the unit value to millimeters.
func (u HWPUnit) MM() float64 {
	return float64(u) * 25.4 / 7200.0
}

// Pt converts the unit value to points (1pt = 100 HWPUnit).
func (u HWPUnit) Pt() float64 {
	return float64(u) / 100.0
}

// FromMM converts millimeters to HWPUnit.
func FromMM(mm float64) HWPUnit {
	return HWPUnit(mm * 7200.0 / 25.4)
}

// FromPt converts points to HWPUnit.
func FromPt(pt float64) HWPUnit {
	return HWPUnit(pt * 100.0)
}

// Document is the root of the unified model.
// Invariant: a successfully parsed document has at least one Section.
type Document struct {
	Format   string     `json:"format"`            // "hwp5" or "hwpx"
	Version  string     `json:"version,omitempty"` // source format version (e.g. "5.0.3.0")
	Metadata Metadata   `json:"metadata"`
	Sections []*Section `json:"sections"`
	Styles   *StyleTable `json:"styles,omitempty"`
}

// Metadata contains document summary information.
type Metadata struct {
	Source   string `json:"source,omitempty"` // originating file path
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// NewDocument creates an empty document with an initialized style table.
func NewDocument(format string) *Document {
	return &Document{
		Format:   format,
		Sections: make([]*Section, 0, 1),
		Styles:   NewStyleTable(),
	}
}

// AddSection appends a section and returns it.
func (d *Document) AddSection(page PageGeometry) *Section {
	sec := &Section{Page: page, Blocks: make([]Block, 0)}
	d.Sections = append(d.Sections, sec)
	return sec
}

// Section owns page geometry and an ordered block sequence.
// Sections are append-only once loaded and are never reordered.
type Section struct {
	Page   PageGeometry `json:"page"`
	Blocks []Block      `json:"blocks"`
}

// PageGeometry describes paper size and margins in HWPUnit.
type PageGeometry struct {
	Width        HWPUnit `json:"width"`
	Height       HWPUnit `json:"height"`
	MarginLeft   HWPUnit `json:"margin_left"`
	MarginRight  HWPUnit `json:"margin_right"`
	MarginTop    HWPUnit `json:"margin_top"`
	MarginBottom HWPUnit `json:"margin_bottom"`
	HeaderOffset HWPUnit `json:"header_offset,omitempty"`
	FooterOffset HWPUnit `json:"footer_offset,omitempty"`
	GutterOffset HWPUnit `json:"gutter_offset,omitempty"`
	Landscape    bool    `json:"landscape,omitempty"`
}

// BlockType represents the kind of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
	BlockTypeImage     BlockType = "image"
)

// Block is the tagged block variant. Exactly one of the pointer fields
// matching Type is set.
type Block struct {
	Type      BlockType   `json:"type"`
	Paragraph *Paragraph  `json:"paragraph,omitempty"`
	Table     *TableBlock `json:"table,omitempty"`
	Image     *ImageBlock `json:"image,omitempty"`
}

// ParagraphBlock wraps a paragraph into a Block.
func ParagraphBlock(p *Paragraph) Block {
	return Block{Type: BlockTypeParagraph, Paragraph: p}
}

// TableBlockOf wraps a table into a Block.
func TableBlockOf(t *TableBlock) Block {
	return Block{Type: BlockTypeTable, Table: t}
}

// ImageBlockOf wraps an image into a Block.
func ImageBlockOf(img *ImageBlock) Block {
	return Block{Type: BlockTypeImage, Image: img}
}

// AddParagraph appends a paragraph block to the section.
func (s *Section) AddParagraph(p *Paragraph) {
	s.Blocks = append(s.Blocks, ParagraphBlock(p))
}

// AddTable appends a table block to the section.
func (s *Section) AddTable(t *TableBlock) {
	s.Blocks = append(s.Blocks, TableBlockOf(t))
}

// AddImage appends an image block to the section.
func (s *Section) AddImage(img *ImageBlock) {
	s.Blocks = append(s.Blocks, ImageBlockOf(img))
}

// Text returns the plain text of the block, empty for images.
func (b Block) Text() string {
	switch b.Type {
	case BlockTypeParagraph:
		if b.Paragraph != nil {
			return b.Paragraph.Text()
		}
	case BlockTypeTable:
		if b.Table != nil {
			return b.Table.Text()
		}
	}
	return ""
}
