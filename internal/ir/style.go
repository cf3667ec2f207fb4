package ir

// Alignment is the paragraph alignment kind shared by both formats.
type Alignment string

const (
	AlignJustify    Alignment = "justify"
	AlignLeft       Alignment = "left"
	AlignRight      Alignment = "right"
	AlignCenter     Alignment = "center"
	AlignDistribute Alignment = "distribute"
)

// LineSpacingKind distinguishes percent-of-glyph spacing from fixed spacing.
type LineSpacingKind string

const (
	LineSpacingPercent LineSpacingKind = "percent"
	LineSpacingFixed   LineSpacingKind = "fixed"
	LineSpacingAtLeast LineSpacingKind = "at_least"
)

// FaceName is a font-face entry of the document.
type FaceName struct {
	Name string `json:"name"`
}

// CharShape is a character style entity. FaceIDs holds one face-name id per
// script slot (hangul, latin, hanja, japanese, other, symbol, user).
type CharShape struct {
	FaceIDs   [7]int  `json:"face_ids"`
	Height    HWPUnit `json:"height"` // height-hundredths: 1000 = 10pt
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Color     uint32  `json:"color,omitempty"` // 0x00BBGGRR
}

// FaceID returns the hangul-script face id.
func (cs CharShape) FaceID() int {
	return cs.FaceIDs[0]
}

// SizePt returns the font size in points.
func (cs CharShape) SizePt() float64 {
	return cs.Height.Pt()
}

// ParaShape is a paragraph style entity.
type ParaShape struct {
	Align           Alignment       `json:"align"`
	MarginLeft      HWPUnit         `json:"margin_left,omitempty"`
	MarginRight     HWPUnit         `json:"margin_right,omitempty"`
	Indent          HWPUnit         `json:"indent,omitempty"`
	SpacingBefore   HWPUnit         `json:"spacing_before,omitempty"`
	SpacingAfter    HWPUnit         `json:"spacing_after,omitempty"`
	LineSpacing     int             `json:"line_spacing"`
	LineSpacingKind LineSpacingKind `json:"line_spacing_kind,omitempty"`
	TabDefID        int             `json:"tab_def_id,omitempty"`
	NumberingID     int             `json:"numbering_id,omitempty"` // 1-based; 0 = none
	HeadingKind     uint8           `json:"heading_kind,omitempty"` // 0 none, 1 outline, 2 numbered, 3 bulleted
	BorderFillID    int             `json:"border_fill_id,omitempty"`
}

// StyleKind distinguishes paragraph styles from character styles.
type StyleKind uint8

const (
	StyleKindPara StyleKind = 0
	StyleKindChar StyleKind = 1
)

// Style is a named style binding pointing at shape entities.
type Style struct {
	Name        string    `json:"name"`
	EngName     string    `json:"eng_name,omitempty"`
	Kind        StyleKind `json:"kind"`
	CharShapeID int       `json:"char_shape_id"`
	ParaShapeID int       `json:"para_shape_id"`
	NextStyleID int       `json:"next_style_id,omitempty"`
}

// BorderFill keeps the border/fill subset both formats agree on: whether a
// background fill is present and its color.
type BorderFill struct {
	Shaded    bool   `json:"shaded,omitempty"`
	FillColor uint32 `json:"fill_color,omitempty"` // 0x00BBGGRR when Shaded
}

// TabDef is a tab definition entry (kept for id stability, not interpreted).
type TabDef struct {
	Attrs uint32 `json:"attrs,omitempty"`
	Count int    `json:"count,omitempty"`
}

// Bullet is a bulleted-numbering entry.
type Bullet struct {
	Char string `json:"char"`
}

// BinDataKind distinguishes linked from embedded binary data.
type BinDataKind uint8

const (
	BinDataLink   BinDataKind = 0
	BinDataEmbed  BinDataKind = 1
	BinDataStored BinDataKind = 2
)

// BinDataEntry maps a binary-data id to its storage location.
type BinDataEntry struct {
	Kind      BinDataKind `json:"kind"`
	AbsPath   string      `json:"abs_path,omitempty"`   // link kind
	StorageID uint16      `json:"storage_id,omitempty"` // embed kind: BinData/BIN%04X.%s
	Ext       string      `json:"ext,omitempty"`
}

// StyleTable is the arena of style entities, indexed by the small integer
// ids blocks carry. Slices are dense and id-ordered; id i is element i.
type StyleTable struct {
	FaceNames   []FaceName        `json:"face_names"`
	CharShapes  []CharShape       `json:"char_shapes"`
	ParaShapes  []ParaShape       `json:"para_shapes"`
	Styles      []Style           `json:"styles"`
	BorderFills []BorderFill      `json:"border_fills"`
	TabDefs     []TabDef          `json:"tab_defs,omitempty"`
	Bullets     []Bullet          `json:"bullets,omitempty"`
	Numberings  []NumberingScheme `json:"numberings,omitempty"`
	BinData     []BinDataEntry    `json:"bin_data,omitempty"`
}

// NewStyleTable creates an empty arena.
func NewStyleTable() *StyleTable {
	return &StyleTable{
		FaceNames:   make([]FaceName, 0),
		CharShapes:  make([]CharShape, 0),
		ParaShapes:  make([]ParaShape, 0),
		Styles:      make([]Style, 0),
		BorderFills: make([]BorderFill, 0),
	}
}

// CharShape returns the char shape for an id.
func (st *StyleTable) CharShape(id int) (CharShape, bool) {
	if id < 0 || id >= len(st.CharShapes) {
		return CharShape{}, false
	}
	return st.CharShapes[id], true
}

// ParaShape returns the para shape for an id.
func (st *StyleTable) ParaShape(id int) (ParaShape, bool) {
	if id < 0 || id >= len(st.ParaShapes) {
		return ParaShape{}, false
	}
	return st.ParaShapes[id], true
}

// Style returns the named style for an id.
func (st *StyleTable) Style(id int) (Style, bool) {
	if id < 0 || id >= len(st.Styles) {
		return Style{}, false
	}
	return st.Styles[id], true
}

// FaceName returns the face name for an id, empty string if unknown.
func (st *StyleTable) FaceName(id int) string {
	if id < 0 || id >= len(st.FaceNames) {
		return ""
	}
	return st.FaceNames[id].Name
}

// BorderFill returns the border fill for a 1-based id as both formats
// reference border fills starting at 1.
func (st *StyleTable) BorderFill(id int) (BorderFill, bool) {
	idx := id - 1
	if idx < 0 || idx >= len(st.BorderFills) {
		return BorderFill{}, false
	}
	return st.BorderFills[idx], true
}

// Numbering returns the numbering scheme for a 1-based id.
func (st *StyleTable) Numbering(id int) (NumberingScheme, bool) {
	idx := id - 1
	if idx < 0 || idx >= len(st.Numberings) {
		return NumberingScheme{}, false
	}
	return st.Numberings[idx], true
}

// BinDataByID returns the binary-data entry for a 1-based id.
func (st *StyleTable) BinDataByID(id int) (BinDataEntry, bool) {
	idx := id - 1
	if idx < 0 || idx >= len(st.BinData) {
		return BinDataEntry{}, false
	}
	return st.BinData[idx], true
}
