package ir

// Clone returns a deep structural copy of the document. Injection mutates
// only clones, never the tree a reader produced.
func (d *Document) Clone() *Document {
	out := &Document{
		Format:   d.Format,
		Version:  d.Version,
		Metadata: d.Metadata,
	}
	out.Sections = make([]*Section, len(d.Sections))
	for i, sec := range d.Sections {
		out.Sections[i] = sec.Clone()
	}
	if d.Styles != nil {
		out.Styles = d.Styles.Clone()
	}
	return out
}

// Clone deep-copies a section.
func (s *Section) Clone() *Section {
	out := &Section{Page: s.Page, Blocks: make([]Block, len(s.Blocks))}
	for i := range s.Blocks {
		out.Blocks[i] = s.Blocks[i].Clone()
	}
	return out
}

// Clone deep-copies a block.
func (b Block) Clone() Block {
	out := Block{Type: b.Type}
	switch b.Type {
	case BlockTypeParagraph:
		if b.Paragraph != nil {
			out.Paragraph = b.Paragraph.Clone()
		}
	case BlockTypeTable:
		if b.Table != nil {
			out.Table = b.Table.Clone()
		}
	case BlockTypeImage:
		if b.Image != nil {
			out.Image = b.Image.Clone()
		}
	}
	return out
}

// Clone deep-copies a paragraph.
func (p *Paragraph) Clone() *Paragraph {
	out := &Paragraph{
		StyleID:     p.StyleID,
		ParaShapeID: p.ParaShapeID,
		Runs:        make([]Run, len(p.Runs)),
	}
	copy(out.Runs, p.Runs)
	return out
}

// Clone deep-copies a table and its cells.
func (t *TableBlock) Clone() *TableBlock {
	out := &TableBlock{
		Rows:         t.Rows,
		Cols:         t.Cols,
		CellSpacing:  t.CellSpacing,
		InnerMargins: t.InnerMargins,
		BorderFillID: t.BorderFillID,
		Cells:        make([]*Cell, len(t.Cells)),
	}
	for i, c := range t.Cells {
		cc := &Cell{
			Row: c.Row, Col: c.Col, RowSpan: c.RowSpan, ColSpan: c.ColSpan,
			Width: c.Width, Height: c.Height, BorderFillID: c.BorderFillID,
			Blocks: make([]Block, len(c.Blocks)),
		}
		for bi := range c.Blocks {
			cc.Blocks[bi] = c.Blocks[bi].Clone()
		}
		out.Cells[i] = cc
	}
	return out
}

// Clone deep-copies an image block; raw data bytes are copied too.
func (img *ImageBlock) Clone() *ImageBlock {
	out := &ImageBlock{
		BinDataID: img.BinDataID,
		Name:      img.Name,
		Format:    img.Format,
		Width:     img.Width,
		Height:    img.Height,
	}
	if img.Caption != nil {
		out.Caption = img.Caption.Clone()
	}
	if len(img.Data) > 0 {
		out.Data = make([]byte, len(img.Data))
		copy(out.Data, img.Data)
	}
	return out
}

// Clone deep-copies the style arena.
func (st *StyleTable) Clone() *StyleTable {
	out := &StyleTable{
		FaceNames:   append([]FaceName(nil), st.FaceNames...),
		CharShapes:  append([]CharShape(nil), st.CharShapes...),
		ParaShapes:  append([]ParaShape(nil), st.ParaShapes...),
		Styles:      append([]Style(nil), st.Styles...),
		BorderFills: append([]BorderFill(nil), st.BorderFills...),
		TabDefs:     append([]TabDef(nil), st.TabDefs...),
		Bullets:     append([]Bullet(nil), st.Bullets...),
		Numberings:  append([]NumberingScheme(nil), st.Numberings...),
		BinData:     append([]BinDataEntry(nil), st.BinData...),
	}
	return out
}
