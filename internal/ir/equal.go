package ir

import (
	"bytes"
	"fmt"
)

// maxDiffs bounds how many differences Diff collects before giving up.
const maxDiffs = 20

// Equal reports structural and attribute equality of two documents.
// Source format, version and file metadata are not compared; the question
// Equal answers is whether both trees describe the same content with the
// same styling.
func Equal(a, b *Document) bool {
	return len(diffDocuments(a, b, 1)) == 0
}

// Diff returns human-readable descriptions of where two documents differ,
// capped at a fixed count. Empty means equal in the sense of Equal.
func Diff(a, b *Document) []string {
	return diffDocuments(a, b, maxDiffs)
}

func diffDocuments(a, b *Document, limit int) []string {
	d := &differ{limit: limit}
	if a == nil || b == nil {
		if a != b {
			d.add("document: nil vs non-nil")
		}
		return d.diffs
	}
	if len(a.Sections) != len(b.Sections) {
		d.add("document: %d sections vs %d", len(a.Sections), len(b.Sections))
		return d.diffs
	}
	for i := range a.Sections {
		d.diffSection(i, a.Sections[i], b.Sections[i])
		if d.full() {
			return d.diffs
		}
	}
	d.diffStyles(a.Styles, b.Styles)
	return d.diffs
}

type differ struct {
	diffs []string
	limit int
}

func (d *differ) add(format string, args ...interface{}) {
	if !d.full() {
		d.diffs = append(d.diffs, fmt.Sprintf(format, args...))
	}
}

func (d *differ) full() bool {
	return len(d.diffs) >= d.limit
}

func (d *differ) diffSection(idx int, a, b *Section) {
	if a.Page != b.Page {
		d.add("s%d: page geometry differs", idx)
	}
	if len(a.Blocks) != len(b.Blocks) {
		d.add("s%d: %d blocks vs %d", idx, len(a.Blocks), len(b.Blocks))
		return
	}
	for i := range a.Blocks {
		path := BlockPath{Section: idx, Block: i}
		d.diffBlock(path, a.Blocks[i], b.Blocks[i])
		if d.full() {
			return
		}
	}
}

func (d *differ) diffBlock(path BlockPath, a, b Block) {
	if a.Type != b.Type {
		d.add("%s: block type %s vs %s", path, a.Type, b.Type)
		return
	}
	switch a.Type {
	case BlockTypeParagraph:
		d.diffParagraph(path, a.Paragraph, b.Paragraph)
	case BlockTypeTable:
		d.diffTable(path, a.Table, b.Table)
	case BlockTypeImage:
		d.diffImage(path, a.Image, b.Image)
	}
}

func (d *differ) diffParagraph(path BlockPath, a, b *Paragraph) {
	if a == nil || b == nil {
		if a != b {
			d.add("%s: paragraph nil vs non-nil", path)
		}
		return
	}
	if a.StyleID != b.StyleID || a.ParaShapeID != b.ParaShapeID {
		d.add("%s: paragraph style ids (%d,%d) vs (%d,%d)",
			path, a.StyleID, a.ParaShapeID, b.StyleID, b.ParaShapeID)
	}
	if len(a.Runs) != len(b.Runs) {
		d.add("%s: %d runs vs %d", path, len(a.Runs), len(b.Runs))
		return
	}
	for i := range a.Runs {
		if a.Runs[i] != b.Runs[i] {
			d.add("%s: run %d %+v vs %+v", path, i, a.Runs[i], b.Runs[i])
			return
		}
	}
}

func (d *differ) diffTable(path BlockPath, a, b *TableBlock) {
	if a == nil || b == nil {
		if a != b {
			d.add("%s: table nil vs non-nil", path)
		}
		return
	}
	if a.Rows != b.Rows || a.Cols != b.Cols {
		d.add("%s: table %dx%d vs %dx%d", path, a.Rows, a.Cols, b.Rows, b.Cols)
		return
	}
	if len(a.Cells) != len(b.Cells) {
		d.add("%s: %d cells vs %d", path, len(a.Cells), len(b.Cells))
		return
	}
	for i := range a.Cells {
		ca, cb := a.Cells[i], b.Cells[i]
		if ca.Row != cb.Row || ca.Col != cb.Col || ca.RowSpan != cb.RowSpan || ca.ColSpan != cb.ColSpan {
			d.add("%s: cell %d address/span differs", path, i)
			return
		}
		if len(ca.Blocks) != len(cb.Blocks) {
			d.add("%s.r%dc%d: %d blocks vs %d", path, ca.Row, ca.Col, len(ca.Blocks), len(cb.Blocks))
			return
		}
		for bi := range ca.Blocks {
			d.diffBlock(path.Descend(ca.Row, ca.Col, bi), ca.Blocks[bi], cb.Blocks[bi])
			if d.full() {
				return
			}
		}
	}
}

func (d *differ) diffImage(path BlockPath, a, b *ImageBlock) {
	if a == nil || b == nil {
		if a != b {
			d.add("%s: image nil vs non-nil", path)
		}
		return
	}
	if a.Width != b.Width || a.Height != b.Height {
		d.add("%s: image %dx%d vs %dx%d", path, a.Width, a.Height, b.Width, b.Height)
	}
	if !bytes.Equal(a.Data, b.Data) {
		d.add("%s: image data %d bytes vs %d", path, len(a.Data), len(b.Data))
	}
	d.diffParagraph(path, a.Caption, b.Caption)
}

// diffStyles compares the arena entities the XML container carries.
// TabDefs, Bullets and BinData entries are binary-format bookkeeping and
// are not part of document equality.
func (d *differ) diffStyles(a, b *StyleTable) {
	if a == nil || b == nil {
		if a != b {
			d.add("styles: nil vs non-nil")
		}
		return
	}
	if len(a.FaceNames) != len(b.FaceNames) {
		d.add("styles: %d face names vs %d", len(a.FaceNames), len(b.FaceNames))
	} else {
		for i := range a.FaceNames {
			if a.FaceNames[i] != b.FaceNames[i] {
				d.add("styles: face name %d %q vs %q", i, a.FaceNames[i].Name, b.FaceNames[i].Name)
				break
			}
		}
	}
	if len(a.CharShapes) != len(b.CharShapes) {
		d.add("styles: %d char shapes vs %d", len(a.CharShapes), len(b.CharShapes))
	} else {
		for i := range a.CharShapes {
			if a.CharShapes[i] != b.CharShapes[i] {
				d.add("styles: char shape %d differs", i)
				break
			}
		}
	}
	if len(a.ParaShapes) != len(b.ParaShapes) {
		d.add("styles: %d para shapes vs %d", len(a.ParaShapes), len(b.ParaShapes))
	} else {
		for i := range a.ParaShapes {
			if a.ParaShapes[i] != b.ParaShapes[i] {
				d.add("styles: para shape %d differs", i)
				break
			}
		}
	}
	if len(a.Styles) != len(b.Styles) {
		d.add("styles: %d named styles vs %d", len(a.Styles), len(b.Styles))
	} else {
		for i := range a.Styles {
			if a.Styles[i] != b.Styles[i] {
				d.add("styles: named style %d %q differs", i, a.Styles[i].Name)
				break
			}
		}
	}
	if len(a.BorderFills) != len(b.BorderFills) {
		d.add("styles: %d border fills vs %d", len(a.BorderFills), len(b.BorderFills))
	} else {
		for i := range a.BorderFills {
			if a.BorderFills[i] != b.BorderFills[i] {
				d.add("styles: border fill %d differs", i)
				break
			}
		}
	}
	if len(a.Numberings) != len(b.Numberings) {
		d.add("styles: %d numberings vs %d", len(a.Numberings), len(b.Numberings))
	} else {
		for i := range a.Numberings {
			if a.Numberings[i] != b.Numberings[i] {
				d.add("styles: numbering %d differs", i)
				break
			}
		}
	}
}
