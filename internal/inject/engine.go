package inject

import (
	"errors"
	"fmt"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/style"
)

// Content is one resolved piece of external material. Exactly one field
// group is used, matching the target block's kind.
type Content struct {
	Text  string        `json:"text,omitempty"`
	Table [][]string    `json:"table,omitempty"`
	Image *ImageContent `json:"-"`
}

// ImageContent carries replacement image bytes. Width/Height are the
// intrinsic dimensions; zero means "keep the template's frame".
type ImageContent struct {
	Data    []byte
	Format  string
	Width   ir.HWPUnit
	Height  ir.HWPUnit
	Caption string
}

// Apply merges the mapped contents into a clone of doc and returns the
// new tree. The input document is never touched, so the caller can retry
// or diff before/after freely. Sections and blocks are neither added,
// removed, nor reordered — only the named targets change.
func Apply(doc *ir.Document, profile *style.Profile, m Mapping, contents map[string]Content) (*ir.Document, error) {
	if doc == nil {
		return nil, errors.New("주입할 문서가 없습니다")
	}
	out := doc.Clone()
	for _, entry := range m {
		path, err := ir.ParsePath(entry.TargetPath)
		if err != nil {
			return nil, &Error{Kind: TargetNotFound, Path: entry.TargetPath, Err: err}
		}
		blk, err := out.BlockAt(path)
		if err != nil {
			return nil, &Error{Kind: TargetNotFound, Path: entry.TargetPath, Err: err}
		}
		c, ok := contents[entry.ContentRef]
		if !ok {
			return nil, fmt.Errorf("매핑 %q: 내용 %q이 없습니다", entry.SectionKey, entry.ContentRef)
		}
		if err := applyOne(blk, c, profile, entry.TargetPath); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func applyOne(blk *ir.Block, c Content, profile *style.Profile, path string) error {
	switch blk.Type {
	case ir.BlockTypeParagraph:
		if c.Table != nil || c.Image != nil {
			return fmt.Errorf("대상 %s: 문단에는 텍스트만 넣을 수 있습니다", path)
		}
		replaceText(blk.Paragraph, profile.CharShapeFor(style.RoleBody), c.Text)
	case ir.BlockTypeTable:
		if c.Table == nil {
			return fmt.Errorf("대상 %s: 표에는 2차원 내용이 필요합니다", path)
		}
		return injectTable(blk.Table, c.Table, profile, path)
	case ir.BlockTypeImage:
		if c.Image == nil {
			return fmt.Errorf("대상 %s: 그림에는 이미지 내용이 필요합니다", path)
		}
		injectImage(blk.Image, c.Image, profile)
	default:
		return fmt.Errorf("대상 %s: 알 수 없는 블록 종류 %q", path, blk.Type)
	}
	return nil
}

// replaceText swaps a paragraph's content for the supplied text,
// splitting newlines into line-break markers. Anchor markers survive the
// swap so object blocks claimed by this paragraph stay claimed; the
// paragraph's own style ids are never touched.
func replaceText(p *ir.Paragraph, charShapeID int, text string) {
	var anchors []ir.Run
	for _, r := range p.Runs {
		if r.Marker == ir.MarkerAnchor {
			anchors = append(anchors, r)
		}
	}
	p.SetText(charShapeID, text)
	if len(anchors) > 0 {
		p.Runs = append(anchors, p.Runs...)
	}
}

// injectTable fills a table from a 2-D string grid. The grid must match
// the declared dimensions slot for slot — 모양이 다르면 셀 하나 건드리기
// 전에 실패한다. Spanned cells take the value at their anchor slot.
func injectTable(t *ir.TableBlock, grid [][]string, profile *style.Profile, path string) error {
	want := fmt.Sprintf("%dx%d", t.Rows, t.Cols)
	if len(grid) != t.Rows {
		return &Error{Kind: ShapeMismatch, Path: path, Want: want,
			Got: fmt.Sprintf("%d행", len(grid))}
	}
	for i, row := range grid {
		if len(row) != t.Cols {
			return &Error{Kind: ShapeMismatch, Path: path, Want: want,
				Got: fmt.Sprintf("%d행의 %d열", i, len(row))}
		}
	}

	cellShape := profile.CharShapeFor(style.RoleTableCell)
	headShape := profile.CharShapeFor(style.RoleTableHeader)
	for _, c := range t.Cells {
		if c.Row < 0 || c.Row >= t.Rows || c.Col < 0 || c.Col >= t.Cols {
			continue
		}
		charID := cellShape
		if c.Row == 0 {
			// 머리글 행은 제 서식을 그대로 쓴다
			if id, ok := firstRunShape(c); ok {
				charID = id
			} else {
				charID = headShape
			}
		}
		setCellText(c, charID, grid[c.Row][c.Col])
	}
	return nil
}

func firstRunShape(c *ir.Cell) (int, bool) {
	p := c.FirstParagraph()
	if p == nil {
		return 0, false
	}
	for _, r := range p.Runs {
		if !r.IsMarker() {
			return r.CharShapeID, true
		}
	}
	if len(p.Runs) > 0 {
		return p.Runs[0].CharShapeID, true
	}
	return 0, false
}

func setCellText(c *ir.Cell, charShapeID int, text string) {
	p := c.FirstParagraph()
	if p == nil {
		// 파서는 빈 셀에도 문단 하나를 보장하지만, 손으로 만든 표라면
		// 비어 있을 수 있다
		p = ir.NewParagraph(0, 0)
		c.Blocks = append(c.Blocks, ir.ParagraphBlock(p))
	}
	replaceText(p, charShapeID, text)
}

// injectImage swaps the image bytes, scaling the intrinsic dimensions to
// fit the template's existing frame.
func injectImage(img *ir.ImageBlock, ic *ImageContent, profile *style.Profile) {
	img.Data = ic.Data
	if ic.Format != "" {
		img.Format = ic.Format
	}
	switch {
	case ic.Width > 0 && ic.Height > 0 && img.Width > 0 && img.Height > 0:
		img.Width, img.Height = ir.ScaleToFit(ic.Width, ic.Height, img.Width, img.Height)
	case ic.Width > 0 && ic.Height > 0:
		img.Width, img.Height = ic.Width, ic.Height
	}
	if ic.Caption != "" {
		if img.Caption == nil {
			styleID, paraShapeID := 0, 0
			if rs := profile.Role(style.RoleBody); rs != nil {
				styleID, paraShapeID = rs.StyleID, rs.ParaShapeID
			}
			img.Caption = ir.NewParagraph(styleID, paraShapeID)
		}
		img.Caption.SetText(profile.CharShapeFor(style.RoleBody), ic.Caption)
	}
}
