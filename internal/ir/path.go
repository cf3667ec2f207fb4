package ir

import (
	"fmt"
	"strings"
)

// CellStep is one descent through a table cell: the grid slot addressed
// and the block index inside that cell.
type CellStep struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Block int `json:"block"`
}

// BlockPath is the stable address of a Block: section index, top-level
// block index, and zero or more cell descents for blocks nested in table
// cells. The textual form is "s0.b3" or "s0.b3.r1c2.b0".
type BlockPath struct {
	Section int        `json:"section"`
	Block   int        `json:"block"`
	Cells   []CellStep `json:"cells,omitempty"`
}

// String renders the textual path form.
func (p BlockPath) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "s%d.b%d", p.Section, p.Block)
	for _, c := range p.Cells {
		fmt.Fprintf(&sb, ".r%dc%d.b%d", c.Row, c.Col, c.Block)
	}
	return sb.String()
}

// Descend returns a copy of the path extended by one cell step.
func (p BlockPath) Descend(row, col, block int) BlockPath {
	cells := make([]CellStep, len(p.Cells), len(p.Cells)+1)
	copy(cells, p.Cells)
	return BlockPath{
		Section: p.Section,
		Block:   p.Block,
		Cells:   append(cells, CellStep{Row: row, Col: col, Block: block}),
	}
}

// ParsePath parses the textual path form produced by String.
func ParsePath(s string) (BlockPath, error) {
	var p BlockPath
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return p, fmt.Errorf("invalid block path %q", s)
	}
	if _, err := fmt.Sscanf(parts[0], "s%d", &p.Section); err != nil {
		return p, fmt.Errorf("invalid block path %q: bad section part %q", s, parts[0])
	}
	if _, err := fmt.Sscanf(parts[1], "b%d", &p.Block); err != nil {
		return p, fmt.Errorf("invalid block path %q: bad block part %q", s, parts[1])
	}
	rest := parts[2:]
	if len(rest)%2 != 0 {
		return p, fmt.Errorf("invalid block path %q: dangling cell part", s)
	}
	for i := 0; i < len(rest); i += 2 {
		var step CellStep
		if _, err := fmt.Sscanf(rest[i], "r%dc%d", &step.Row, &step.Col); err != nil {
			return p, fmt.Errorf("invalid block path %q: bad cell part %q", s, rest[i])
		}
		if _, err := fmt.Sscanf(rest[i+1], "b%d", &step.Block); err != nil {
			return p, fmt.Errorf("invalid block path %q: bad block part %q", s, rest[i+1])
		}
		p.Cells = append(p.Cells, step)
	}
	if p.Section < 0 || p.Block < 0 {
		return p, fmt.Errorf("invalid block path %q: negative index", s)
	}
	return p, nil
}

// BlockAt resolves a path to the addressed block. The returned pointer
// aliases the document's own block slot, so callers may mutate through it.
func (d *Document) BlockAt(path BlockPath) (*Block, error) {
	if path.Section < 0 || path.Section >= len(d.Sections) {
		return nil, fmt.Errorf("path %s: section %d out of range", path, path.Section)
	}
	sec := d.Sections[path.Section]
	if path.Block < 0 || path.Block >= len(sec.Blocks) {
		return nil, fmt.Errorf("path %s: block %d out of range", path, path.Block)
	}
	blk := &sec.Blocks[path.Block]
	for _, step := range path.Cells {
		if blk.Type != BlockTypeTable || blk.Table == nil {
			return nil, fmt.Errorf("path %s: block at cell step is not a table", path)
		}
		cell := blk.Table.CellAt(step.Row, step.Col)
		if cell == nil {
			return nil, fmt.Errorf("path %s: no cell covers (%d,%d)", path, step.Row, step.Col)
		}
		if step.Block < 0 || step.Block >= len(cell.Blocks) {
			return nil, fmt.Errorf("path %s: cell block %d out of range", path, step.Block)
		}
		blk = &cell.Blocks[step.Block]
	}
	return blk, nil
}

// Walk visits every block of the document in order, depth-first through
// table cells, calling fn with the block's path. Returning false stops
// the walk.
func (d *Document) Walk(fn func(path BlockPath, b *Block) bool) {
	for si, sec := range d.Sections {
		for bi := range sec.Blocks {
			path := BlockPath{Section: si, Block: bi}
			if !walkBlock(path, &sec.Blocks[bi], fn) {
				return
			}
		}
	}
}

func walkBlock(path BlockPath, b *Block, fn func(BlockPath, *Block) bool) bool {
	if !fn(path, b) {
		return false
	}
	if b.Type == BlockTypeTable && b.Table != nil {
		for _, cell := range b.Table.Cells {
			for bi := range cell.Blocks {
				sub := path.Descend(cell.Row, cell.Col, bi)
				if !walkBlock(sub, &cell.Blocks[bi], fn) {
					return false
				}
			}
		}
	}
	return true
}
