package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/inject"
	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/ktext"
	"github.com/parkgeonsan/sandoc/internal/style"
)

// Options tunes the arithmetic pass.
type Options struct {
	// Tolerance is the allowed |sum - total| difference. 1은 정수
	// 반올림 오차까지만 허용한다. 천원 단위로 끊는 양식은 설정에서
	// 1000으로 올린다.
	Tolerance float64 `yaml:"tolerance"`
}

// DefaultOptions returns the stock tolerance.
func DefaultOptions() Options {
	return Options{Tolerance: 1}
}

// totalLabels designate a total row. 접미사 ":"는 떼고 비교한다.
var totalLabels = map[string]bool{
	"합계": true,
	"총계": true,
	"계":  true,
}

func isTotalLabel(s string) bool {
	t := strings.TrimSpace(strings.TrimSuffix(ktext.Fold(s), ":"))
	return totalLabels[t]
}

// Check runs every validation pass over a document. It never fails; a
// nil document simply yields an empty report. The mapping narrows the
// unfilled pass to the positions injection was supposed to fill — with
// no mapping only the document-wide passes run.
func Check(doc *ir.Document, profile *style.Profile, m inject.Mapping, opts Options) *Report {
	r := newReport()
	if doc == nil {
		return r
	}
	c := &checker{doc: doc, profile: profile, opts: opts, report: r}
	c.checkMapped(m)
	c.checkStyleRefs()
	c.checkTables()
	return r
}

type checker struct {
	doc     *ir.Document
	profile *style.Profile
	opts    Options
	report  *Report
}

// checkMapped flags mapped targets whose content is still empty or a
// placeholder, and mapped paragraphs that stray from their profile role.
func (c *checker) checkMapped(m inject.Mapping) {
	for _, e := range m {
		path, err := ir.ParsePath(e.TargetPath)
		if err != nil {
			c.report.Unfilled = append(c.report.Unfilled, e.TargetPath)
			continue
		}
		blk, err := c.doc.BlockAt(path)
		if err != nil {
			c.report.Unfilled = append(c.report.Unfilled, e.TargetPath)
			continue
		}
		if blockUnfilled(blk) {
			c.report.Unfilled = append(c.report.Unfilled, e.TargetPath)
			continue
		}
		if blk.Type == ir.BlockTypeParagraph {
			c.checkRole(e.TargetPath, blk.Paragraph)
		}
	}
}

func blockUnfilled(b *ir.Block) bool {
	switch b.Type {
	case ir.BlockTypeParagraph:
		return ktext.IsBlankOrPlaceholder(b.Paragraph.Text())
	case ir.BlockTypeTable:
		return tableUnfilled(b.Table)
	case ir.BlockTypeImage:
		return !b.Image.HasData()
	}
	return false
}

// tableUnfilled: 명시적 채움 표시가 남아 있거나, 머리글 행을 뺀 본문
// 행이 전부 비어 있으면 미기입으로 본다.
func tableUnfilled(t *ir.TableBlock) bool {
	dataEmpty := true
	hasData := false
	for _, cell := range t.Cells {
		txt := strings.TrimSpace(cell.Text())
		if ktext.HasPlaceholder(txt) {
			return true
		}
		if t.Rows > 1 && cell.Row == 0 {
			continue
		}
		hasData = true
		if txt != "" {
			dataEmpty = false
		}
	}
	return hasData && dataEmpty
}

// checkRole compares a mapped paragraph's run shape against the body
// role the profile prescribes for injected text.
func (c *checker) checkRole(path string, p *ir.Paragraph) {
	role := c.profile.Role(style.RoleBody)
	if role == nil {
		return
	}
	for _, r := range p.Runs {
		if r.IsMarker() || r.Text == "" {
			continue
		}
		if r.CharShapeID != role.CharShapeID {
			c.report.StyleMismatches = append(c.report.StyleMismatches, StyleMismatch{
				Path:          path,
				ExpectedStyle: fmt.Sprintf("charShape %d", role.CharShapeID),
				ActualStyle:   fmt.Sprintf("charShape %d", r.CharShapeID),
			})
		}
		return // 첫 텍스트 런만 본다
	}
}

// checkStyleRefs verifies that every style id referenced anywhere still
// resolves in the arena.
func (c *checker) checkStyleRefs() {
	st := c.doc.Styles
	if st == nil {
		return
	}
	c.doc.Walk(func(path ir.BlockPath, b *ir.Block) bool {
		switch b.Type {
		case ir.BlockTypeParagraph:
			c.paraRefs(path.String(), b.Paragraph)
		case ir.BlockTypeImage:
			if b.Image.Caption != nil {
				c.paraRefs(path.String()+".caption", b.Image.Caption)
			}
		}
		return true
	})
}

func (c *checker) paraRefs(path string, p *ir.Paragraph) {
	st := c.doc.Styles
	if p.StyleID < 0 || p.StyleID >= len(st.Styles) {
		c.danglingRef(path, "style", p.StyleID, len(st.Styles))
	}
	if p.ParaShapeID < 0 || p.ParaShapeID >= len(st.ParaShapes) {
		c.danglingRef(path, "paraShape", p.ParaShapeID, len(st.ParaShapes))
	}
	seen := make(map[int]bool)
	for _, r := range p.Runs {
		if seen[r.CharShapeID] {
			continue
		}
		seen[r.CharShapeID] = true
		if r.CharShapeID < 0 || r.CharShapeID >= len(st.CharShapes) {
			c.danglingRef(path, "charShape", r.CharShapeID, len(st.CharShapes))
		}
	}
}

func (c *checker) danglingRef(path, kind string, id, have int) {
	c.report.StyleMismatches = append(c.report.StyleMismatches, StyleMismatch{
		Path:          path,
		ExpectedStyle: fmt.Sprintf("%s %d", kind, id),
		ActualStyle:   fmt.Sprintf("미등록 (%s %d개)", kind, have),
	})
}

// checkTables runs the arithmetic and unit passes over every table,
// nested ones included.
func (c *checker) checkTables() {
	c.doc.Walk(func(path ir.BlockPath, b *ir.Block) bool {
		if b.Type == ir.BlockTypeTable && b.Table != nil {
			c.checkTable(path.String(), b.Table)
		}
		return true
	})
}

func (c *checker) checkTable(path string, t *ir.TableBlock) {
	totals := totalRows(t)
	if len(totals) > 0 {
		c.checkTotals(path, t, totals)
	}
	c.checkUnits(path, t)
}

// totalRows finds the rows labeled 합계/총계/계, anchor cells only.
func totalRows(t *ir.TableBlock) []int {
	var rows []int
	for r := 0; r < t.Rows; r++ {
		for col := 0; col < t.Cols; col++ {
			cell := t.CellAt(r, col)
			if cell == nil || cell.Row != r {
				continue
			}
			if isTotalLabel(cell.Text()) {
				rows = append(rows, r)
				break
			}
		}
	}
	return rows
}

// checkTotals verifies the last labeled row: per numeric column, the
// values of the data rows above must sum to the declared total. 머리글
// 행(0행)과 다른 합계 행은 기여분에서 뺀다.
func (c *checker) checkTotals(path string, t *ir.TableBlock, totals []int) {
	last := totals[len(totals)-1]
	skip := make(map[int]bool, len(totals))
	for _, r := range totals {
		skip[r] = true
	}

	for col := 0; col < t.Cols; col++ {
		cell := t.CellAt(last, col)
		if cell == nil || cell.Row != last || cell.Col != col {
			continue
		}
		total, ok := ktext.ParseNumber(cell.Text())
		if !ok {
			continue
		}

		var sum float64
		for r := 1; r < t.Rows; r++ {
			if skip[r] {
				continue
			}
			dc := t.CellAt(r, col)
			if dc == nil || dc.Row != r || dc.Col != col {
				continue
			}
			if n, ok := ktext.ParseNumber(dc.Text()); ok {
				sum += n.Value
			}
		}
		if math.Abs(sum-total.Value) > c.opts.Tolerance {
			c.report.ArithmeticMismatches = append(c.report.ArithmeticMismatches, ArithmeticMismatch{
				TablePath:     path,
				Column:        col,
				ExpectedTotal: sum,
				ActualTotal:   total.Value,
			})
		}
	}
}

// checkUnits verifies that the numeric cells of one column agree on
// unit suffix and decimal precision.
func (c *checker) checkUnits(path string, t *ir.TableBlock) {
	for col := 0; col < t.Cols; col++ {
		units := make(map[string]bool)
		precisions := make(map[int]bool)
		count := 0
		for r := 1; r < t.Rows; r++ {
			cell := t.CellAt(r, col)
			if cell == nil || cell.Row != r || cell.Col != col {
				continue
			}
			n, ok := ktext.ParseNumber(cell.Text())
			if !ok {
				continue
			}
			units[n.Unit] = true
			precisions[n.Precision] = true
			count++
		}
		if count < 2 || (len(units) <= 1 && len(precisions) <= 1) {
			continue
		}
		c.report.UnitMismatches = append(c.report.UnitMismatches, UnitMismatch{
			TablePath:  path,
			Column:     col,
			Units:      sortedKeys(units),
			Precisions: sortedInts(precisions),
		})
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedInts(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
