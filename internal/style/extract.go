package style

import (
	"path/filepath"
	"sort"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// paragraph context inside the walk
type paraWhere int

const (
	whereTop paraWhere = iota // directly under a section
	whereHeaderCell
	whereBodyCell
)

// usage accumulates observations about one named style during the walk.
type usage struct {
	total      int // referencing non-empty paragraphs, any position
	top        int // of those, directly under a section
	headerCell int // inside a row-0 table cell
	bodyCell   int // inside any other table cell
	boldParas  int // paragraphs with at least one bold run
	shaded     int // paragraphs sitting in a shaded cell

	sizes     []float64   // per-paragraph average font size (pt)
	charVotes map[int]int // run char-shape id frequency
	paraVotes map[int]int // paragraph para-shape id frequency
}

type extractor struct {
	doc   *ir.Document
	th    Thresholds
	usage map[int]*usage

	titleStyle int
	titleFound bool
	numVotes   map[int]int // numbering id frequency (번호 문단 기준)
}

// Extract derives the style profile of a document. The classification is
// deterministic: identical documents always produce identical profiles.
func Extract(doc *ir.Document, th Thresholds) *Profile {
	x := &extractor{
		doc:      doc,
		th:       th,
		usage:    make(map[int]*usage),
		numVotes: make(map[int]int),
	}
	for _, sec := range doc.Sections {
		for _, b := range sec.Blocks {
			x.block(b, whereTop, false)
		}
	}

	p := &Profile{
		DocumentInfo: x.documentInfo(),
		Styles:       make(map[Role]*RoleStyle),
		Numbering:    x.numbering(),
	}
	x.classify(p)
	return p
}

func (x *extractor) block(b ir.Block, where paraWhere, shaded bool) {
	switch b.Type {
	case ir.BlockTypeParagraph:
		x.paragraph(b.Paragraph, where, shaded)
	case ir.BlockTypeTable:
		x.table(b.Table)
	case ir.BlockTypeImage:
		// 캡션은 장식 문단이라 역할 분류에서 제외한다
	}
}

func (x *extractor) table(t *ir.TableBlock) {
	if t == nil {
		return
	}
	for _, c := range t.Cells {
		where := whereBodyCell
		if c.Row == 0 {
			where = whereHeaderCell
		}
		shaded := x.cellShaded(c)
		for _, b := range c.Blocks {
			// 중첩 표는 자기 자신의 0행이 머리글 행이다
			x.block(b, where, shaded)
		}
	}
}

func (x *extractor) cellShaded(c *ir.Cell) bool {
	if c.BorderFillID <= 0 || x.doc.Styles == nil {
		return false
	}
	bf, ok := x.doc.Styles.BorderFill(c.BorderFillID)
	return ok && bf.Shaded
}

func (x *extractor) paragraph(p *ir.Paragraph, where paraWhere, shaded bool) {
	if p == nil || p.IsEmpty() {
		return
	}
	if !x.titleFound && where == whereTop {
		x.titleStyle = p.StyleID
		x.titleFound = true
	}

	u := x.usage[p.StyleID]
	if u == nil {
		u = &usage{charVotes: make(map[int]int), paraVotes: make(map[int]int)}
		x.usage[p.StyleID] = u
	}
	u.total++
	switch where {
	case whereTop:
		u.top++
	case whereHeaderCell:
		u.headerCell++
	case whereBodyCell:
		u.bodyCell++
	}
	if shaded {
		u.shaded++
	}
	u.paraVotes[p.ParaShapeID]++

	var sum float64
	var n int
	bold := false
	for _, r := range p.Runs {
		if r.Text == "" {
			continue
		}
		cs, ok := x.doc.Styles.CharShape(r.CharShapeID)
		if !ok {
			continue
		}
		u.charVotes[r.CharShapeID]++
		sum += cs.SizePt()
		n++
		if cs.Bold {
			bold = true
		}
	}
	if n > 0 {
		u.sizes = append(u.sizes, sum/float64(n))
	}
	if bold {
		u.boldParas++
	}

	if ps, ok := x.doc.Styles.ParaShape(p.ParaShapeID); ok {
		if ps.HeadingKind == 2 && ps.NumberingID > 0 {
			x.numVotes[ps.NumberingID]++
		}
	}
}

// classify assigns the five roles. Ties always break toward the lowest
// style id so repeated runs agree.
func (x *extractor) classify(p *Profile) {
	ids := make([]int, 0, len(x.usage))
	for id := range x.usage {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// 본문: 가장 많이 쓰인 스타일. 표본이 너무 적으면 기본 스타일 0번.
	body, bodyCount := -1, 0
	for _, id := range ids {
		if x.usage[id].total > bodyCount {
			body, bodyCount = id, x.usage[id].total
		}
	}
	if bodyCount < x.th.MinBodyCount {
		body = 0
	}
	if body >= 0 {
		p.Styles[RoleBody] = x.archetype(body)
	}

	if x.titleFound {
		p.Styles[RoleTitle] = x.archetype(x.titleStyle)
	}

	bodyMedian := 10.0 // 1000단위 = 10pt, 표본이 없을 때의 기준값
	if u := x.usage[body]; u != nil && len(u.sizes) > 0 {
		bodyMedian = median(u.sizes)
	}

	// 부제목: 본문 중앙값보다 충분히 큰 글자를 쓰는 스타일
	subtitle, subCount := -1, 0
	for _, id := range ids {
		if id == body || (x.titleFound && id == x.titleStyle) {
			continue
		}
		u := x.usage[id]
		if len(u.sizes) == 0 {
			continue
		}
		if avg(u.sizes) > bodyMedian+x.th.SubtitleDelta && u.total > subCount {
			subtitle, subCount = id, u.total
		}
	}
	if subtitle >= 0 {
		p.Styles[RoleSubtitle] = x.archetype(subtitle)
	}

	// 표 머리글: 0행 셀에서만 보이는 스타일
	header, headerCount := -1, 0
	for _, id := range ids {
		if id == body || (x.titleFound && id == x.titleStyle) {
			continue
		}
		u := x.usage[id]
		if u.headerCell == 0 || u.top > 0 || u.bodyCell > 0 {
			continue
		}
		if x.th.HeaderBoldRequired && u.boldParas == 0 && u.shaded == 0 {
			continue
		}
		if u.headerCell > headerCount {
			header, headerCount = id, u.headerCell
		}
	}
	if header >= 0 {
		p.Styles[RoleTableHeader] = x.archetype(header)
	}

	// 표 셀: 머리글이 아닌 셀 스타일 중 셀에서 가장 많이 쓰인 것
	cell, cellCount := -1, 0
	for _, id := range ids {
		if id == header {
			continue
		}
		u := x.usage[id]
		if n := u.headerCell + u.bodyCell; n > cellCount {
			cell, cellCount = id, n
		}
	}
	if cell >= 0 {
		p.Styles[RoleTableCell] = x.archetype(cell)
	}
}

// archetype resolves a named style into the formatting the role carries.
// Char and para shapes come from the dominant actual usage, falling back
// to the ids the named style declares.
func (x *extractor) archetype(id int) *RoleStyle {
	st, _ := x.doc.Styles.Style(id)
	charID, paraID := st.CharShapeID, st.ParaShapeID
	if u := x.usage[id]; u != nil {
		if v, ok := dominant(u.charVotes); ok {
			charID = v
		}
		if v, ok := dominant(u.paraVotes); ok {
			paraID = v
		}
	}
	cs, _ := x.doc.Styles.CharShape(charID)
	ps, _ := x.doc.Styles.ParaShape(paraID)
	return &RoleStyle{
		FontFamily:  x.doc.Styles.FaceName(cs.FaceID()),
		FontSize:    cs.SizePt(),
		Bold:        cs.Bold,
		Align:       string(ps.Align),
		LineSpacing: ps.LineSpacing,
		StyleID:     id,
		CharShapeID: charID,
		ParaShapeID: paraID,
	}
}

func (x *extractor) documentInfo() DocumentInfo {
	info := DocumentInfo{Format: x.doc.Format}
	if x.doc.Metadata.Source != "" {
		info.Source = filepath.Base(x.doc.Metadata.Source)
	}
	if len(x.doc.Sections) > 0 {
		pg := x.doc.Sections[0].Page
		info.PageWidthMM = roundMM(pg.Width)
		info.PageHeightMM = roundMM(pg.Height)
		info.Margins = Margins{
			Left:   roundMM(pg.MarginLeft),
			Right:  roundMM(pg.MarginRight),
			Top:    roundMM(pg.MarginTop),
			Bottom: roundMM(pg.MarginBottom),
		}
		info.Landscape = pg.Landscape
	}
	return info
}

// numbering picks the scheme the body text actually references and maps
// its defined levels to format strings.
func (x *extractor) numbering() map[int]string {
	if x.doc.Styles == nil || len(x.doc.Styles.Numberings) == 0 {
		return nil
	}
	id, ok := dominant(x.numVotes)
	if !ok {
		id = 1
	}
	scheme, ok := x.doc.Styles.Numbering(id)
	if !ok {
		return nil
	}
	m := make(map[int]string)
	for level := 1; level <= len(scheme.Levels); level++ {
		if rule := scheme.Level(level); rule.Format != "" {
			m[level] = rule.Format
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// dominant returns the key with the highest count, lowest key on ties.
func dominant(votes map[int]int) (int, bool) {
	keys := make([]int, 0, len(votes))
	for k := range votes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	best, bestCount := 0, 0
	for _, k := range keys {
		if votes[k] > bestCount {
			best, bestCount = k, votes[k]
		}
	}
	return best, bestCount > 0
}

func median(vals []float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

func avg(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
