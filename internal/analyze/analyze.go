// Package analyze inspects a parsed template and derives its outline:
// numbered section headings, input fields left blank, empty tables and
// dataless image frames. The result carries a ready-made injection
// mapping, so a template can go from file to fillable target list
// without hand-written paths.
package analyze

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/parkgeonsan/sandoc/internal/inject"
	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/ktext"
)

// ItemKind classifies an outline item.
type ItemKind string

const (
	ItemHeading ItemKind = "heading"
	ItemField   ItemKind = "field"
	ItemTable   ItemKind = "table"
	ItemImage   ItemKind = "image"
)

// Item is one entry of the template outline, in document order.
type Item struct {
	Path    string   `json:"path"`
	Kind    ItemKind `json:"kind"`
	Level   int      `json:"level,omitempty"`   // 제목 단계 (heading만)
	Text    string   `json:"text,omitempty"`    // 제목 또는 필드 원문
	Section string   `json:"section,omitempty"` // 소속 섹션 제목
	Ref     string   `json:"ref,omitempty"`     // 매핑 내용 키 (채움 대상만)
}

// Outline is the analysis result for one template document.
type Outline struct {
	Source     string         `json:"source,omitempty"`
	Items      []Item         `json:"items"`
	Mapping    inject.Mapping `json:"mapping"`
	Paragraphs int            `json:"paragraphs"`
	Sections   int            `json:"sections"`
	Tables     int            `json:"tables"`
	Fields     int            `json:"fields"`
}

// Summary renders the one-line analysis digest.
func (o *Outline) Summary() string {
	return fmt.Sprintf("양식 분석 완료: %d개 문단, %d개 섹션, %d개 표, %d개 입력 필드",
		o.Paragraphs, o.Sections, o.Tables, o.Fields)
}

// 불릿 머리표. 번호 없는 양식 제목("□ 신청 및 일반현황")에 흔하다.
const bulletMarks = "■□●○▶▷◆◇★☆"

// 빈칸 표시 패턴: 밑줄 연속, 전각 공백 연속, 괄호 공란.
var blankPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[_＿]{3,}`),
	regexp.MustCompile(`[　]{3,}`),
	regexp.MustCompile(`\([ 　]{2,}\)`),
	regexp.MustCompile(`【[ 　]*】`),
}

// contentKeyPattern captures the key of a {{키}} 치환 표시.
var contentKeyPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Analyze walks the document and builds its outline and injection
// mapping. A nil document yields an empty outline.
func Analyze(doc *ir.Document) *Outline {
	o := &Outline{Items: []Item{}, Mapping: inject.Mapping{}}
	if doc == nil {
		return o
	}
	o.Source = doc.Metadata.Source

	s := &scanner{out: o, refs: make(map[string]int)}
	claimed := "" // 통째로 매핑된 표의 경로 prefix
	doc.Walk(func(path ir.BlockPath, b *ir.Block) bool {
		switch b.Type {
		case ir.BlockTypeParagraph:
			o.Paragraphs++
		case ir.BlockTypeTable:
			o.Tables++
		}
		ps := path.String()
		if claimed != "" && strings.HasPrefix(ps, claimed) {
			return true // 통표 매핑 내부는 더 분류하지 않는다
		}
		switch b.Type {
		case ir.BlockTypeParagraph:
			s.paragraph(path, b.Paragraph)
		case ir.BlockTypeTable:
			if s.table(ps, b.Table) {
				claimed = ps + "."
			}
		case ir.BlockTypeImage:
			s.image(ps, b.Image)
		}
		return true
	})
	return o
}

type scanner struct {
	out     *Outline
	section string         // 현재 섹션 제목
	refs    map[string]int // 종류별 내용 키 일련번호
}

func (s *scanner) sectionKey() string {
	if s.section == "" {
		return "서두"
	}
	return s.section
}

func (s *scanner) nextRef(kind string) string {
	s.refs[kind]++
	return fmt.Sprintf("%s%d", kind, s.refs[kind])
}

func (s *scanner) paragraph(path ir.BlockPath, p *ir.Paragraph) {
	raw := p.Text()
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}
	// 섹션 제목은 최상위 문단에서만 찾는다. 셀 안의 번호 문단은
	// 표 내용이지 문서 구조가 아니다.
	if len(path.Cells) == 0 {
		if level, title, ok := headingOf(text); ok {
			s.section = title
			s.out.Sections++
			s.out.Items = append(s.out.Items, Item{
				Path:  path.String(),
				Kind:  ItemHeading,
				Level: level,
				Text:  title,
			})
			return
		}
	}
	// 빈칸 검사는 원문으로 한다. 끝쪽 전각 공백도 빈칸 표시다.
	if !isBlankField(raw) {
		return
	}
	s.field(path.String(), text)
}

func (s *scanner) field(path, text string) {
	ref := contentKey(text)
	if ref == "" {
		ref = s.nextRef("text")
	}
	s.out.Fields++
	s.out.Items = append(s.out.Items, Item{
		Path:    path,
		Kind:    ItemField,
		Text:    text,
		Section: s.sectionKey(),
		Ref:     ref,
	})
	s.out.Mapping = append(s.out.Mapping, inject.Entry{
		SectionKey: s.sectionKey(),
		TargetPath: path,
		ContentRef: ref,
	})
}

// table reports whether the whole table should become a single mapping
// target. 셀에 개별 빈칸 표시나 {{키}}가 있으면 false를 돌려주고, 그
// 셀들은 이어지는 순회에서 문단 필드로 잡힌다.
func (s *scanner) table(path string, t *ir.TableBlock) bool {
	dataEmpty := true
	hasData := false
	for _, cell := range t.Cells {
		for _, b := range cell.Blocks {
			if b.Type != ir.BlockTypeParagraph {
				return false // 중첩 표가 있는 표는 통째로 채우지 않는다
			}
		}
		raw := cell.Text()
		if isBlankField(raw) {
			return false
		}
		if t.Rows > 1 && cell.Row == 0 {
			continue // 머리글 행
		}
		hasData = true
		if strings.TrimSpace(raw) != "" {
			dataEmpty = false
		}
	}
	if !hasData || !dataEmpty {
		return false
	}
	ref := s.nextRef("table")
	s.out.Items = append(s.out.Items, Item{
		Path:    path,
		Kind:    ItemTable,
		Section: s.sectionKey(),
		Ref:     ref,
	})
	s.out.Mapping = append(s.out.Mapping, inject.Entry{
		SectionKey: s.sectionKey(),
		TargetPath: path,
		ContentRef: ref,
	})
	return true
}

func (s *scanner) image(path string, img *ir.ImageBlock) {
	if img.HasData() {
		return
	}
	ref := s.nextRef("image")
	s.out.Items = append(s.out.Items, Item{
		Path:    path,
		Kind:    ItemImage,
		Section: s.sectionKey(),
		Ref:     ref,
	})
	s.out.Mapping = append(s.out.Mapping, inject.Entry{
		SectionKey: s.sectionKey(),
		TargetPath: path,
		ContentRef: ref,
	})
}

// headingOf classifies a section heading: 번호 제목("1. 개요", "가. 절차",
// "① 점검") 또는 불릿 제목("□ 일반현황"). 불릿 뒤에 또 머리표가 나오면
// 체크리스트 행이지 제목이 아니다.
func headingOf(text string) (level int, title string, ok bool) {
	if level, title, ok = ktext.HeadingLevel(text); ok {
		return level, title, true
	}
	folded := ktext.Fold(text)
	r, size := utf8.DecodeRuneInString(folded)
	if r == utf8.RuneError || !strings.ContainsRune(bulletMarks, r) {
		return 0, "", false
	}
	rest := strings.TrimSpace(folded[size:])
	if rest == "" || strings.ContainsAny(rest, bulletMarks) {
		return 0, "", false
	}
	return 1, rest, true
}

// isBlankField reports whether a non-empty line is an input position:
// 치환 토큰, 체크박스, 밑줄·공백 빈칸.
func isBlankField(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if ktext.HasPlaceholder(text) {
		return true
	}
	if strings.ContainsRune(text, '□') {
		return true
	}
	for _, re := range blankPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func contentKey(text string) string {
	m := contentKeyPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
