// Package ktext normalizes the Korean form text that report templates
// carry: full-width folding for comparison, placeholder detection, the
// numbered-heading patterns of official documents, and numeric parsing
// with accounting conventions (thousands commas, △ negatives).
package ktext

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Fold normalizes text for comparison: NFC composition, full-width
// forms to half-width, surrounding whitespace off.
func Fold(s string) string {
	return strings.TrimSpace(width.Narrow.String(norm.NFC.String(s)))
}

// PlaceholderTokens mark positions the template author left to fill in.
var PlaceholderTokens = []string{"(입력)", "(기입)", "○○", "____"}

// HasPlaceholder reports whether the text still carries an explicit
// fill-me marker such as "{{금액}}" or "(입력)".
func HasPlaceholder(s string) bool {
	t := Fold(s)
	if i := strings.Index(t, "{{"); i >= 0 && strings.Contains(t[i:], "}}") {
		return true
	}
	for _, tok := range PlaceholderTokens {
		if strings.Contains(t, tok) {
			return true
		}
	}
	return false
}

// IsBlankOrPlaceholder reports whether the text is empty or still a
// placeholder.
func IsBlankOrPlaceholder(s string) bool {
	return strings.TrimSpace(s) == "" || HasPlaceholder(s)
}

// Number is a parsed numeric cell value with its display suffix.
type Number struct {
	Value     float64
	Unit      string // trailing suffix: "%", "원", "개", ""
	Precision int    // digits after the decimal point
}

// ParseNumber folds and parses a numeric cell value. Commas and spaces
// are thousands separators; △ and ▲ are the accounting negative marks.
func ParseNumber(s string) (Number, bool) {
	t := Fold(s)
	t = strings.ReplaceAll(t, ",", "")
	t = strings.ReplaceAll(t, " ", "")
	neg := false
	for _, mark := range []string{"△", "▲", "-"} {
		if strings.HasPrefix(t, mark) {
			neg = true
			t = strings.TrimPrefix(t, mark)
			break
		}
	}

	i, dot := 0, -1
	for i < len(t) {
		c := t[i]
		if c >= '0' && c <= '9' {
			i++
			continue
		}
		if c == '.' && dot < 0 {
			dot = i
			i++
			continue
		}
		break
	}
	if i == 0 || (i == 1 && dot == 0) {
		return Number{}, false
	}
	v, err := strconv.ParseFloat(t[:i], 64)
	if err != nil {
		return Number{}, false
	}
	if neg {
		v = -v
	}
	n := Number{Value: v, Unit: t[i:]}
	if dot >= 0 {
		n.Precision = i - dot - 1
	}
	return n, true
}

// hangulOrdinals is the 가나다 sequence official outlines use.
const hangulOrdinals = "가나다라마바사아자차카타파하"

func isHangulOrdinal(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && strings.ContainsRune(hangulOrdinals, r)
}

func isCircledMark(r rune) bool {
	return (r >= '①' && r <= '⑳') || (r >= '㉠' && r <= '㉻')
}

// numericSegments counts the dot-joined number parts of an outline
// prefix: "1" → 1, "1.2" → 2. Non-numeric parts fail.
func numericSegments(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return 0, false
		}
		for j := 0; j < len(p); j++ {
			if p[j] < '0' || p[j] > '9' {
				return 0, false
			}
		}
	}
	return len(parts), true
}

// HeadingLevel classifies a numbered heading: "1. 개요" is level 1,
// "1.2 방법" level 2, "가. 절차" level 2, "① 준비" level 3. The rest
// of the line (the heading name) must be non-empty.
func HeadingLevel(s string) (level int, title string, ok bool) {
	t := Fold(s)
	if t == "" {
		return 0, "", false
	}

	if r, size := utf8.DecodeRuneInString(t); isCircledMark(r) {
		title = strings.TrimSpace(t[size:])
		return 3, title, title != ""
	}

	token, rest, _ := strings.Cut(t, " ")
	rest = strings.TrimSpace(rest)
	if token == "" || rest == "" {
		return 0, "", false
	}
	if last := token[len(token)-1]; last == '.' || last == ')' {
		head := token[:len(token)-1]
		if isHangulOrdinal(head) {
			return 2, rest, true
		}
		if segs, ok := numericSegments(head); ok {
			return segs, rest, true
		}
		return 0, "", false
	}
	// "1.2 방법"처럼 끝 구두점 없는 다단계 번호
	if segs, ok := numericSegments(token); ok && segs >= 2 {
		return segs, rest, true
	}
	return 0, "", false
}
