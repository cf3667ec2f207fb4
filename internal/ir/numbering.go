package ir

import (
	"strconv"
	"strings"
)

// NumberLevel is one level of a numbering scheme. Format keeps the source
// format string verbatim, with ^N standing for the level-N number
// (e.g. "^1." renders level 1 as "1.", "가." style formats render the
// number in hangul ordinals).
type NumberLevel struct {
	Format string `json:"format"`
	Start  int    `json:"start,omitempty"`
}

// NumberingScheme maps nesting levels (1-based, up to 7) to format rules.
type NumberingScheme struct {
	Levels [7]NumberLevel `json:"levels"`
}

// Level returns the rule for a 1-based level.
func (n NumberingScheme) Level(level int) NumberLevel {
	if level < 1 || level > len(n.Levels) {
		return NumberLevel{}
	}
	return n.Levels[level-1]
}

var hangulOrdinals = []string{"가", "나", "다", "라", "마", "바", "사", "아", "자", "차", "카", "타", "파", "하"}

// RenderNumber renders the format string of a level with the given
// counter value: "^1" through "^7" placeholders become the decimal
// counter, and a hangul ordinal placeholder cycles 가..하.
func (n NumberingScheme) RenderNumber(level, value int) string {
	rule := n.Level(level)
	if rule.Format == "" {
		return strconv.Itoa(value) + "."
	}
	out := rule.Format
	for i := 1; i <= 7; i++ {
		out = strings.ReplaceAll(out, "^"+strconv.Itoa(i), strconv.Itoa(value))
	}
	if strings.Contains(out, "^가") {
		ord := hangulOrdinals[(value-1)%len(hangulOrdinals)]
		out = strings.ReplaceAll(out, "^가", ord)
	}
	return out
}
