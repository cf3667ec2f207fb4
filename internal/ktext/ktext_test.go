package ktext

import "testing"

func TestFold(t *testing.T) {
	cases := []struct{ in, want string }{
		{"１０００", "1000"},
		{"  합계  ", "합계"},
		{"ＡＢＣ", "ABC"},
		{"한글", "한글"},
	}
	for _, c := range cases {
		if got := Fold(c.in); got != c.want {
			t.Errorf("Fold(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestPlaceholderDetection(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"{{금액}}", true},
		{"(입력)", true},
		{"○○공사 현장", true},
		{"담당자: ____", true},
		{"＿＿＿＿", true}, // 전각 밑줄
		{"", true},
		{"   ", true},
		{"정상 텍스트", false},
		{"2026년 8월", false},
		{"중괄호 {하나}", false},
	}
	for _, c := range cases {
		if got := IsBlankOrPlaceholder(c.text); got != c.want {
			t.Errorf("IsBlankOrPlaceholder(%q): expected %v, got %v", c.text, c.want, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in        string
		value     float64
		unit      string
		precision int
		ok        bool
	}{
		{"1,000", 1000, "", 0, true},
		{"1000원", 1000, "원", 0, true},
		{"50.5%", 50.5, "%", 1, true},
		{"１２３", 123, "", 0, true},
		{"△500", -500, "", 0, true},
		{"▲1,234", -1234, "", 0, true},
		{"-42", -42, "", 0, true},
		{"3.14", 3.14, "", 2, true},
		{"", 0, "", 0, false},
		{"합계", 0, "", 0, false},
		{".", 0, "", 0, false},
	}
	for _, c := range cases {
		n, ok := ParseNumber(c.in)
		if ok != c.ok {
			t.Errorf("ParseNumber(%q): expected ok=%v, got %v", c.in, c.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if n.Value != c.value || n.Unit != c.unit || n.Precision != c.precision {
			t.Errorf("ParseNumber(%q): expected {%g %q %d}, got {%g %q %d}",
				c.in, c.value, c.unit, c.precision, n.Value, n.Unit, n.Precision)
		}
	}
}

func TestHeadingLevel(t *testing.T) {
	cases := []struct {
		in    string
		level int
		title string
		ok    bool
	}{
		{"1. 개요", 1, "개요", true},
		{"12. 종합 의견", 1, "종합 의견", true},
		{"1.2 검사 방법", 2, "검사 방법", true},
		{"3.2. 세부 항목", 2, "세부 항목", true},
		{"가. 절차", 2, "절차", true},
		{"나) 준비물", 2, "준비물", true},
		{"① 사전 점검", 3, "사전 점검", true},
		{"㉮ 참고", 3, "참고", true},
		{"１. 전각 번호", 1, "전각 번호", true},
		{"일반 문장입니다.", 0, "", false},
		{"2026년 계획", 0, "", false},
		{"1.", 0, "", false}, // 제목 없는 번호
		{"", 0, "", false},
	}
	for _, c := range cases {
		level, title, ok := HeadingLevel(c.in)
		if ok != c.ok || level != c.level || title != c.title {
			t.Errorf("HeadingLevel(%q): expected (%d,%q,%v), got (%d,%q,%v)",
				c.in, c.level, c.title, c.ok, level, title, ok)
		}
	}
}
