package hwp5

import (
	"bytes"
	"strings"

	"github.com/richardlehane/msoleps"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

// ParseSummaryInfo decodes the \x05HwpSummaryInformation property set
// into document metadata. 요약 정보는 없어도 문서는 유효하므로 어떤
// 오류도 치명적이지 않다.
func ParseSummaryInfo(data []byte, meta *ir.Metadata) {
	props := msoleps.New()
	if err := props.Reset(bytes.NewReader(data)); err != nil {
		parser.Warnf("요약 정보 파싱 실패: %v", err)
		return
	}

	for _, p := range props.Property {
		value := strings.TrimSpace(p.String())
		if value == "" {
			continue
		}
		// HWP는 자체 FMTID를 쓰므로 이름 해석이 안 되면 PID 숫자가
		// 이름으로 나온다. 표준 SummaryInformation PID와 같다.
		switch strings.ToLower(p.Name) {
		case "title", "2":
			meta.Title = value
		case "subject", "3":
			meta.Subject = value
		case "author", "4":
			meta.Author = value
		case "keywords", "5":
			meta.Keywords = value
		case "createtime", "create_dtm", "12":
			meta.Created = value
		case "lastsavetime", "lastsave_dtm", "13":
			meta.Modified = value
		}
	}
}
