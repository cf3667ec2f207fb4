// Package style derives a portable style profile from a parsed document.
// A profile abstracts the template's raw style ids behind logical roles
// (제목/부제목/본문/표머리글/표셀) so content injected later can reuse the
// template's own formatting without knowing its id layout.
package style

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// Role is a logical style category. 같은 서식 틀에서 뽑은 프로파일을 다시
// 주입할 때 원본 스타일 id 대신 이 역할 이름으로 참조한다.
type Role string

const (
	RoleTitle       Role = "title"
	RoleSubtitle    Role = "subtitle"
	RoleBody        Role = "body"
	RoleTableHeader Role = "tableHeader"
	RoleTableCell   Role = "tableCell"
)

// Thresholds tunes the role classification heuristic. The defaults suit
// typical report templates; per-family tuning goes through sandoc.yaml.
type Thresholds struct {
	// SubtitleDelta is how many points larger than the body median a
	// style's average font must be to count as a subtitle.
	SubtitleDelta float64 `yaml:"subtitle_delta"`
	// HeaderBoldRequired requires bold text or a shaded cell background
	// before a row-0 style counts as a table header.
	HeaderBoldRequired bool `yaml:"header_bold_required"`
	// MinBodyCount is the minimum number of referencing paragraphs for
	// the majority vote; below it the default style (id 0) is the body.
	MinBodyCount int `yaml:"min_body_count"`
}

// DefaultThresholds returns the stock heuristic tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SubtitleDelta:      2.0,
		HeaderBoldRequired: true,
		MinBodyCount:       2,
	}
}

// RoleStyle is one role's formatting archetype. The raw ids are kept so
// the injection engine can point new runs at the template's own entities.
type RoleStyle struct {
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"` // pt
	Bold        bool    `json:"bold,omitempty"`
	Align       string  `json:"align,omitempty"`
	LineSpacing int     `json:"lineSpacing,omitempty"`

	StyleID     int `json:"styleId"`
	CharShapeID int `json:"charShapeId"`
	ParaShapeID int `json:"paraShapeId"`
}

// DocumentInfo records where the profile came from and the page frame it
// assumes. Lengths are millimeters rounded to one decimal.
type DocumentInfo struct {
	Source       string  `json:"source,omitempty"`
	Format       string  `json:"format,omitempty"`
	PageWidthMM  float64 `json:"pageWidthMm"`
	PageHeightMM float64 `json:"pageHeightMm"`
	Margins      Margins `json:"marginsMm"`
	Landscape    bool    `json:"landscape,omitempty"`
}

// Margins are the page margins in millimeters, one decimal.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Profile is the persisted style snapshot of a template.
type Profile struct {
	DocumentInfo DocumentInfo        `json:"documentInfo"`
	Styles       map[Role]*RoleStyle `json:"styles"`
	Numbering    map[int]string      `json:"numbering,omitempty"` // level → format string
}

// Role returns the archetype for a role, nil if the document had no
// paragraphs to derive it from.
func (p *Profile) Role(r Role) *RoleStyle {
	if p == nil || p.Styles == nil {
		return nil
	}
	return p.Styles[r]
}

// CharShapeFor returns the char shape id for a role, falling back to the
// body role and then to id 0. 주입 엔진이 새 런의 글자 모양을 고를 때 쓴다.
func (p *Profile) CharShapeFor(r Role) int {
	if rs := p.Role(r); rs != nil {
		return rs.CharShapeID
	}
	if rs := p.Role(RoleBody); rs != nil {
		return rs.CharShapeID
	}
	return 0
}

// JSON renders the profile as indented JSON. Map keys are emitted in
// sorted order, so identical profiles yield identical bytes.
func (p *Profile) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the profile JSON to path.
func (p *Profile) Save(path string) error {
	data, err := p.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a profile JSON from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("프로파일 파싱 실패 (%s): %w", path, err)
	}
	if p.Styles == nil {
		p.Styles = make(map[Role]*RoleStyle)
	}
	return &p, nil
}

// roundMM rounds to one decimal place.
func roundMM(u ir.HWPUnit) float64 {
	return math.Round(u.MM()*10) / 10
}
