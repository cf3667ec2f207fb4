package ir

import "strings"

// MarkerKind identifies a structural control marker inside paragraph text.
// Markers are decoded from the reserved control code points of the binary
// format (and the equivalent HWPX elements) and are never stored as literal
// text, so substitution logic cannot corrupt them.
type MarkerKind string

const (
	MarkerNone       MarkerKind = ""            // plain text run
	MarkerTab        MarkerKind = "tab"         // char code 9
	MarkerLineBreak  MarkerKind = "line_break"  // char code 10
	MarkerParaBreak  MarkerKind = "para_break"  // char code 13
	MarkerFieldStart MarkerKind = "field_start" // char code 3 (extended)
	MarkerFieldEnd   MarkerKind = "field_end"   // char code 4 (inline)
	MarkerTitleMark  MarkerKind = "title_mark"  // char code 8 (inline)
	MarkerAnchor     MarkerKind = "anchor"      // char code 11: gso/table anchor
	MarkerHyphen     MarkerKind = "hyphen"      // char code 24
	MarkerBundleSpace MarkerKind = "bundle_space" // char code 30
	MarkerFixedSpace MarkerKind = "fixed_space" // char code 31
)

// Run is a styled segment of a paragraph: either a text run (Marker empty)
// or a single typed control marker.
type Run struct {
	CharShapeID int        `json:"char_shape_id"`
	Text        string     `json:"text,omitempty"`
	Marker      MarkerKind `json:"marker,omitempty"`
}

// IsMarker reports whether the run is a control marker rather than text.
func (r Run) IsMarker() bool {
	return r.Marker != MarkerNone
}

// Paragraph is an ordered run sequence referencing its styles by id.
type Paragraph struct {
	StyleID     int   `json:"style_id"`
	ParaShapeID int   `json:"para_shape_id"`
	Runs        []Run `json:"runs"`
}

// NewParagraph creates an empty paragraph with the given style ids.
func NewParagraph(styleID, paraShapeID int) *Paragraph {
	return &Paragraph{
		StyleID:     styleID,
		ParaShapeID: paraShapeID,
		Runs:        make([]Run, 0, 1),
	}
}

// AddRun appends a text run.
func (p *Paragraph) AddRun(charShapeID int, text string) {
	p.Runs = append(p.Runs, Run{CharShapeID: charShapeID, Text: text})
}

// AddMarker appends a control marker run.
func (p *Paragraph) AddMarker(charShapeID int, kind MarkerKind) {
	p.Runs = append(p.Runs, Run{CharShapeID: charShapeID, Marker: kind})
}

// Text returns the logical text content: the concatenation of text runs
// with tab and line-break markers rendered as their whitespace equivalents.
// All other markers contribute nothing.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		switch r.Marker {
		case MarkerNone:
			sb.WriteString(r.Text)
		case MarkerTab:
			sb.WriteByte('\t')
		case MarkerLineBreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// IsEmpty reports whether the paragraph has no text content. Paragraphs
// holding only markers (e.g. a table anchor) count as empty.
func (p *Paragraph) IsEmpty() bool {
	for _, r := range p.Runs {
		if r.Marker == MarkerNone && strings.TrimSpace(r.Text) != "" {
			return false
		}
	}
	return true
}

// SetText replaces every run with a single text run in the given char shape,
// splitting embedded newlines into line-break markers. Style ids of the
// paragraph itself are not touched.
func (p *Paragraph) SetText(charShapeID int, text string) {
	lines := strings.Split(text, "\n")
	runs := make([]Run, 0, len(lines)*2-1)
	for i, line := range lines {
		if i > 0 {
			runs = append(runs, Run{CharShapeID: charShapeID, Marker: MarkerLineBreak})
		}
		if line != "" {
			runs = append(runs, Run{CharShapeID: charShapeID, Text: line})
		}
	}
	p.Runs = runs
}
