// Package validate checks a post-injection document for completeness and
// consistency. Findings are reported, never thrown: the caller decides
// which mismatches are fatal for its workflow.
package validate

import "encoding/json"

// StyleMismatch is a style reference that does not match expectations:
// either a dangling id or a mapped paragraph straying from its profile
// role.
type StyleMismatch struct {
	Path          string `json:"path"`
	ExpectedStyle string `json:"expectedStyle"`
	ActualStyle   string `json:"actualStyle"`
}

// ArithmeticMismatch is a table whose total row does not equal the sum
// of its contributing cells.
type ArithmeticMismatch struct {
	TablePath     string  `json:"tablePath"`
	Column        int     `json:"column"`
	ExpectedTotal float64 `json:"expectedTotal"`
	ActualTotal   float64 `json:"actualTotal"`
}

// UnitMismatch is a table column whose numeric cells disagree on unit
// suffix or decimal precision.
type UnitMismatch struct {
	TablePath  string   `json:"tablePath"`
	Column     int      `json:"column"`
	Units      []string `json:"units,omitempty"`
	Precisions []int    `json:"precisions,omitempty"`
}

// Report collects every finding of one validation pass.
type Report struct {
	Unfilled             []string             `json:"unfilled"`
	StyleMismatches      []StyleMismatch      `json:"styleMismatches"`
	ArithmeticMismatches []ArithmeticMismatch `json:"arithmeticMismatches"`
	UnitMismatches       []UnitMismatch       `json:"unitMismatches,omitempty"`
}

func newReport() *Report {
	return &Report{
		Unfilled:             []string{},
		StyleMismatches:      []StyleMismatch{},
		ArithmeticMismatches: []ArithmeticMismatch{},
		UnitMismatches:       []UnitMismatch{},
	}
}

// OK reports whether the pass found nothing.
func (r *Report) OK() bool {
	return len(r.Unfilled) == 0 &&
		len(r.StyleMismatches) == 0 &&
		len(r.ArithmeticMismatches) == 0 &&
		len(r.UnitMismatches) == 0
}

// ToJSON renders the report with a leading ok flag.
func (r *Report) ToJSON() ([]byte, error) {
	out := struct {
		OK bool `json:"ok"`
		*Report
	}{r.OK(), r}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
