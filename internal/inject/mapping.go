// Package inject merges externally supplied content into a parsed
// template at mapped positions. The engine never mutates its input: it
// clones the document, resolves each mapping entry to a block path, and
// rewrites only the named targets, so a failed run leaves nothing to
// clean up.
package inject

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// Entry binds one logical content section to a template position.
// ContentRef names the content piece; 실제 내용은 CLI가 미리 읽어서
// Apply에 값으로 넘긴다.
type Entry struct {
	SectionKey string `json:"sectionKey"`
	TargetPath string `json:"targetPath"`
	ContentRef string `json:"contentRef"`
}

// Mapping is the ordered injection plan. The persisted form is a bare
// JSON array, so entry order is explicit and stable.
type Mapping []Entry

// Validate checks that every entry is complete and its target path
// parses. Whether the path exists in a given document is Apply's job.
func (m Mapping) Validate() error {
	seen := make(map[string]int, len(m))
	for i, e := range m {
		if e.SectionKey == "" {
			return fmt.Errorf("매핑 %d번: sectionKey가 비어 있습니다", i)
		}
		if e.ContentRef == "" {
			return fmt.Errorf("매핑 %q: contentRef가 비어 있습니다", e.SectionKey)
		}
		if _, err := ir.ParsePath(e.TargetPath); err != nil {
			return fmt.Errorf("매핑 %q: %w", e.SectionKey, err)
		}
		if prev, dup := seen[e.TargetPath]; dup {
			return fmt.Errorf("매핑 %q: 대상 %s가 %d번 항목과 겹칩니다",
				e.SectionKey, e.TargetPath, prev)
		}
		seen[e.TargetPath] = i
	}
	return nil
}

// JSON renders the mapping as indented JSON.
func (m Mapping) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes the mapping JSON to path.
func (m Mapping) Save(path string) error {
	data, err := m.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadMapping reads and validates a mapping JSON file.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("매핑 파싱 실패 (%s): %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
