package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/writer"
)

// binaryName returns the appropriate binary name for the current OS
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "sandoc_test.exe"
	}
	return "sandoc_test"
}

// buildTestBinary builds the test binary and returns a cleanup function
func buildTestBinary(t *testing.T) (string, func()) {
	t.Helper()
	binName := binaryName()
	buildCmd := exec.Command("go", "build", "-o", binName, "../cmd/sandoc")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binName, func() { os.Remove(binName) }
}

// runCLI executes the built binary with extra environment entries and
// returns the combined output.
func runCLI(t *testing.T, bin string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command("./"+bin, args...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// buildTemplateFixture assembles the business-plan template the CLI and
// pipeline tests share: a title, numbered headings, a {{개요}} field, an
// empty schedule table, and a filled budget table whose totals add up.
// 표는 파서가 내놓는 정규형(닻 문단 + 형제 블록)으로 넣어 경로가
// 왕복해도 변하지 않게 한다.
func buildTemplateFixture() *ir.Document {
	doc := ir.NewDocument("hwpx")
	doc.Version = "5.0.5.0"
	doc.Metadata.Title = "사업계획서"
	doc.Metadata.Author = "산돌기획"

	st := doc.Styles
	st.FaceNames = []ir.FaceName{{Name: "함초롬바탕"}}
	st.CharShapes = []ir.CharShape{
		{Height: 1000},             // 본문 10pt
		{Height: 1600, Bold: true}, // 제목 16pt
		{Height: 1000, Bold: true}, // 표 머리글
	}
	st.ParaShapes = []ir.ParaShape{
		{Align: ir.AlignJustify, LineSpacing: 160},
		{Align: ir.AlignCenter, LineSpacing: 160},
	}
	st.Styles = []ir.Style{
		{Name: "바탕글", EngName: "Normal", CharShapeID: 0, ParaShapeID: 0},
		{Name: "제목", EngName: "Title", CharShapeID: 1, ParaShapeID: 1},
		{Name: "표머리글", EngName: "Table Header", CharShapeID: 2, ParaShapeID: 1},
	}
	st.BorderFills = []ir.BorderFill{{Shaded: true, FillColor: 0x00EEEEEE}}

	sec := doc.AddSection(ir.PageGeometry{
		Width: 59528, Height: 84188,
		MarginLeft: 8504, MarginRight: 8504,
		MarginTop: 5668, MarginBottom: 4252,
		HeaderOffset: 4252, FooterOffset: 4252,
	})

	title := ir.NewParagraph(1, 1)
	title.AddRun(1, "사업계획서")
	sec.AddParagraph(title)

	addPara := func(text string) {
		p := ir.NewParagraph(0, 0)
		p.AddRun(0, text)
		sec.AddParagraph(p)
	}

	addPara("1. 사업 개요")
	addPara("개요: {{개요}}")

	addPara("2. 추진 일정")
	sec.Blocks = append(sec.Blocks, anchorHost(), ir.TableBlockOf(scheduleTable()))

	addPara("3. 소요 예산")
	sec.Blocks = append(sec.Blocks, anchorHost(), ir.TableBlockOf(budgetTable("1,500")))

	return doc
}

func anchorHost() ir.Block {
	host := ir.NewParagraph(0, 0)
	host.AddMarker(0, ir.MarkerAnchor)
	return ir.ParagraphBlock(host)
}

func fillCell(t *ir.TableBlock, row, col int, styleID, charShapeID int, text string) {
	p := t.CellAt(row, col).FirstParagraph()
	p.StyleID = styleID
	p.AddRun(charShapeID, text)
}

// scheduleTable: 머리글 행만 채워진 3x2 표. 본문 행이 비어 있어 통째로
// 채움 대상이 된다.
func scheduleTable() *ir.TableBlock {
	t := ir.NewTable(3, 2)
	fillCell(t, 0, 0, 2, 2, "구분")
	fillCell(t, 0, 1, 2, 2, "내용")
	t.CellAt(0, 0).BorderFillID = 1
	t.CellAt(0, 1).BorderFillID = 1
	return t
}

// budgetTable: 합계 행까지 채워진 4x2 표.
func budgetTable(total string) *ir.TableBlock {
	t := ir.NewTable(4, 2)
	fillCell(t, 0, 0, 2, 2, "항목")
	fillCell(t, 0, 1, 2, 2, "금액")
	t.CellAt(0, 0).BorderFillID = 1
	t.CellAt(0, 1).BorderFillID = 1
	fillCell(t, 1, 0, 0, 0, "인건비")
	fillCell(t, 1, 1, 0, 0, "1,000")
	fillCell(t, 2, 0, 0, 0, "재료비")
	fillCell(t, 2, 1, 0, 0, "500")
	fillCell(t, 3, 0, 0, 0, "합계")
	fillCell(t, 3, 1, 0, 0, total)
	return t
}

// writeTemplateFixture marshals the template into dir and returns its path.
func writeTemplateFixture(t *testing.T, dir string) string {
	t.Helper()
	data, err := writer.Marshal(buildTemplateFixture())
	if err != nil {
		t.Fatalf("failed to marshal template fixture: %v", err)
	}
	path := filepath.Join(dir, "양식.hwpx")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write template fixture: %v", err)
	}
	return path
}

const fixtureContentJSON = `{
  "개요": {"text": "친환경 포장재 개발 및 상용화"},
  "table1": {"table": [["구분", "내용"], ["1분기", "시제품 제작"], ["2분기", "양산 검증"]]}
}`

func TestVersionCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	output, err := runCLI(t, binPath, nil, "version")
	if err != nil {
		t.Errorf("unexpected error: %v\noutput: %s", err, output)
	}

	if !strings.Contains(output, "sandoc") {
		t.Errorf("output should contain 'sandoc', got: %s", output)
	}
}

func TestFormatsCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	output, err := runCLI(t, binPath, nil, "formats")
	if err != nil {
		t.Errorf("unexpected error: %v\noutput: %s", err, output)
	}

	for _, want := range []string{"hwp5", "hwpx", "✓"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	dir := t.TempDir()
	template := writeTemplateFixture(t, dir)

	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "inspect hwpx",
			args:       []string{"inspect", template},
			wantOutput: []string{"hwpx", "사업계획서"},
		},
		{
			name:       "inspect json",
			args:       []string{"inspect", template, "--json"},
			wantOutput: []string{`"format": "hwpx"`},
		},
		{
			name:    "inspect non-existent file",
			args:    []string{"inspect", "없는파일.hwpx"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output, err := runCLI(t, binPath, nil, tc.args...)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v\noutput: %s", err, output)
			}
			for _, want := range tc.wantOutput {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestExtractCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	dir := t.TempDir()
	template := writeTemplateFixture(t, dir)

	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "extract as json",
			args:       []string{"extract", template},
			wantOutput: []string{`"format": "hwpx"`, `"sections"`},
		},
		{
			name:       "extract as text",
			args:       []string{"extract", template, "--format", "text"},
			wantOutput: []string{"제목: 사업계획서", "1. 사업 개요", "구분 | 내용"},
		},
		{
			name:    "extract non-existent file",
			args:    []string{"extract", "없는파일.hwpx"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output, err := runCLI(t, binPath, nil, tc.args...)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v\noutput: %s", err, output)
			}
			for _, want := range tc.wantOutput {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestProfileCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	dir := t.TempDir()
	template := writeTemplateFixture(t, dir)

	output, err := runCLI(t, binPath, nil, "profile", template)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, output)
	}

	for _, want := range []string{`"documentInfo"`, `"styles"`, `"body"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

// TestFillWorkflow drives the full command sequence a user would run:
// analyze → inject → validate → extract.
func TestFillWorkflow(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	dir := t.TempDir()
	template := writeTemplateFixture(t, dir)
	mappingPath := filepath.Join(dir, "mapping.json")
	contentPath := filepath.Join(dir, "content.json")
	outPath := filepath.Join(dir, "작성본.hwpx")
	env := []string{"SANDOC_STRICT="}

	t.Run("analyze", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "analyze", template, "-o", mappingPath)
		if err != nil {
			t.Fatalf("analyze failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "양식 분석 완료") {
			t.Errorf("output should contain the analysis summary, got: %s", output)
		}
		if !strings.Contains(output, "table1") {
			t.Errorf("output should list the table target, got: %s", output)
		}
		if _, err := os.Stat(mappingPath); err != nil {
			t.Fatalf("mapping file not written: %v", err)
		}
	})

	if err := os.WriteFile(contentPath, []byte(fixtureContentJSON), 0644); err != nil {
		t.Fatalf("failed to write content file: %v", err)
	}

	t.Run("inject", func(t *testing.T) {
		output, err := runCLI(t, binPath, env,
			"inject", template, "-m", mappingPath, "-c", contentPath, "-o", outPath)
		if err != nil {
			t.Fatalf("inject failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "작성 완료") {
			t.Errorf("output should report completion, got: %s", output)
		}
		if _, err := os.Stat(outPath); err != nil {
			t.Fatalf("output file not written: %v", err)
		}
		if _, err := os.Stat(template + ".bak"); err != nil {
			t.Errorf("template backup not written: %v", err)
		}
	})

	t.Run("validate filled", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "validate", outPath, "-m", mappingPath, "--strict")
		if err != nil {
			t.Fatalf("validate failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "검증 통과") {
			t.Errorf("output should report a clean pass, got: %s", output)
		}
	})

	t.Run("validate template finds unfilled", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "validate", template, "-m", mappingPath)
		if err != nil {
			t.Fatalf("validate failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "미기재") {
			t.Errorf("output should report unfilled targets, got: %s", output)
		}
	})

	t.Run("extract filled text", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "extract", outPath, "--format", "text")
		if err != nil {
			t.Fatalf("extract failed: %v\noutput: %s", err, output)
		}
		for _, want := range []string{"친환경 포장재 개발 및 상용화", "시제품 제작", "양산 검증"} {
			if !strings.Contains(output, want) {
				t.Errorf("output should contain injected content %q, got: %s", want, output)
			}
		}
	})
}

func TestInjectRejectsHWPOutput(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	dir := t.TempDir()
	template := writeTemplateFixture(t, dir)
	mappingPath := filepath.Join(dir, "mapping.json")
	contentPath := filepath.Join(dir, "content.json")

	if out, err := runCLI(t, binPath, nil, "analyze", template, "-o", mappingPath); err != nil {
		t.Fatalf("analyze failed: %v\noutput: %s", err, out)
	}
	if err := os.WriteFile(contentPath, []byte(fixtureContentJSON), 0644); err != nil {
		t.Fatalf("failed to write content file: %v", err)
	}

	output, err := runCLI(t, binPath, nil,
		"inject", template, "-m", mappingPath, "-c", contentPath,
		"-o", filepath.Join(dir, "출력.hwp"))
	if err == nil {
		t.Fatalf("expected error for .hwp output, got: %s", output)
	}
	if !strings.Contains(output, "쓰기는 지원하지 않습니다") {
		t.Errorf("output should explain HWP writing is unsupported, got: %s", output)
	}
}

func TestConfigCommands(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	dir := t.TempDir()
	env := []string{"XDG_CONFIG_HOME=" + dir}

	t.Run("config path", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "config", "path")
		if err != nil {
			t.Fatalf("unexpected error: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, filepath.Join("sandoc", "config.yaml")) {
			t.Errorf("output should contain the config path, got: %s", output)
		}
	})

	t.Run("config init and set", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "config", "init")
		if err != nil {
			t.Fatalf("config init failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "설정 파일 생성됨") {
			t.Errorf("output should confirm creation, got: %s", output)
		}

		output, err = runCLI(t, binPath, env, "config", "set", "validate.tolerance", "1000")
		if err != nil {
			t.Fatalf("config set failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "설정 변경됨") {
			t.Errorf("output should confirm the change, got: %s", output)
		}

		output, err = runCLI(t, binPath, env, "config", "show")
		if err != nil {
			t.Fatalf("config show failed: %v\noutput: %s", err, output)
		}
		if !strings.Contains(output, "tolerance: 1000") {
			t.Errorf("output should show the stored tolerance, got: %s", output)
		}
	})

	t.Run("config set rejects unknown key", func(t *testing.T) {
		output, err := runCLI(t, binPath, env, "config", "set", "없는키", "1")
		if err == nil {
			t.Errorf("expected error for unknown key, got: %s", output)
		}
	})
}

func TestHelpCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	output, err := runCLI(t, binPath, nil, "--help")
	if err != nil {
		t.Errorf("unexpected error: %v\noutput: %s", err, output)
	}

	expectedStrings := []string{"sandoc", "inspect", "extract", "profile", "analyze", "inject", "validate", "formats", "config"}
	for _, s := range expectedStrings {
		if !strings.Contains(output, s) {
			t.Errorf("output should contain %q, got: %s", s, output)
		}
	}
}
