package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parkgeonsan/sandoc/internal/analyze"
	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
	"github.com/parkgeonsan/sandoc/internal/validate"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "sandoc" {
		t.Errorf("expected Use 'sandoc', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestVersionCommand(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("expected Use 'version', got '%s'", versionCmd.Use)
	}

	if versionCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestRegisteredEngines(t *testing.T) {
	hwp, err := parser.DefaultRegistry.Get(parser.FormatHWP)
	if err != nil {
		t.Fatalf("expected HWP engine to be registered: %v", err)
	}
	if hwp.CanWrite {
		t.Error("expected HWP engine to be read-only")
	}

	hwpx, err := parser.DefaultRegistry.Get(parser.FormatHWPX)
	if err != nil {
		t.Fatalf("expected HWPX engine to be registered: %v", err)
	}
	if !hwpx.CanWrite {
		t.Error("expected HWPX engine to support writing")
	}
}

func TestInspectCommandFlags(t *testing.T) {
	if inspectCmd.Use != "inspect <file>" {
		t.Errorf("expected Use 'inspect <file>', got '%s'", inspectCmd.Use)
	}

	if inspectCmd.Flags().Lookup("json") == nil {
		t.Error("expected flag 'json' to exist")
	}
}

func TestExtractCommandFlags(t *testing.T) {
	if extractCmd.Use != "extract <file>" {
		t.Errorf("expected Use 'extract <file>', got '%s'", extractCmd.Use)
	}

	flags := []string{"output", "format", "pretty"}
	for _, flag := range flags {
		if extractCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestProfileCommandFlags(t *testing.T) {
	if profileCmd.Use != "profile <file>" {
		t.Errorf("expected Use 'profile <file>', got '%s'", profileCmd.Use)
	}

	if profileCmd.Flags().Lookup("output") == nil {
		t.Error("expected flag 'output' to exist")
	}
}

func TestAnalyzeCommandFlags(t *testing.T) {
	if analyzeCmd.Use != "analyze <file>" {
		t.Errorf("expected Use 'analyze <file>', got '%s'", analyzeCmd.Use)
	}

	flags := []string{"output", "json"}
	for _, flag := range flags {
		if analyzeCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestInjectCommandFlags(t *testing.T) {
	if injectCmd.Use != "inject <template>" {
		t.Errorf("expected Use 'inject <template>', got '%s'", injectCmd.Use)
	}

	flags := []string{"mapping", "content", "output", "profile", "report", "strict", "verbose", "quiet"}
	for _, flag := range flags {
		if injectCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestValidateCommandFlags(t *testing.T) {
	if validateCmd.Use != "validate <file>" {
		t.Errorf("expected Use 'validate <file>', got '%s'", validateCmd.Use)
	}

	flags := []string{"profile", "mapping", "output", "strict"}
	for _, flag := range flags {
		if validateCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestFormatsCommand(t *testing.T) {
	if formatsCmd.Use != "formats" {
		t.Errorf("expected Use 'formats', got '%s'", formatsCmd.Use)
	}

	if formatsCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestConfigCommand(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", configCmd.Use)
	}

	subcommands := []string{"show", "init", "set", "path"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range configCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestKindLabel(t *testing.T) {
	tests := []struct {
		kind     analyze.ItemKind
		expected string
	}{
		{analyze.ItemHeading, "제목"},
		{analyze.ItemField, "빈칸"},
		{analyze.ItemTable, "표"},
		{analyze.ItemImage, "그림"},
		{analyze.ItemKind("other"), "other"},
	}

	for _, tc := range tests {
		if got := kindLabel(tc.kind); got != tc.expected {
			t.Errorf("kindLabel(%q) = %q, want %q", tc.kind, got, tc.expected)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		template string
		dir      string
		expected string
	}{
		{"/tmp/양식.hwpx", "", "/tmp/양식_filled.hwpx"},
		{"/tmp/양식.hwp", "", "/tmp/양식_filled.hwpx"},
		{"/tmp/양식.hwpx", "/out", "/out/양식_filled.hwpx"},
		{"양식.hwpx", "", "양식_filled.hwpx"},
	}

	for _, tc := range tests {
		if got := defaultOutputPath(tc.template, tc.dir); got != tc.expected {
			t.Errorf("defaultOutputPath(%q, %q) = %q, want %q", tc.template, tc.dir, got, tc.expected)
		}
	}
}

func TestLoadContents(t *testing.T) {
	dir := t.TempDir()

	imgData := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), imgData, 0644); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}

	contentJSON := `{
  "text1": {"text": "주식회사 한빛"},
  "table1": {"table": [["구분", "금액"], ["인건비", "1,000"]]},
  "image1": {"image": {"path": "logo.png", "caption": "회사 로고", "widthMm": 40, "heightMm": 30}}
}`
	contentPath := filepath.Join(dir, "content.json")
	if err := os.WriteFile(contentPath, []byte(contentJSON), 0644); err != nil {
		t.Fatalf("Failed to write content: %v", err)
	}

	contents, err := loadContents(contentPath)
	if err != nil {
		t.Fatalf("loadContents failed: %v", err)
	}

	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	if contents["text1"].Text != "주식회사 한빛" {
		t.Errorf("expected text '주식회사 한빛', got '%s'", contents["text1"].Text)
	}
	if len(contents["table1"].Table) != 2 || contents["table1"].Table[1][1] != "1,000" {
		t.Errorf("unexpected table content: %v", contents["table1"].Table)
	}

	img := contents["image1"].Image
	if img == nil {
		t.Fatal("expected image content to be resolved")
	}
	if string(img.Data) != string(imgData) {
		t.Error("expected image bytes to match the file")
	}
	if img.Format != "png" {
		t.Errorf("expected format 'png', got '%s'", img.Format)
	}
	if img.Caption != "회사 로고" {
		t.Errorf("expected caption '회사 로고', got '%s'", img.Caption)
	}
	if img.Width != ir.FromMM(40) || img.Height != ir.FromMM(30) {
		t.Errorf("expected 40x30mm, got %v x %v", img.Width, img.Height)
	}
}

func TestLoadContentsMissingImage(t *testing.T) {
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "content.json")
	contentJSON := `{"image1": {"image": {"path": "없는파일.png"}}}`
	if err := os.WriteFile(contentPath, []byte(contentJSON), 0644); err != nil {
		t.Fatalf("Failed to write content: %v", err)
	}

	if _, err := loadContents(contentPath); err == nil {
		t.Error("expected error for missing image file")
	}
}

func TestLoadContentsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "content.json")
	if err := os.WriteFile(contentPath, []byte("{broken"), 0644); err != nil {
		t.Fatalf("Failed to write content: %v", err)
	}

	if _, err := loadContents(contentPath); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func textDoc() *ir.Document {
	doc := ir.NewDocument("hwpx")
	doc.Metadata.Title = "사업계획서"
	doc.Metadata.Author = "홍길동"
	sec := doc.AddSection(ir.PageGeometry{})

	p := ir.NewParagraph(0, 0)
	p.SetText(0, "1. 개요")
	sec.AddParagraph(p)

	tbl := ir.NewTable(2, 2)
	for _, cell := range []struct {
		r, c int
		text string
	}{
		{0, 0, "구분"}, {0, 1, "금액"},
		{1, 0, "인건비"}, {1, 1, "1,000"},
	} {
		cp := tbl.CellAt(cell.r, cell.c).FirstParagraph()
		cp.SetText(0, cell.text)
	}
	sec.AddTable(tbl)

	img := ir.NewImage("image1")
	img.Name = "BinData/image1.png"
	cap := ir.NewParagraph(0, 0)
	cap.SetText(0, "조직도")
	img.Caption = cap
	sec.AddImage(img)

	return doc
}

func TestFormatOutputJSON(t *testing.T) {
	out, err := formatOutput(textDoc(), "json")
	if err != nil {
		t.Fatalf("formatOutput failed: %v", err)
	}
	if !strings.Contains(out, `"format": "hwpx"`) {
		t.Error("expected JSON output to contain the document format")
	}
}

func TestFormatOutputText(t *testing.T) {
	out, err := formatOutput(textDoc(), "text")
	if err != nil {
		t.Fatalf("formatOutput failed: %v", err)
	}

	for _, want := range []string{
		"제목: 사업계획서",
		"작성자: 홍길동",
		"1. 개요",
		"구분 | 금액",
		"인건비 | 1,000",
		"[그림: BinData/image1.png]",
		"조직도",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected text output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatOutputUnknown(t *testing.T) {
	if _, err := formatOutput(textDoc(), "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFindingCount(t *testing.T) {
	report := validate.Check(nil, nil, nil, validate.DefaultOptions())
	if findingCount(report) != 0 {
		t.Errorf("expected 0 findings for empty report, got %d", findingCount(report))
	}

	report.Unfilled = append(report.Unfilled, "s0.b1")
	report.ArithmeticMismatches = append(report.ArithmeticMismatches, validate.ArithmeticMismatch{})
	if findingCount(report) != 2 {
		t.Errorf("expected 2 findings, got %d", findingCount(report))
	}
}
