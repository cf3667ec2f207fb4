package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/config"
	"github.com/parkgeonsan/sandoc/internal/inject"
	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
	"github.com/parkgeonsan/sandoc/internal/style"
	"github.com/parkgeonsan/sandoc/internal/validate"
	"github.com/parkgeonsan/sandoc/internal/writer"
)

var (
	injectMapping string
	injectContent string
	injectOutput  string
	injectProfile string
	injectReport  string
	injectStrict  bool
	injectVerbose bool
	injectQuiet   bool
)

var injectCmd = &cobra.Command{
	Use:   "inject <template>",
	Short: "양식 문서에 내용을 주입하여 작성본 생성",
	Long: `양식 문서의 매핑된 위치에 외부 내용을 채워 넣고 검증을 거쳐
새 HWPX 파일로 저장합니다. 원본 양식은 백업 후 절대 수정하지
않으며, 저장된 파일은 다시 읽어 내용이 일치하는지 확인합니다.

내용 파일은 contentRef를 키로 하는 JSON 객체입니다:
  {
    "text1":  {"text": "주식회사 한빛"},
    "table1": {"table": [["구분", "금액"], ["인건비", "1,000"]]},
    "image1": {"image": {"path": "logo.png", "caption": "회사 로고"}}
  }

예시:
  sandoc analyze 양식.hwpx -o mapping.json
  sandoc inject 양식.hwpx -m mapping.json -c content.json
  sandoc inject 양식.hwpx -m mapping.json -c content.json -o 제출본.hwpx --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runInject,
}

func init() {
	injectCmd.Flags().StringVarP(&injectMapping, "mapping", "m", "", "주입 매핑 JSON 경로 (필수)")
	injectCmd.Flags().StringVarP(&injectContent, "content", "c", "", "내용 JSON 경로 (필수)")
	injectCmd.Flags().StringVarP(&injectOutput, "output", "o", "", "출력 파일 경로 (기본: <양식>_filled.hwpx)")
	injectCmd.Flags().StringVar(&injectProfile, "profile", "", "스타일 프로파일 경로 (기본: 양식에서 추출)")
	injectCmd.Flags().StringVar(&injectReport, "report", "", "검증 보고서 JSON 저장 경로")
	injectCmd.Flags().BoolVar(&injectStrict, "strict", false, "검증 지적이 있으면 저장하지 않음")
	injectCmd.Flags().BoolVarP(&injectVerbose, "verbose", "v", false, "상세 출력")
	injectCmd.Flags().BoolVarP(&injectQuiet, "quiet", "q", false, "결과 메시지 생략")
	injectCmd.MarkFlagRequired("mapping")
	injectCmd.MarkFlagRequired("content")

	rootCmd.AddCommand(injectCmd)
}

func runInject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	templatePath := args[0]

	doc, err := parseDocument(cmd, templatePath)
	if err != nil {
		return err
	}

	prof, err := resolveProfile(doc, cfg)
	if err != nil {
		return err
	}

	mapping, err := inject.LoadMapping(injectMapping)
	if err != nil {
		return fmt.Errorf("매핑을 읽을 수 없습니다: %w", err)
	}

	contents, err := loadContents(injectContent)
	if err != nil {
		return fmt.Errorf("내용을 읽을 수 없습니다: %w", err)
	}

	if injectVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "매핑 %d개 대상, 내용 %d개 항목\n", len(mapping), len(contents))
	}

	filled, err := inject.Apply(doc, prof, mapping, contents)
	if err != nil {
		return fmt.Errorf("내용 주입 실패: %w", err)
	}

	report := validate.Check(filled, prof, mapping, cfg.Validation)
	if injectReport != "" {
		if err := writeReport(report, injectReport); err != nil {
			return err
		}
		if injectVerbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "검증 보고서 저장됨: %s\n", injectReport)
		}
	}
	if !report.OK() {
		if !injectQuiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "검증 지적 %d건:\n", findingCount(report))
			printReport(cmd.ErrOrStderr(), report)
		}
		if injectStrict || config.GetEnvBool("SANDOC_STRICT") {
			return fmt.Errorf("검증 지적 %d건으로 저장을 중단합니다", findingCount(report))
		}
	}

	outPath := injectOutput
	if outPath == "" {
		outPath = defaultOutputPath(templatePath, cfg.Output.Dir)
	}
	outFormat := parser.DetectFormat(outPath)
	eng, err := parser.DefaultRegistry.Get(outFormat)
	if err != nil || !eng.CanWrite {
		return fmt.Errorf("%s 형식 쓰기는 지원하지 않습니다. 출력 경로를 .hwpx로 지정하세요: %s",
			outFormat, outPath)
	}

	res, err := writer.NewSafeWriter(cfg.Write).Write(templatePath, filled, outPath)
	if err != nil {
		return fmt.Errorf("문서 저장 실패: %w", err)
	}

	if !injectQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "작성 완료: %s\n", res.Path)
	}
	if injectVerbose {
		if res.BackupPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "양식 백업: %s\n", res.BackupPath)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "쓰기 검증 통과 (시도 %d회)\n", res.Attempts)
	}
	return nil
}

// resolveProfile loads the profile file when given, otherwise derives one
// from the template itself.
func resolveProfile(doc *ir.Document, cfg *config.Config) (*style.Profile, error) {
	if injectProfile == "" {
		return style.Extract(doc, cfg.Style), nil
	}
	prof, err := style.Load(injectProfile)
	if err != nil {
		return nil, fmt.Errorf("프로파일을 읽을 수 없습니다: %w", err)
	}
	return prof, nil
}

// contentSpec is the on-disk form of one content item. 이미지 바이트는
// JSON에 넣지 않고 경로로 가리킨다.
type contentSpec struct {
	Text  string     `json:"text,omitempty"`
	Table [][]string `json:"table,omitempty"`
	Image *imageSpec `json:"image,omitempty"`
}

type imageSpec struct {
	Path     string  `json:"path"`
	Caption  string  `json:"caption,omitempty"`
	WidthMM  float64 `json:"widthMm,omitempty"`
	HeightMM float64 `json:"heightMm,omitempty"`
}

// loadContents reads a content JSON file and resolves image references.
// 이미지 경로는 내용 파일 기준 상대 경로다.
func loadContents(path string) (map[string]inject.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs map[string]contentSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("내용 파싱 실패 (%s): %w", path, err)
	}

	baseDir := filepath.Dir(path)
	contents := make(map[string]inject.Content, len(specs))
	for ref, spec := range specs {
		c := inject.Content{Text: spec.Text, Table: spec.Table}
		if spec.Image != nil {
			ic, err := loadImageContent(baseDir, spec.Image)
			if err != nil {
				return nil, fmt.Errorf("내용 %q: %w", ref, err)
			}
			c.Image = ic
		}
		contents[ref] = c
	}
	return contents, nil
}

func loadImageContent(baseDir string, spec *imageSpec) (*inject.ImageContent, error) {
	imgPath := spec.Path
	if !filepath.IsAbs(imgPath) {
		imgPath = filepath.Join(baseDir, imgPath)
	}
	data, err := os.ReadFile(imgPath)
	if err != nil {
		return nil, fmt.Errorf("이미지를 읽을 수 없습니다: %w", err)
	}
	return &inject.ImageContent{
		Data:    data,
		Format:  strings.ToLower(strings.TrimPrefix(filepath.Ext(imgPath), ".")),
		Width:   ir.FromMM(spec.WidthMM),
		Height:  ir.FromMM(spec.HeightMM),
		Caption: spec.Caption,
	}, nil
}

// defaultOutputPath places the filled document next to the template (or in
// dir when set), always as HWPX.
func defaultOutputPath(templatePath, dir string) string {
	base := filepath.Base(templatePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(templatePath)
	}
	return filepath.Join(dir, stem+"_filled.hwpx")
}

func writeReport(r *validate.Report, path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return fmt.Errorf("보고서 직렬화 실패: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("보고서 저장 실패: %w", err)
	}
	return nil
}

func findingCount(r *validate.Report) int {
	return len(r.Unfilled) + len(r.StyleMismatches) +
		len(r.ArithmeticMismatches) + len(r.UnitMismatches)
}

func printReport(w io.Writer, r *validate.Report) {
	for _, p := range r.Unfilled {
		fmt.Fprintf(w, "  미기재: %s\n", p)
	}
	for _, m := range r.StyleMismatches {
		fmt.Fprintf(w, "  스타일 불일치: %s (기대 %s, 실제 %s)\n", m.Path, m.ExpectedStyle, m.ActualStyle)
	}
	for _, m := range r.ArithmeticMismatches {
		fmt.Fprintf(w, "  합계 불일치: %s %d열 (기대 %g, 실제 %g)\n",
			m.TablePath, m.Column, m.ExpectedTotal, m.ActualTotal)
	}
	for _, m := range r.UnitMismatches {
		fmt.Fprintf(w, "  단위 불일치: %s %d열 (단위 %s)\n",
			m.TablePath, m.Column, strings.Join(m.Units, ", "))
	}
}
