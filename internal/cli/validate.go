package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/config"
	"github.com/parkgeonsan/sandoc/internal/inject"
	"github.com/parkgeonsan/sandoc/internal/style"
	"github.com/parkgeonsan/sandoc/internal/validate"
)

var (
	validateProfile string
	validateMapping string
	validateOutput  string
	validateStrict  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "작성된 문서의 완성도 검증",
	Long: `작성본을 검사하여 미기재 항목, 스타일 불일치, 표 합계 오류,
단위 불일치를 보고합니다. 매핑을 주면 주입 대상이 실제로
채워졌는지까지 확인합니다.

예시:
  sandoc validate 제출본.hwpx
  sandoc validate 제출본.hwpx -m mapping.json -p profile.json
  sandoc validate 제출본.hwpx --strict -o report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateProfile, "profile", "p", "", "스타일 프로파일 경로 (없으면 스타일 역할 검사 생략)")
	validateCmd.Flags().StringVarP(&validateMapping, "mapping", "m", "", "주입 매핑 경로 (없으면 문서 전체 검사만)")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "보고서 JSON 저장 경로")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "지적이 있으면 오류로 종료")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := parseDocument(cmd, args[0])
	if err != nil {
		return err
	}

	var prof *style.Profile
	if validateProfile != "" {
		prof, err = style.Load(validateProfile)
		if err != nil {
			return fmt.Errorf("프로파일을 읽을 수 없습니다: %w", err)
		}
	}

	var mapping inject.Mapping
	if validateMapping != "" {
		mapping, err = inject.LoadMapping(validateMapping)
		if err != nil {
			return fmt.Errorf("매핑을 읽을 수 없습니다: %w", err)
		}
	}

	report := validate.Check(doc, prof, mapping, cfg.Validation)

	if validateOutput != "" {
		if err := writeReport(report, validateOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "보고서 저장됨: %s\n", validateOutput)
	}

	if report.OK() {
		fmt.Fprintln(cmd.OutOrStdout(), "검증 통과: 지적 없음")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "검증 지적 %d건:\n", findingCount(report))
	printReport(cmd.OutOrStdout(), report)

	if validateStrict || config.GetEnvBool("SANDOC_STRICT") {
		return fmt.Errorf("검증 실패: 지적 %d건", findingCount(report))
	}
	return nil
}
