// Package cli implements the sandoc command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/config"
	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
)

var version = "dev"

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "sandoc",
	Short: "HWP/HWPX 양식 문서 자동 작성 도구",
	Long: `sandoc은 HWP 5.x / HWPX 양식 문서를 읽어 스타일 프로파일을 추출하고,
매핑된 내용을 원본 서식 그대로 주입한 뒤 검증하여 안전하게 저장합니다.

처리 단계:
  analyze   양식 구조 분석 → 주입 매핑 생성
  profile   스타일 프로파일 추출
  inject    내용 주입 + 검증 + 안전 저장
  validate  작성된 문서 검증

예시:
  sandoc inspect 양식.hwp
  sandoc profile 양식.hwpx -o profile.json
  sandoc analyze 양식.hwpx -o mapping.json
  sandoc inject 양식.hwpx -m mapping.json -c content.json -o 보고서.hwpx`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sandoc %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the effective configuration and applies the log level.
// 설정 파일이 없으면 기본값을 쓴다.
func loadConfig() (*config.Config, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("설정 로더 초기화 실패: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("설정 로드 실패: %w", err)
	}
	parser.SetLogLevel(parser.ParseLogLevel(cfg.Log.Level))
	return cfg, nil
}

// parseDocument opens path with the matching engine and parses it.
func parseDocument(cmd *cobra.Command, path string) (*ir.Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
	}
	r, _, err := parser.DefaultRegistry.Open(path, parser.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("문서를 열 수 없습니다: %w", err)
	}
	defer r.Close()

	doc, err := r.Parse(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("문서 파싱 실패: %w", err)
	}
	return doc, nil
}
