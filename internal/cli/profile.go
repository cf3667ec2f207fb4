package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/style"
)

var profileOutput string

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "양식 문서의 스타일 프로파일 추출",
	Long: `문서의 스타일 정의와 실제 사용 빈도를 분석하여 역할별 프로파일을
만듭니다. 프로파일은 inject가 새 텍스트에 입힐 서식과 validate의
스타일 검사 기준이 됩니다.

예시:
  sandoc profile 양식.hwpx
  sandoc profile 양식.hwpx -o profile.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profileOutput, "output", "o", "", "프로파일 저장 경로 (기본: stdout)")

	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := parseDocument(cmd, args[0])
	if err != nil {
		return err
	}

	prof := style.Extract(doc, cfg.Style)

	if profileOutput == "" {
		data, err := prof.JSON()
		if err != nil {
			return fmt.Errorf("프로파일 직렬화 실패: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := prof.Save(profileOutput); err != nil {
		return fmt.Errorf("프로파일 저장 실패: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "프로파일 저장됨: %s\n", profileOutput)
	return nil
}
