package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/analyze"
)

var (
	analyzeOutput string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "양식 구조를 분석하고 주입 매핑 생성",
	Long: `양식 문서를 분석하여 섹션 제목, 입력 필드, 빈 표, 그림 자리를
찾고 채움 대상 목록(매핑)을 만듭니다. 매핑을 파일로 저장하면
inject 명령에 바로 쓸 수 있습니다.

예시:
  sandoc analyze 양식.hwpx
  sandoc analyze 양식.hwpx -o mapping.json
  sandoc analyze 양식.hwpx --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "매핑 JSON 저장 경로")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "분석 결과 전체를 JSON으로 출력")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	doc, err := parseDocument(cmd, args[0])
	if err != nil {
		return err
	}

	outline := analyze.Analyze(doc)

	if analyzeOutput != "" {
		if err := outline.Mapping.Save(analyzeOutput); err != nil {
			return fmt.Errorf("매핑 저장 실패: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "매핑 저장됨: %s (%d개 대상)\n",
			analyzeOutput, len(outline.Mapping))
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(outline, "", "  ")
		if err != nil {
			return fmt.Errorf("분석 결과 직렬화 실패: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printOutline(cmd, outline)
	fmt.Fprintln(cmd.ErrOrStderr(), outline.Summary())
	return nil
}

func printOutline(cmd *cobra.Command, o *analyze.Outline) {
	if len(o.Items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "분석 항목이 없습니다.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "경로\t종류\t내용\t참조")
	fmt.Fprintln(w, "----\t----\t----\t----")
	for _, it := range o.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.Path, kindLabel(it.Kind), itemText(it), it.Ref)
	}
	w.Flush()
}

func kindLabel(k analyze.ItemKind) string {
	switch k {
	case analyze.ItemHeading:
		return "제목"
	case analyze.ItemField:
		return "빈칸"
	case analyze.ItemTable:
		return "표"
	case analyze.ItemImage:
		return "그림"
	}
	return string(k)
}

func itemText(it analyze.Item) string {
	if it.Kind == analyze.ItemHeading && it.Level > 1 {
		return strings.Repeat("  ", it.Level-1) + it.Text
	}
	return it.Text
}
