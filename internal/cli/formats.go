package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/parser"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "지원하는 문서 형식 목록",
	Long: `등록된 형식 엔진과 각 엔진의 읽기/쓰기 지원 여부를 보여줍니다.

예시:
  sandoc formats`,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	engines := parser.DefaultRegistry.List()
	if len(engines) == 0 {
		return fmt.Errorf("등록된 형식 엔진이 없습니다")
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "형식\t설명\t읽기\t쓰기")
	fmt.Fprintln(w, "----\t----\t----\t----")
	for _, e := range engines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Format, formatDescription(e.Format), mark(true), mark(e.CanWrite))
	}
	return w.Flush()
}

func formatDescription(f parser.Format) string {
	switch f {
	case parser.FormatHWP:
		return "HWP 5.x 바이너리 (OLE2 복합 파일)"
	case parser.FormatHWPX:
		return "HWPX (ZIP 기반 OWPML)"
	}
	return "-"
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
