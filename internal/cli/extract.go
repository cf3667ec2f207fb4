package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

var (
	extractOutput      string
	extractFormat      string
	extractPrettyPrint bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "문서 내용을 텍스트나 JSON으로 추출",
	Long: `문서를 파싱하여 통합 모델을 추출합니다.

JSON 출력은 구역/블록/런 단위의 전체 구조를, 텍스트 출력은 사람이
읽을 수 있는 요약을 제공합니다.

예시:
  sandoc extract 양식.hwpx
  sandoc extract 양식.hwp -o model.json
  sandoc extract 양식.hwpx --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "출력 형식 (json, text)")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	doc, err := parseDocument(cmd, args[0])
	if err != nil {
		return err
	}

	output, err := formatOutput(doc, extractFormat)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if extractOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	} else {
		if err := os.WriteFile(extractOutput, []byte(output), 0644); err != nil {
			return fmt.Errorf("파일 저장 실패: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "추출 완료: %s\n", extractOutput)
	}

	return nil
}

func formatOutput(doc *ir.Document, format string) (string, error) {
	switch format {
	case "json":
		var data []byte
		var err error
		if extractPrettyPrint {
			data, err = json.MarshalIndent(doc, "", "  ")
		} else {
			data, err = json.Marshal(doc)
		}
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		return formatAsText(doc), nil

	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}

func formatAsText(doc *ir.Document) string {
	var sb strings.Builder

	if doc.Metadata.Title != "" {
		fmt.Fprintf(&sb, "제목: %s\n", doc.Metadata.Title)
	}
	if doc.Metadata.Author != "" {
		fmt.Fprintf(&sb, "작성자: %s\n", doc.Metadata.Author)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n---\n\n")
	}

	for _, sec := range doc.Sections {
		for i := range sec.Blocks {
			writeBlockAsText(&sb, &sec.Blocks[i])
		}
	}

	return sb.String()
}

func writeBlockAsText(sb *strings.Builder, b *ir.Block) {
	switch b.Type {
	case ir.BlockTypeParagraph:
		if b.Paragraph == nil {
			return
		}
		if text := strings.TrimSpace(b.Paragraph.Text()); text != "" {
			sb.WriteString(text + "\n\n")
		}

	case ir.BlockTypeTable:
		if b.Table == nil {
			return
		}
		writeTableAsText(sb, b.Table)

	case ir.BlockTypeImage:
		if b.Image == nil {
			return
		}
		fmt.Fprintf(sb, "[그림: %s]\n", b.Image.Name)
		if b.Image.Caption != nil {
			if text := strings.TrimSpace(b.Image.Caption.Text()); text != "" {
				sb.WriteString(text + "\n")
			}
		}
		sb.WriteString("\n")
	}
}

func writeTableAsText(sb *strings.Builder, t *ir.TableBlock) {
	for r := 0; r < t.Rows; r++ {
		for c := 0; c < t.Cols; c++ {
			if c > 0 {
				sb.WriteString(" | ")
			}
			if cell := t.CellAt(r, c); cell != nil {
				sb.WriteString(strings.ReplaceAll(cell.Text(), "\n", " "))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
