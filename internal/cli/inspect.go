package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
	"github.com/parkgeonsan/sandoc/internal/parser/hwp5"
	"github.com/parkgeonsan/sandoc/internal/parser/hwpx"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "문서 형식과 컨테이너 구조 표시",
	Long: `문서의 형식, 버전, 헤더 속성과 컨테이너 내용을 표시합니다.

HWP 5.x 문서는 파일 헤더 비트(압축, 배포용, 스크립트)와 OLE 스트림
목록을, HWPX 문서는 버전 정보와 패키지 항목 목록을 보여줍니다.
암호화/DRM 문서는 열 수 없다는 오류만 보고합니다.

예시:
  sandoc inspect 양식.hwp
  sandoc inspect 양식.hwpx --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "JSON으로 출력")

	rootCmd.AddCommand(inspectCmd)
}

// inspectInfo is the machine-readable inspect result.
type inspectInfo struct {
	Path     string       `json:"path"`
	Format   string       `json:"format"`
	Version  string       `json:"version"`
	Metadata ir.Metadata  `json:"metadata"`
	Sections int          `json:"sections"`
	Blocks   int          `json:"blocks"`
	Header   *headerInfo  `json:"header,omitempty"`
	Streams  []streamInfo `json:"streams,omitempty"`
	Entries  []entryInfo  `json:"entries,omitempty"`
}

// headerInfo holds the HWP 5.x file header bits.
type headerInfo struct {
	Compressed    bool `json:"compressed"`
	Distributable bool `json:"distributable"`
	Script        bool `json:"script"`
}

type streamInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type entryInfo struct {
	ID        string `json:"id"`
	Href      string `json:"href"`
	MediaType string `json:"mediaType"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("파일을 열 수 없습니다: %w", err)
	}
	// 확장자가 아니라 매직 바이트로 판별한다.
	format, err := parser.DetectFormatFromReader(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("형식을 판별할 수 없습니다: %w", err)
	}

	var info *inspectInfo
	switch format {
	case parser.FormatHWP:
		info, err = inspectHWP5(cmd, inputPath)
	case parser.FormatHWPX:
		info, err = inspectHWPX(cmd, inputPath)
	default:
		return fmt.Errorf("지원하지 않는 파일 형식입니다: %s", inputPath)
	}
	if err != nil {
		return err
	}

	if inspectJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("출력 직렬화 실패: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printInspect(cmd, info)
	return nil
}

func inspectHWP5(cmd *cobra.Command, path string) (*inspectInfo, error) {
	p, err := hwp5.New(path, parser.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("문서를 열 수 없습니다: %w", err)
	}
	defer p.Close()

	doc, err := p.Parse(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("문서 파싱 실패: %w", err)
	}

	h := p.Header()
	info := &inspectInfo{
		Path:     path,
		Format:   parser.FormatHWP.String(),
		Version:  h.Version.String(),
		Metadata: doc.Metadata,
		Sections: len(doc.Sections),
		Blocks:   countBlocks(doc),
		Header: &headerInfo{
			Compressed:    h.IsCompressed(),
			Distributable: h.IsDistributable(),
			Script:        h.HasScript(),
		},
	}
	for _, s := range p.Container().Streams() {
		info.Streams = append(info.Streams, streamInfo{Name: s.Name, Size: s.Size})
	}
	return info, nil
}

func inspectHWPX(cmd *cobra.Command, path string) (*inspectInfo, error) {
	p, err := hwpx.New(path, parser.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("문서를 열 수 없습니다: %w", err)
	}
	defer p.Close()

	doc, err := p.Parse(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("문서 파싱 실패: %w", err)
	}

	info := &inspectInfo{
		Path:     path,
		Format:   parser.FormatHWPX.String(),
		Version:  doc.Version,
		Metadata: doc.Metadata,
		Sections: len(doc.Sections),
		Blocks:   countBlocks(doc),
	}
	if m := p.Manifest(); m != nil {
		for _, item := range m.Items {
			info.Entries = append(info.Entries, entryInfo{
				ID:        item.ID,
				Href:      item.Href,
				MediaType: item.MediaType,
			})
		}
	}
	return info, nil
}

func countBlocks(doc *ir.Document) int {
	n := 0
	for _, sec := range doc.Sections {
		n += len(sec.Blocks)
	}
	return n
}

func printInspect(cmd *cobra.Command, info *inspectInfo) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "파일: %s\n", info.Path)
	fmt.Fprintf(out, "형식: %s\n", info.Format)
	fmt.Fprintf(out, "버전: %s\n", info.Version)
	if info.Metadata.Title != "" {
		fmt.Fprintf(out, "제목: %s\n", info.Metadata.Title)
	}
	if info.Metadata.Author != "" {
		fmt.Fprintf(out, "작성자: %s\n", info.Metadata.Author)
	}
	fmt.Fprintf(out, "구역: %d개, 블록: %d개\n", info.Sections, info.Blocks)

	if info.Header != nil {
		fmt.Fprintf(out, "압축: %s, 배포용: %s, 스크립트: %s\n",
			yesNo(info.Header.Compressed), yesNo(info.Header.Distributable), yesNo(info.Header.Script))
	}

	if len(info.Streams) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "스트림\t크기")
		fmt.Fprintln(w, "------\t----")
		for _, s := range info.Streams {
			fmt.Fprintf(w, "%s\t%d\n", s.Name, s.Size)
		}
		w.Flush()
	}

	if len(info.Entries) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "항목\t경로\t종류")
		fmt.Fprintln(w, "----\t----\t----")
		for _, e := range info.Entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Href, e.MediaType)
		}
		w.Flush()
	}
}

func yesNo(b bool) string {
	if b {
		return "예"
	}
	return "아니오"
}
