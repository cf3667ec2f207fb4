// Package writer persists documents as HWPX containers. SafeWriter never
// destroys caller data: the template is backed up first, output always
// lands at an unused path, and every write is read back and compared with
// the intended tree before it counts.
package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/inject"
	"github.com/parkgeonsan/sandoc/internal/ir"
	"github.com/parkgeonsan/sandoc/internal/parser"
	"github.com/parkgeonsan/sandoc/internal/parser/hwpx"
)

// Marshal renders the document as HWPX container bytes. Output is
// deterministic: the same document yields the same bytes, so writing an
// unchanged document twice produces identical files.
func Marshal(doc *ir.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := hwpx.WriteDocument(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Options configure safe writing.
type Options struct {
	BackupSuffix string `yaml:"backup_suffix"` // 원본 백업 접미사, 기본 ".bak"
	MaxAttempts  int    `yaml:"max_attempts"`  // 쓰기+검증 시도 한도, 기본 3
}

// DefaultOptions returns the standard safety settings.
func DefaultOptions() Options {
	return Options{BackupSuffix: ".bak", MaxAttempts: 3}
}

// Result describes a completed safe write.
type Result struct {
	Path       string // 실제 출력 경로 (겹치면 _v{N}이 붙는다)
	BackupPath string // 템플릿 백업 경로, 백업이 없으면 빈 문자열
	Attempts   int
}

// SafeWriter writes documents with backup, read-back verification, and
// output versioning.
type SafeWriter struct {
	opts   Options
	verify func(want, got *ir.Document) []string
}

// NewSafeWriter creates a writer, filling zero options with defaults.
func NewSafeWriter(opts Options) *SafeWriter {
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = ".bak"
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	return &SafeWriter{opts: opts, verify: ir.Diff}
}

// Write persists doc to outPath. templatePath, when non-empty, names the
// original document this one was derived from; it is backed up before
// anything else is touched and never modified. The written file is parsed
// back and compared with doc; a mismatch is retried up to the attempt
// limit and then reported as a verification failure, leaving no output.
func (w *SafeWriter) Write(templatePath string, doc *ir.Document, outPath string) (*Result, error) {
	res := &Result{}

	if templatePath != "" {
		backup, err := w.backup(templatePath)
		if err != nil {
			return nil, fmt.Errorf("백업 실패: %w", err)
		}
		res.BackupPath = backup
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("출력 디렉터리 생성 실패: %w", err)
		}
	}
	res.Path = versionedPath(outPath)

	var lastDiff []string
	for attempt := 1; attempt <= w.opts.MaxAttempts; attempt++ {
		res.Attempts = attempt

		data, err := Marshal(doc)
		if err != nil {
			return res, err
		}
		diff, err := w.writeAndVerify(res.Path, data, doc)
		if err != nil {
			return res, err
		}
		if len(diff) == 0 {
			return res, nil
		}
		lastDiff = diff
		parser.Warnf("쓰기 검증 실패 (%d/%d): %s", attempt, w.opts.MaxAttempts, diff[0])
	}

	return res, &inject.Error{
		Kind: inject.VerificationFailed,
		Path: res.Path,
		Got:  strings.Join(lastDiff, "; "),
	}
}

// backup copies the template next to itself with the backup suffix.
func (w *SafeWriter) backup(templatePath string) (string, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 새 문서 쓰기: 백업할 원본이 없다
			return "", nil
		}
		return "", err
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(templatePath); err == nil {
		mode = info.Mode().Perm()
	}

	backupPath := templatePath + w.opts.BackupSuffix
	if err := os.WriteFile(backupPath, data, mode); err != nil {
		return "", err
	}
	return backupPath, nil
}

// writeAndVerify writes data to a temp file, parses it back, and moves it
// to finalPath only when it reads back equal to want. A non-nil diff means
// a retryable verification mismatch; err means a filesystem failure.
func (w *SafeWriter) writeAndVerify(finalPath string, data []byte, want *ir.Document) ([]string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(finalPath), ".sandoc-*.hwpx")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	got, err := readBack(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return []string{fmt.Sprintf("다시 읽기 실패: %v", err)}, nil
	}
	if diff := w.verify(want, got); len(diff) > 0 {
		os.Remove(tmpPath)
		return diff, nil
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	return nil, nil
}

func readBack(path string) (*ir.Document, error) {
	r, err := hwpx.New(path, parser.DefaultOptions())
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Parse(context.Background())
}

// versionedPath returns path when free, otherwise name_v{N}.ext with the
// first unused N. 기존 출력은 절대 덮어쓰지 않는다.
func versionedPath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s_v%d%s", stem, n, ext)
		if _, err := os.Stat(cand); errors.Is(err, fs.ErrNotExist) {
			return cand
		}
	}
}
