package parser

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{
			name:     "hwpx extension",
			path:     "document.hwpx",
			expected: FormatHWPX,
		},
		{
			name:     "HWPX uppercase",
			path:     "DOCUMENT.HWPX",
			expected: FormatHWPX,
		},
		{
			name:     "hwp extension",
			path:     "document.hwp",
			expected: FormatHWP,
		},
		{
			name:     "hwp5 extension",
			path:     "document.hwp5",
			expected: FormatHWP,
		},
		{
			name:     "unknown extension",
			path:     "document.docx",
			expected: FormatUnknown,
		},
		{
			name:     "no extension",
			path:     "document",
			expected: FormatUnknown,
		},
		{
			name:     "path with directory",
			path:     "/path/to/document.hwpx",
			expected: FormatHWPX,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectFormat(tc.path)
			if got != tc.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatHWPX, "hwpx"},
		{FormatHWP, "hwp5"},
		{FormatUnknown, "unknown"},
		{Format(999), "unknown"},
	}

	for _, tc := range tests {
		got := tc.format.String()
		if got != tc.expected {
			t.Errorf("Format(%d).String() = %q, want %q", int(tc.format), got, tc.expected)
		}
	}
}

func TestDetectFormatFromReader(t *testing.T) {
	// OLE/CFBF signature (HWP 5.x)
	oleHeader := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	// ZIP local file header (HWPX)
	zipHeader := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00}

	// Unknown format
	unknownHeader := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}

	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{
			name:     "ole/hwp5 format",
			data:     oleHeader,
			expected: FormatHWP,
		},
		{
			name:     "zip/hwpx format",
			data:     zipHeader,
			expected: FormatHWPX,
		},
		{
			name:     "unknown format",
			data:     unknownHeader,
			expected: FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reader := bytes.NewReader(tc.data)
			got, err := DetectFormatFromReader(reader)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("DetectFormatFromReader() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectFormatFromReader_ShortData(t *testing.T) {
	shortData := []byte{0x50, 0x4B}
	reader := bytes.NewReader(shortData)

	_, err := DetectFormatFromReader(reader)
	if err == nil {
		t.Error("expected error for short data")
	}
}

func TestFormatError_KindsAndHelpers(t *testing.T) {
	encErr := NewFormatError(Encrypted, "FileHeader", "암호화된 문서")
	if !IsEncrypted(encErr) {
		t.Error("IsEncrypted failed on Encrypted error")
	}
	if IsBadSignature(encErr) {
		t.Error("IsBadSignature matched an Encrypted error")
	}

	cause := errors.New("flate: corrupt input")
	wrapErr := WrapFormatError(CorruptStream, "BodyText/Section0", cause)
	if !IsFormatError(wrapErr, CorruptStream) {
		t.Error("IsFormatError failed on wrapped error")
	}
	if !errors.Is(wrapErr, cause) {
		t.Error("wrapped cause lost")
	}

	// wrapping through fmt.Errorf must still match
	outer := errorsJoin(wrapErr)
	if !IsFormatError(outer, CorruptStream) {
		t.Error("IsFormatError failed through a wrapping layer")
	}
}

func errorsJoin(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "stage failed: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestFormatErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     FormatErrorKind
		expected string
	}{
		{BadSignature, "bad_signature"},
		{Encrypted, "encrypted"},
		{Unsupported, "unsupported"},
		{CorruptStream, "corrupt_stream"},
		{TruncatedRecord, "truncated_record"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("kind %d: expected %q, got %q", int(tc.kind), got, tc.expected)
		}
	}
}

type stubReader struct{ doc *ir.Document }

func (s *stubReader) Parse(ctx context.Context) (*ir.Document, error) { return s.doc, nil }
func (s *stubReader) Close() error                                    { return nil }

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	doc := ir.NewDocument("hwpx")
	factory := func(path string, opts Options) (Reader, error) {
		return &stubReader{doc: doc}, nil
	}

	if err := reg.Register(Engine{Format: FormatHWPX, Open: factory, CanWrite: true}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := reg.Register(Engine{Format: FormatHWPX, Open: factory}); err == nil {
		t.Error("duplicate registration not rejected")
	}
	if err := reg.Register(Engine{Format: FormatUnknown, Open: factory}); err == nil {
		t.Error("unknown-format registration not rejected")
	}
	if err := reg.Register(Engine{Format: FormatHWP}); err == nil {
		t.Error("nil-factory registration not rejected")
	}

	if !reg.Has(FormatHWPX) {
		t.Error("Has(FormatHWPX) = false")
	}
	if reg.Has(FormatHWP) {
		t.Error("Has(FormatHWP) = true for unregistered format")
	}

	e, err := reg.Get(FormatHWPX)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !e.CanWrite {
		t.Error("engine capability lost")
	}

	r, format, err := reg.Open("template.hwpx", DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if format != FormatHWPX {
		t.Errorf("expected hwpx, got %s", format)
	}
	got, err := r.Parse(context.Background())
	if err != nil || got != doc {
		t.Errorf("stub reader not returned: %v", err)
	}

	if _, _, err := reg.Open("file.docx", DefaultOptions()); err == nil {
		t.Error("Open accepted undetectable format")
	}
	if _, _, err := reg.Open("file.hwp", DefaultOptions()); err == nil {
		t.Error("Open accepted format without engine")
	}

	list := reg.List()
	if len(list) != 1 || list[0].Format != FormatHWPX {
		t.Errorf("unexpected engine list: %+v", list)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogWarn)

	logger.Debugf("레코드 건너뜀 tag=0x%04X", 0x7F)
	if buf.Len() != 0 {
		t.Errorf("debug message logged at warn level: %q", buf.String())
	}

	logger.Warnf("알 수 없는 태그 0x%04X", 0x7F)
	if buf.Len() == 0 {
		t.Error("warn message suppressed at warn level")
	}
	if got := buf.String(); got != "[WARN] 알 수 없는 태그 0x007F\n" {
		t.Errorf("unexpected log line: %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("debug") != LogDebug {
		t.Error("debug not parsed")
	}
	if ParseLogLevel("off") != LogOff {
		t.Error("off not parsed")
	}
	if ParseLogLevel("nonsense") != LogWarn {
		t.Error("unknown level should default to warn")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.LoadImages {
		t.Error("expected LoadImages on by default")
	}
	if !opts.KeepEmpty {
		t.Error("expected KeepEmpty on by default")
	}
}
