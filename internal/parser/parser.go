// Package parser defines the reader interface shared by the HWP 5.x and
// HWPX engines, the magic-byte format probe, and the format error taxonomy.
package parser

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/parkgeonsan/sandoc/internal/ir"
)

// Reader is the interface for document readers.
type Reader interface {
	// Parse reads the document and returns the unified model.
	Parse(ctx context.Context) (*ir.Document, error)

	// Close releases any resources held by the reader.
	Close() error
}

// Format represents a document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatHWPX
	FormatHWP // HWP 5.x binary format
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatHWPX:
		return "hwpx"
	case FormatHWP:
		return "hwp5"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file extension.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".hwpx":
		return FormatHWPX
	case ".hwp", ".hwp5":
		return FormatHWP
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
// Probe order: OLE compound-file signature first, then ZIP local header.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}

	// OLE/CFBF magic number (HWP 5.x)
	if buf[0] == 0xD0 && buf[1] == 0xCF && buf[2] == 0x11 && buf[3] == 0xE0 {
		return FormatHWP, nil
	}

	// ZIP local file header (HWPX); the reader still verifies the MIME
	// marker entry before trusting this.
	if buf[0] == 'P' && buf[1] == 'K' && buf[2] == 0x03 && buf[3] == 0x04 {
		return FormatHWPX, nil
	}

	return FormatUnknown, nil
}

// Options contains reader configuration options.
type Options struct {
	LoadImages bool // resolve embedded image bytes into the model
	KeepEmpty  bool // keep empty paragraphs (lossless mode); always on for templates
}

// DefaultOptions returns default reader options: lossless, with images.
func DefaultOptions() Options {
	return Options{
		LoadImages: true,
		KeepEmpty:  true,
	}
}
