package parser

import (
	"errors"
	"fmt"
)

// FormatErrorKind classifies malformed or unsupported input.
type FormatErrorKind int

const (
	// BadSignature: the container signature or MIME marker is absent.
	BadSignature FormatErrorKind = iota
	// Encrypted: the encryption bit is set; decryption is out of scope.
	Encrypted
	// Unsupported: DRM or another protection scheme this engine refuses.
	Unsupported
	// CorruptStream: a stream failed to decompress or decode.
	CorruptStream
	// TruncatedRecord: a record's declared size overruns its stream.
	TruncatedRecord
)

// String returns the kind name.
func (k FormatErrorKind) String() string {
	switch k {
	case BadSignature:
		return "bad_signature"
	case Encrypted:
		return "encrypted"
	case Unsupported:
		return "unsupported"
	case CorruptStream:
		return "corrupt_stream"
	case TruncatedRecord:
		return "truncated_record"
	default:
		return "unknown"
	}
}

// FormatError reports malformed or unsupported input. Path names the
// stream or container member involved when known.
type FormatError struct {
	Kind   FormatErrorKind
	Path   string
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("format error (%s)", e.Kind)
	if e.Path != "" {
		msg += fmt.Sprintf(" in %s", e.Path)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a format error of the given kind.
func NewFormatError(kind FormatErrorKind, path, detail string) *FormatError {
	return &FormatError{Kind: kind, Path: path, Detail: detail}
}

// WrapFormatError creates a format error wrapping a cause.
func WrapFormatError(kind FormatErrorKind, path string, err error) *FormatError {
	return &FormatError{Kind: kind, Path: path, Err: err}
}

// IsFormatError reports whether err is a FormatError of the given kind.
func IsFormatError(err error, kind FormatErrorKind) bool {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// IsEncrypted reports whether err signals an encrypted document.
func IsEncrypted(err error) bool {
	return IsFormatError(err, Encrypted)
}

// IsUnsupported reports whether err signals a DRM-protected document.
func IsUnsupported(err error) bool {
	return IsFormatError(err, Unsupported)
}

// IsBadSignature reports whether err signals a missing signature.
func IsBadSignature(err error) bool {
	return IsFormatError(err, BadSignature)
}
