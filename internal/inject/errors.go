package inject

import (
	"errors"
	"fmt"
)

// ErrorKind classifies injection failures.
type ErrorKind int

const (
	// TargetNotFound: the mapping names a position the document lacks.
	TargetNotFound ErrorKind = iota
	// ShapeMismatch: table content dimensions differ from the target grid.
	ShapeMismatch
	// VerificationFailed: the written file did not read back equal.
	VerificationFailed
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case TargetNotFound:
		return "target_not_found"
	case ShapeMismatch:
		return "shape_mismatch"
	case VerificationFailed:
		return "verification_failed"
	default:
		return "unknown"
	}
}

// Error reports a failed injection or verification step. Path is the
// textual block path of the target when one is involved; Want and Got
// describe the mismatch (표 크기, 검증 차이 등).
type Error struct {
	Kind ErrorKind
	Path string
	Want string
	Got  string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("injection error (%s)", e.Kind)
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Want != "" || e.Got != "" {
		msg += fmt.Sprintf(": want %s, got %s", e.Want, e.Got)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an injection Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind == kind
	}
	return false
}

// IsTargetNotFound reports whether err names a missing target.
func IsTargetNotFound(err error) bool {
	return IsKind(err, TargetNotFound)
}

// IsShapeMismatch reports whether err is a table shape mismatch.
func IsShapeMismatch(err error) bool {
	return IsKind(err, ShapeMismatch)
}

// IsVerificationFailed reports whether err is a write verification failure.
func IsVerificationFailed(err error) bool {
	return IsKind(err, VerificationFailed)
}
