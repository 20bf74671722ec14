//go:build !ios && !android && (amd64 || arm64)

package vsgo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/obinnaokechukwu/vsgo/internal/bindings"
)

// Common errors. Every *Error matches exactly one of the first four through
// errors.Is.
var (
	// ErrScriptEvaluation indicates the engine rejected the script text or path.
	ErrScriptEvaluation = errors.New("vsgo: script evaluation failed")

	// ErrNoOutput indicates the script did not set output node 0.
	ErrNoOutput = errors.New("vsgo: no output node")

	// ErrUnsupportedClip indicates a variable-format or zero-length clip.
	ErrUnsupportedClip = errors.New("vsgo: unsupported clip")

	// ErrFrameFetch indicates one frame could not be produced or copied.
	ErrFrameFetch = errors.New("vsgo: frame fetch failed")

	// ErrClosed indicates the source or clip has been closed.
	ErrClosed = errors.New("vsgo: resource is closed")

	// ErrBufferTooSmall indicates the output buffer cannot hold a frame.
	ErrBufferTooSmall = errors.New("vsgo: output buffer too small")

	// ErrNotLoaded indicates the VapourSynth library is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrUnsupportedY4M indicates the clip format has no YUV4MPEG2 colorspace tag.
	ErrUnsupportedY4M = errors.New("vsgo: format cannot be written as YUV4MPEG2")

	// ErrUnsupportedImage indicates the clip format has no image.Image mapping.
	ErrUnsupportedImage = errors.New("vsgo: format cannot be converted to an image")
)

// ErrorKind classifies an *Error.
type ErrorKind int

const (
	KindScriptEvaluation ErrorKind = iota + 1
	KindNoOutput
	KindUnsupportedClip
	KindFrameFetch
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindScriptEvaluation:
		return "script evaluation"
	case KindNoOutput:
		return "no output"
	case KindUnsupportedClip:
		return "unsupported clip"
	case KindFrameFetch:
		return "frame fetch"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by clip construction and frame fetches.
type Error struct {
	Kind    ErrorKind
	Path    string // script path, construction errors only
	Frame   int    // frame index, fetch errors only
	Message string // full human-readable message
	Err     error  // underlying cause, may be nil
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "vsgo: " + e.Message
}

// Unwrap returns the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case KindScriptEvaluation:
		errs = append(errs, ErrScriptEvaluation)
	case KindNoOutput:
		errs = append(errs, ErrNoOutput)
	case KindUnsupportedClip:
		errs = append(errs, ErrUnsupportedClip)
	case KindFrameFetch:
		errs = append(errs, ErrFrameFetch)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func evaluationError(path string, cause error) *Error {
	msg := "evaluation failed for " + path
	if diag := engineDiagnostic(cause); diag != "" {
		msg += ": " + diag
	}
	return &Error{Kind: KindScriptEvaluation, Path: path, Message: msg, Err: cause}
}

func noOutputError(path string) *Error {
	return &Error{Kind: KindNoOutput, Path: path, Message: "no output node produced"}
}

func unsupportedClipError(path string) *Error {
	return &Error{
		Kind:    KindUnsupportedClip,
		Path:    path,
		Message: "unsupported clip: non-constant format or zero length",
	}
}

func frameError(n int, cause error) *Error {
	return &Error{
		Kind:    KindFrameFetch,
		Frame:   n,
		Message: fmt.Sprintf("error getting frame %d: %s", n, engineDiagnostic(cause)),
		Err:     cause,
	}
}

// DiagnosticError carries an engine diagnostic string verbatim.
// Engine implementations return it from Evaluate and GetFrame.
type DiagnosticError struct {
	Message string
}

// Error implements the error interface.
func (e *DiagnosticError) Error() string {
	return e.Message
}

// engineDiagnostic extracts the text the engine reported for cause.
func engineDiagnostic(cause error) string {
	if cause == nil {
		return ""
	}
	var diag *DiagnosticError
	if errors.As(cause, &diag) {
		return diag.Message
	}
	return strings.TrimPrefix(cause.Error(), "vsgo: ")
}
