package types

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

// KindInvalid is the machine-readable kind carried by every error that
// describes a structurally or semantically invalid source.
const KindInvalid = "EINVALID"

// Error categories. Match them with errors.Is; the concrete value returned
// by the library is always an *Error wrapping one of these.
var (
	// ErrUnknownFiletype is returned when no adapter claims a source.
	ErrUnknownFiletype = errors.New("unknown filetype")
	// ErrUnrecognized is returned by DetectFiletype when the magic bytes
	// match none of the known formats.
	ErrUnrecognized = errors.New("unrecognized file signature")
	// ErrInvalidSource is returned when a source cannot be opened or is
	// structurally corrupt.
	ErrInvalidSource = errors.New("invalid source")
	// ErrMissingProjection is returned when a shapefile has no .prj sidecar.
	ErrMissingProjection = errors.New("missing projection")
	// ErrInvalidProjection is returned when a spatial reference cannot be parsed.
	ErrInvalidProjection = errors.New("invalid projection")
	// ErrUndefinedProjection is returned when a spatial reference parses
	// but has no PROJ4 equivalent.
	ErrUndefinedProjection = errors.New("undefined projection")
	// ErrUnsupportedFieldType is returned when a driver reports a field type
	// without a known label.
	ErrUnsupportedFieldType = errors.New("unsupported field type")
	// ErrNoFeatures is returned when a vector source has nothing to tile.
	ErrNoFeatures = errors.New("no features")
	// ErrInvalidBounds is returned when an extent covers no tiles.
	ErrInvalidBounds = errors.New("invalid bounds")
	// ErrInvalidSize is returned for non-positive byte sizes.
	ErrInvalidSize = errors.New("invalid size")
	// ErrUnknownUnit is returned when a projection names an unknown linear unit.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrZoomResolution is returned when no zoom level matches a pixel size.
	ErrZoomResolution = errors.New("zoom resolution unreachable")
	// ErrBandStatistics is returned when a raster band cannot be summarized.
	ErrBandStatistics = errors.New("band statistics")
)

// Error is a digest failure with a machine-readable kind.
//
// Err holds the category sentinel and Cause the library error that
// triggered the failure, if any. Both are reachable through errors.Is and
// errors.As.
type Error struct {
	Err   error
	Cause error
	Kind  string
	Msg   string
}

// Invalid builds an EINVALID error in the given category.
func Invalid(category error, format string, args ...any) *Error {
	return &Error{
		Kind: KindInvalid,
		Err:  category,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap attaches the underlying library error.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap exposes both the category and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Code returns the machine-readable code for err: the Kind of an *Error,
// the errno name of an I/O failure, or "" when nothing applies.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := errnoNames[errno]; name != "" {
			return name
		}
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "ENOENT"
	case errors.Is(err, fs.ErrPermission):
		return "EACCES"
	}
	return ""
}

var errnoNames = map[syscall.Errno]string{
	syscall.ENOENT:  "ENOENT",
	syscall.EACCES:  "EACCES",
	syscall.EISDIR:  "EISDIR",
	syscall.ENOTDIR: "ENOTDIR",
	syscall.EIO:     "EIO",
	syscall.EMFILE:  "EMFILE",
}

// Sanitize replaces occurrences of path in an *Error's message and cause
// text with "source". Context added by wrappers around the *Error (a layer
// name, a band index) is folded into the message. Other errors are
// returned unchanged so native I/O errors keep their identity.
func Sanitize(err error, path string) error {
	var e *Error
	if path == "" || !errors.As(err, &e) {
		return err
	}
	msg := e.Msg
	if outer, inner := err.Error(), e.Error(); outer != inner && strings.HasSuffix(outer, inner) {
		msg = strings.TrimSuffix(outer, inner) + e.Msg
	}
	out := &Error{
		Kind: e.Kind,
		Err:  e.Err,
		Msg:  redact(msg, path),
	}
	if e.Cause != nil {
		out.Cause = &redactedError{
			err: e.Cause,
			msg: redact(e.Cause.Error(), path),
		}
	}
	return out
}

func redact(s, path string) string {
	return strings.ReplaceAll(s, path, "source")
}

// redactedError keeps the original error in the chain while hiding its text.
type redactedError struct {
	err error
	msg string
}

func (r *redactedError) Error() string { return r.msg }
func (r *redactedError) Unwrap() error { return r.err }
