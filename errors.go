package geometa

import (
	"github.com/simonhull/geometa/internal/types"
)

// Error is an alias to types.Error.
// Re-exporting from internal/types to maintain public API.
type Error = types.Error

// KindInvalid is the kind of every error describing an invalid source.
const KindInvalid = types.KindInvalid

// Error categories, matched with errors.Is.
var (
	ErrUnknownFiletype      = types.ErrUnknownFiletype
	ErrUnrecognized         = types.ErrUnrecognized
	ErrInvalidSource        = types.ErrInvalidSource
	ErrMissingProjection    = types.ErrMissingProjection
	ErrInvalidProjection    = types.ErrInvalidProjection
	ErrUndefinedProjection  = types.ErrUndefinedProjection
	ErrUnsupportedFieldType = types.ErrUnsupportedFieldType
	ErrNoFeatures           = types.ErrNoFeatures
	ErrInvalidBounds        = types.ErrInvalidBounds
	ErrInvalidSize          = types.ErrInvalidSize
	ErrUnknownUnit          = types.ErrUnknownUnit
	ErrZoomResolution       = types.ErrZoomResolution
	ErrBandStatistics       = types.ErrBandStatistics
)

// ErrorCode returns the machine-readable code of a digest error:
// KindInvalid for invalid sources, the errno name (ENOENT, EACCES, ...)
// for I/O failures, or "" when neither applies.
func ErrorCode(err error) string {
	return types.Code(err)
}
