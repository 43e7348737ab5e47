package geometa

import (
	"io"

	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/types"
)

// Filetype is an alias to types.Filetype.
// Re-exporting from internal/types to maintain public API.
type Filetype = types.Filetype

// Re-export all filetype constants.
const (
	FiletypeUnknown   = types.FiletypeUnknown
	FiletypeCSV       = types.FiletypeCSV
	FiletypeGeoJSON   = types.FiletypeGeoJSON
	FiletypeTopoJSON  = types.FiletypeTopoJSON
	FiletypeShapefile = types.FiletypeShapefile
	FiletypeKML       = types.FiletypeKML
	FiletypeGPX       = types.FiletypeGPX
	FiletypeTIFF      = types.FiletypeTIFF
	FiletypeVRT       = types.FiletypeVRT
)

// Dstype is an alias to types.Dstype.
type Dstype = types.Dstype

// DetectFiletype is a wrapper around types.DetectFiletype.
// Maintains the public API while delegating to internal implementation.
func DetectFiletype(r io.ReaderAt, size int64, path string) (Filetype, error) {
	return types.DetectFiletype(r, size, path)
}

// SupportedFiletypes returns the filetypes an adapter is registered for.
func SupportedFiletypes() []Filetype {
	return registry.Filetypes()
}
