// Package registry manages the source adapters for spatial file types.
package registry

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/simonhull/geometa/internal/datasource"
	"github.com/simonhull/geometa/internal/srs"
	"github.com/simonhull/geometa/internal/types"
	"github.com/simonhull/geometa/internal/zoom"
)

// Source is the capability set every adapter implements.
//
// All queries may be called concurrently. Derived values are computed at
// most once per Source.
type Source interface {
	// Projection returns the source spatial reference as PROJ4.
	Projection() (string, error)

	// Center returns the midpoint of Extent.
	Center() (types.Center, error)

	// Extent returns the source bounding box in WGS84.
	Extent() (types.Extent, error)

	// Details returns the vector schema or raster description.
	Details() (types.Details, error)

	// Layers returns the layer ids.
	Layers() ([]string, error)

	// Zooms returns the usable zoom range.
	Zooms() (types.ZoomRange, error)

	Close() error
}

// Env carries the collaborators adapters need.
type Env struct {
	Driver datasource.Driver
	CRS    srs.Engine
	Zoom   zoom.Config
	Logger *slog.Logger

	// Filetype is the detected filetype of the source being opened.
	Filetype types.Filetype
}

// Descriptor is the static metadata of an adapter family.
type Descriptor struct {
	// Name identifies the adapter in logs.
	Name string

	// Dstype is the storage-family tag recorded in digests.
	Dstype types.Dstype

	// DetailsName selects the details payload key: types.DetailsJSON or
	// types.DetailsRaster.
	DetailsName string

	// Filetypes lists the filetypes the adapter claims.
	Filetypes []types.Filetype

	// Open constructs the adapter. It fails immediately when the source
	// cannot be opened or is structurally invalid.
	Open func(path string, size int64, env Env) (Source, error)
}

// Claims reports whether the descriptor handles ft.
func (d *Descriptor) Claims(ft types.Filetype) bool {
	return slices.Contains(d.Filetypes, ft)
}

var (
	mu          sync.RWMutex
	descriptors = make(map[types.Filetype]*Descriptor)
)

// Register registers an adapter for every filetype it claims.
// This is called by adapter packages during initialization (init functions).
func Register(d *Descriptor) {
	mu.Lock()
	defer mu.Unlock()
	for _, ft := range d.Filetypes {
		descriptors[ft] = d
	}
}

// Get returns the adapter claiming a filetype.
// Returns nil if no adapter is registered for the filetype.
func Get(ft types.Filetype) *Descriptor {
	mu.RLock()
	defer mu.RUnlock()
	return descriptors[ft]
}

// Filetypes returns every registered filetype in enum order.
func Filetypes() []types.Filetype {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]types.Filetype, 0, len(descriptors))
	for ft := range descriptors {
		out = append(out, ft)
	}
	slices.Sort(out)
	return out
}
