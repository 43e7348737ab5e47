// Package datasource defines the boundary to the native geospatial
// library that opens multi-layer vector documents and rasters.
//
// Adapters only see these interfaces. The GDAL implementation lives in
// internal/gdalsrc and an in-memory one in datasourcetest.
package datasource

import (
	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/types"
)

// Driver opens datasets by path.
type Driver interface {
	// OpenVector opens a vector dataset read-only.
	OpenVector(path string) (Vector, error)

	// OpenRaster opens a raster dataset read-only.
	OpenRaster(path string) (Raster, error)
}

// Vector is an open vector dataset.
type Vector interface {
	// Layers returns the dataset layers in driver order.
	Layers() ([]Layer, error)
	Close() error
}

// Layer is one layer of a vector dataset.
type Layer interface {
	Name() string

	// FeatureCount returns the number of features, counting them if the
	// driver does not know it up front.
	FeatureCount() (int, error)

	// Extent returns the layer envelope in its native spatial reference.
	Extent() (orb.Bound, error)

	// SpatialRef returns the layer spatial reference as WKT, or "" when
	// the layer has none.
	SpatialRef() string

	Fields() ([]Field, error)

	// PointGeometry reports whether the layer holds points or multipoints.
	PointGeometry() bool
}

// Raster is an open raster dataset.
type Raster interface {
	// Size returns the raster dimensions in pixels.
	Size() (width, height int, err error)

	// GeoTransform returns the affine transform from pixel/line to
	// georeferenced coordinates.
	GeoTransform() ([6]float64, error)

	// SpatialRef returns the dataset spatial reference as WKT.
	SpatialRef() string

	BandCount() int

	// Band returns the band with the 1-based index i.
	Band(i int) (Band, error)

	Close() error
}

// Band is one raster band.
type Band interface {
	// Statistics computes exact band statistics. It fails when the pixel
	// data cannot be read, such as a VRT whose sources are missing.
	Statistics() (types.BandStats, error)

	NoData() (float64, bool)
	Scale() float64
	UnitType() string
	DataType() string
	ColorInterp() string
	CategoryNames() []string
	Overviews() []types.Overview
	HasArbitraryOverviews() bool
	BlockSize() [2]int
}
