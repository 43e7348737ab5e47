// Package zoom estimates usable web map zoom ranges for spatial sources.
//
// Vector sources use a byte-density heuristic over the spherical mercator
// tile grid; raster sources use the ground resolution of one native pixel.
package zoom

// Config holds the tuning constants of both heuristics.
type Config struct {
	// MaxTileBytes is the average tile size above which a zoom level
	// oversummarizes the data; the scan stops there. Default 500 KiB.
	MaxTileBytes float64 `yaml:"max_tile_bytes" toml:"max_tile_bytes"`

	// MinTileBytes is the average tile size below which a zoom level still
	// carries detail; the coarsest such level becomes maxzoom. Default 1000.
	MinTileBytes float64 `yaml:"min_tile_bytes" toml:"min_tile_bytes"`

	// SmallSourceBytes is the size under which the smallest max zoom floor
	// applies. Default 5 MiB.
	SmallSourceBytes int64 `yaml:"small_source_bytes" toml:"small_source_bytes"`

	// PointMaxZoomFloor is the smallest max zoom for small point sources.
	PointMaxZoomFloor int `yaml:"point_max_zoom_floor" toml:"point_max_zoom_floor"`

	// MaxZoomFloor is the smallest max zoom for other small sources.
	MaxZoomFloor int `yaml:"max_zoom_floor" toml:"max_zoom_floor"`

	// RasterSpan is the number of levels between raster min and max zoom.
	RasterSpan int `yaml:"raster_span" toml:"raster_span"`
}

// DefaultConfig returns the tuning constants used by tilers downstream.
func DefaultConfig() Config {
	return Config{
		MaxTileBytes:      500 * 1024,
		MinTileBytes:      1000,
		SmallSourceBytes:  5 * 1024 * 1024,
		PointMaxZoomFloor: 11,
		MaxZoomFloor:      6,
		RasterSpan:        6,
	}
}
