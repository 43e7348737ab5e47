package zoom

import (
	"math"

	"github.com/paulmach/orb/maptile"

	"github.com/simonhull/geometa/internal/types"
)

const tileSize = 256

// TileRange is the inclusive range of tile columns and rows covering an
// extent at one zoom level. Max may be lower than Min for extents that do
// not cover a full pixel.
type TileRange struct {
	MinX, MinY, MaxX, MaxY int
	Zoom                   maptile.Zoom
}

// Count returns the number of tiles in the range; zero or negative when
// the range is empty.
func (r TileRange) Count() int {
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Tiles computes the tile range of a WGS84 extent at zoom z.
//
// Pixel coordinates are rounded half up and clamped to the grid; the upper
// edges are exclusive, so an extent narrower than one pixel covers no
// tiles.
func Tiles(extent types.Extent, z maptile.Zoom) TileRange {
	llx, lly := pixel(extent[0], extent[1], z)
	urx, ury := pixel(extent[2], extent[3], z)

	return TileRange{
		MinX: floorDiv(llx, tileSize),
		MinY: floorDiv(ury, tileSize),
		MaxX: floorDiv(urx-1, tileSize),
		MaxY: floorDiv(lly-1, tileSize),
		Zoom: z,
	}
}

// pixel projects a lon/lat pair to global pixel coordinates at zoom z.
func pixel(lon, lat float64, z maptile.Zoom) (int, int) {
	size := float64(tileSize) * math.Exp2(float64(z))
	half := size / 2

	f := math.Min(math.Max(math.Sin(lat*math.Pi/180), -0.9999), 0.9999)
	x := math.Floor(half + lon*size/360 + 0.5)
	y := math.Floor(half + 0.5*math.Log((1+f)/(1-f))*(-size/(2*math.Pi)) + 0.5)

	x = math.Min(x, size)
	y = math.Min(y, size)
	return int(x), int(y)
}

func floorDiv(a, b int) int {
	return int(math.Floor(float64(a) / float64(b)))
}

// MinMaxZoom runs the byte-density scan for a vector source of the given
// size covering extent.
//
// Zooms are scanned from 22 down to 0. Every level whose average tile is
// under cfg.MinTileBytes lowers maxzoom to that level. The scan stops at
// the first level whose average tile exceeds cfg.MaxTileBytes, which
// becomes minzoom, or at a single tile or zoom 0, which yields minzoom 0.
func MinMaxZoom(size int64, extent types.Extent, cfg Config) (types.ZoomRange, error) {
	if size <= 0 {
		return types.ZoomRange{}, types.Invalid(types.ErrInvalidSize, "Invalid size: %d bytes", size)
	}

	maxzoom := -1
	for z := types.MaxZoom; z >= 0; z-- {
		tiles := Tiles(extent, maptile.Zoom(z)).Count()
		if tiles <= 0 {
			return types.ZoomRange{}, types.Invalid(types.ErrInvalidBounds, "Bounds invalid")
		}

		avg := float64(size) / float64(tiles)
		if avg < cfg.MinTileBytes {
			maxzoom = z
		}

		if avg > cfg.MaxTileBytes {
			return span(z, maxzoom), nil
		}
		if tiles == 1 || z == 0 {
			return span(0, maxzoom), nil
		}
	}

	return types.ZoomRange{}, types.Invalid(types.ErrInvalidBounds, "Bounds invalid")
}

// span builds the result of a stopped scan. A source too dense to ever
// reach the small-tile threshold keeps the deepest zoom.
func span(minzoom, maxzoom int) types.ZoomRange {
	if maxzoom < 0 {
		maxzoom = types.MaxZoom
	}
	if maxzoom < minzoom {
		maxzoom = minzoom
	}
	return types.ZoomRange{Min: minzoom, Max: maxzoom}
}

// SmallestMaxZoom returns the max zoom floor for a source, or 0 when the
// source is too large for the floor to apply.
func SmallestMaxZoom(size int64, points bool, cfg Config) int {
	if size >= cfg.SmallSourceBytes {
		return 0
	}
	if points {
		return cfg.PointMaxZoomFloor
	}
	return cfg.MaxZoomFloor
}

// VectorRange combines the byte-density scan with the smallest max zoom
// floor. points reports whether the source holds point geometries.
func VectorRange(size int64, extent types.Extent, points bool, cfg Config) (types.ZoomRange, error) {
	z, err := MinMaxZoom(size, extent, cfg)
	if err != nil {
		return types.ZoomRange{}, err
	}
	if floor := min(SmallestMaxZoom(size, points, cfg), types.MaxZoom); floor > z.Max {
		z.Max = floor
	}
	return z, nil
}
