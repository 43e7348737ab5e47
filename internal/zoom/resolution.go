package zoom

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/srs"
	"github.com/simonhull/geometa/internal/types"
)

// resolutionLevels is the deepest zoom of the ground resolution table.
const resolutionLevels = 19

// Resolution returns the ground resolution in meters per pixel of zoom z
// at the given latitude.
func Resolution(z int, lat float64) float64 {
	return circumference * math.Cos(lat*math.Pi/180) / math.Exp2(float64(z+8))
}

// ResolutionRange picks the zoom range whose resolution first covers a
// spherical mercator pixel size, scanning from zoom 19 down to 0.
func ResolutionRange(mercatorPixelSize, lat float64, cfg Config) (types.ZoomRange, error) {
	if !(mercatorPixelSize > 0) || math.IsInf(mercatorPixelSize, 0) {
		return types.ZoomRange{}, types.Invalid(types.ErrZoomResolution, "Invalid pixel size: %v", mercatorPixelSize)
	}

	for z := resolutionLevels; z >= 0; z-- {
		if Resolution(z, lat) >= mercatorPixelSize {
			maxzoom := z + 1
			return types.ZoomRange{Min: max(0, maxzoom-cfg.RasterSpan), Max: maxzoom}, nil
		}
	}

	return types.ZoomRange{}, types.Invalid(types.ErrZoomResolution,
		"No zoom level matches a pixel size of %.2f meters", mercatorPixelSize)
}

// MercatorPixelSize measures one native pixel in spherical mercator
// meters: a horizontal line one pixel long, centered on center, is
// transformed from proj to web mercator.
func MercatorPixelSize(e srs.Engine, proj string, pixelWidth float64, center types.Center) (float64, error) {
	native, err := e.Transform(srs.WGS84, proj, []orb.Point{center.Point()})
	if err != nil {
		return 0, types.Invalid(types.ErrZoomResolution, "Could not locate center in source projection").Wrap(err)
	}

	half := pixelWidth / 2
	line := []orb.Point{
		{native[0][0] - half, native[0][1]},
		{native[0][0] + half, native[0][1]},
	}
	merc, err := e.Transform(proj, srs.SphericalMercator, line)
	if err != nil {
		return 0, types.Invalid(types.ErrZoomResolution, "Could not transform pixel to web mercator").Wrap(err)
	}

	return math.Hypot(merc[1][0]-merc[0][0], merc[1][1]-merc[0][1]), nil
}

// RasterRange estimates the zoom range of a raster with the given native
// pixel size, WGS84 center and PROJ4 projection.
//
// The pixel size is validated against the unit table first: a projection
// naming a unit without a conversion is a configuration error.
func RasterRange(e srs.Engine, pixelSize [2]float64, center types.Center, proj string, cfg Config) (types.ZoomRange, error) {
	width := math.Abs(pixelSize[0])
	// Only the unit is checked here. The pixel is reprojected in native
	// units, so the converted width is not used.
	if _, err := ToMeters(width, UnitOf(proj)); err != nil {
		return types.ZoomRange{}, err
	}

	size, err := MercatorPixelSize(e, proj, width, center)
	if err != nil {
		return types.ZoomRange{}, err
	}

	return ResolutionRange(size, center[1], cfg)
}
