// Package srs normalizes spatial reference definitions to PROJ4 strings
// and reprojects bounds between them.
//
// Parsing and coordinate math are delegated to an Engine; the GDAL-backed
// implementation lives in internal/gdalsrc.
package srs

import (
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/types"
)

// WGS84 is the PROJ4 definition of geographic WGS84 coordinates.
const WGS84 = "+proj=longlat +ellps=WGS84 +datum=WGS84 +no_defs"

// SphericalMercator is the PROJ4 definition of web mercator (EPSG:3857).
const SphericalMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs"

// esriPrefix marks a definition as ESRI-flavored WKT for the engine.
const esriPrefix = "ESRI::"

// Engine parses spatial reference definitions and transforms coordinates.
type Engine interface {
	// Proj4 parses a PROJ4, WKT or "ESRI::"-prefixed WKT definition and
	// returns its PROJ4 form. An empty result with a nil error means the
	// definition parsed but has no PROJ4 equivalent.
	Proj4(definition string) (string, error)

	// Transform reprojects points from one PROJ4 definition to another.
	Transform(from, to string, pts []orb.Point) ([]orb.Point, error)
}

// Same reports whether two PROJ4 strings are textually identical after
// whitespace normalization.
func Same(a, b string) bool {
	return strings.Join(strings.Fields(a), " ") == strings.Join(strings.Fields(b), " ")
}

// FromDataset converts a dataset or layer spatial reference definition
// (usually WKT) to PROJ4.
func FromDataset(e Engine, definition string) (string, error) {
	if strings.TrimSpace(definition) == "" {
		return "", types.Invalid(types.ErrInvalidProjection, "Invalid projection: source has no spatial reference")
	}
	proj, err := e.Proj4(definition)
	if err != nil {
		return "", types.Invalid(types.ErrInvalidProjection, "Invalid projection").Wrap(err)
	}
	if proj == "" {
		return "", types.Invalid(types.ErrInvalidProjection, "Invalid projection: no PROJ4 equivalent")
	}
	return proj, nil
}

// boundSamples is the number of points sampled along each bound edge.
const boundSamples = 8

// TransformBound reprojects a bound and returns the envelope of the
// reprojected edges. Edges are densified because straight lines in one
// projection bend in another.
func TransformBound(e Engine, from, to string, b orb.Bound) (orb.Bound, error) {
	if Same(from, to) {
		return b, nil
	}

	pts := make([]orb.Point, 0, 4*(boundSamples+1))
	for i := 0; i <= boundSamples; i++ {
		f := float64(i) / boundSamples
		x := b.Min[0] + f*(b.Max[0]-b.Min[0])
		y := b.Min[1] + f*(b.Max[1]-b.Min[1])
		pts = append(pts,
			orb.Point{x, b.Min[1]},
			orb.Point{x, b.Max[1]},
			orb.Point{b.Min[0], y},
			orb.Point{b.Max[0], y},
		)
	}

	out, err := e.Transform(from, to, pts)
	if err != nil {
		return orb.Bound{}, types.Invalid(types.ErrInvalidProjection, "Could not reproject bounds").Wrap(err)
	}

	var bound orb.Bound
	first := true
	for _, p := range out {
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
			continue
		}
		if first {
			bound = orb.Bound{Min: p, Max: p}
			first = false
			continue
		}
		bound = bound.Extend(p)
	}
	if first {
		return orb.Bound{}, types.Invalid(types.ErrInvalidProjection, "Invalid projection: bounds could not be reprojected")
	}
	return bound, nil
}
