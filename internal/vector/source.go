// Package vector implements the single-layer vector adapters: CSV,
// GeoJSON, TopoJSON and Shapefile.
//
// Each adapter reads its file once at open time into a summary (native
// bounds, feature count, schema) and answers every query from it.
package vector

import (
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/memo"
	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/srs"
	"github.com/simonhull/geometa/internal/types"
	"github.com/simonhull/geometa/internal/zoom"
)

// summary is what an adapter learns from reading its source.
type summary struct {
	bound    orb.Bound
	features int
	points   bool
	fields   map[string]string
}

// add folds one feature geometry into the summary. Empty geometries have
// no location and are not counted as features.
func (s *summary) add(g orb.Geometry) {
	if g == nil {
		return
	}
	b := g.Bound()
	if b.IsEmpty() {
		return
	}
	if s.features == 0 {
		s.bound = b
		s.points = isPoint(g)
	} else {
		s.bound = s.bound.Union(b)
		s.points = s.points && isPoint(g)
	}
	s.features++
}

func isPoint(g orb.Geometry) bool {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return true
	}
	return false
}

// source answers adapter queries from a summary. Sources in a projection
// other than WGS84 have their extent reprojected on first use.
type source struct {
	layer   string
	size    int64
	env     registry.Env
	summary summary

	// resolve returns the source projection; nil means WGS84.
	resolve func() (string, error)

	projection memo.Value[string]
	extent     memo.Value[types.Extent]
}

func newSource(path string, size int64, env registry.Env, s summary) *source {
	return &source{
		layer:   layerName(path),
		size:    size,
		env:     env,
		summary: s,
	}
}

// layerName derives the layer id from the file basename.
func layerName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *source) Projection() (string, error) {
	return s.projection.Get(func() (string, error) {
		if s.resolve == nil {
			return srs.WGS84, nil
		}
		return s.resolve()
	})
}

func (s *source) Extent() (types.Extent, error) {
	return s.extent.Get(func() (types.Extent, error) {
		if s.summary.features == 0 {
			return types.Extent{}, noFeatures()
		}
		proj, err := s.Projection()
		if err != nil {
			return types.Extent{}, err
		}
		b, err := srs.TransformBound(s.env.CRS, proj, srs.WGS84, s.summary.bound)
		if err != nil {
			return types.Extent{}, err
		}
		return types.ExtentFromBound(b), nil
	})
}

func (s *source) Center() (types.Center, error) {
	e, err := s.Extent()
	if err != nil {
		return types.Center{}, err
	}
	return e.Center(), nil
}

func (s *source) Zooms() (types.ZoomRange, error) {
	e, err := s.Extent()
	if err != nil {
		return types.ZoomRange{}, err
	}
	return zoom.VectorRange(s.size, e, s.summary.points, s.env.Zoom)
}

func (s *source) Layers() ([]string, error) {
	if s.summary.features == 0 {
		return nil, noFeatures()
	}
	return []string{s.layer}, nil
}

func (s *source) Details() (types.Details, error) {
	layer := types.NewVectorLayer(s.layer, s.summary.fields)
	return types.Details{
		Vector: &types.VectorDetails{VectorLayers: []types.VectorLayer{layer}},
	}, nil
}

func (s *source) Close() error { return nil }

func noFeatures() error {
	return types.Invalid(types.ErrNoFeatures, "Source appears to have no features data")
}
