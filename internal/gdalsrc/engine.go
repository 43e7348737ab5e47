package gdalsrc

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
)

// Engine implements srs.Engine with OSR spatial references.
type Engine struct {
	mu sync.Mutex
}

// NewEngine returns an OSR-backed engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Proj4 implements srs.Engine.
func (e *Engine) Proj4(definition string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sr, err := parse(definition)
	if err != nil {
		return "", err
	}
	defer sr.Destroy()

	proj, err := sr.ToProj4()
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(proj), nil
}

// Transform implements srs.Engine.
func (e *Engine) Transform(from, to string, pts []orb.Point) ([]orb.Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := parse(from)
	if err != nil {
		return nil, fmt.Errorf("source projection: %w", err)
	}
	defer src.Destroy()

	dst, err := parse(to)
	if err != nil {
		return nil, fmt.Errorf("target projection: %w", err)
	}
	defer dst.Destroy()

	ct := gdal.CreateCoordinateTransform(src, dst)
	defer ct.Destroy()

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	zs := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p[0], p[1]
	}
	if !ct.Transform(len(pts), xs, ys, zs) {
		return nil, errors.New("coordinate transformation failed")
	}

	out := make([]orb.Point, len(pts))
	for i := range out {
		out[i] = orb.Point{xs[i], ys[i]}
	}
	return out, nil
}

// parse builds a spatial reference from PROJ4, WKT or "ESRI::" WKT.
func parse(definition string) (gdal.SpatialReference, error) {
	sr := gdal.CreateSpatialReference("")
	def := strings.TrimSpace(definition)

	var err error
	switch {
	case strings.HasPrefix(def, "ESRI::"):
		if err = sr.FromWKT(strings.TrimPrefix(def, "ESRI::")); err == nil {
			err = sr.MorphFromESRI()
		}
	case strings.HasPrefix(def, "+"):
		err = sr.FromProj4(def)
	default:
		err = sr.FromWKT(def)
	}
	if err != nil {
		sr.Destroy()
		return gdal.SpatialReference{}, fmt.Errorf("parse spatial reference: %w", err)
	}
	return sr, nil
}
