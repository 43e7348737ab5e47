// Package srstest provides an in-memory srs.Engine for tests that must
// run without a native CRS library.
package srstest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/simonhull/geometa/internal/srs"
)

// Engine resolves definitions from a lookup table and applies registered
// point transforms. PROJ4 definitions not in the table resolve to
// themselves. WGS84 <-> spherical mercator is preregistered.
type Engine struct {
	mu         sync.Mutex
	defs       map[string]string
	errs       map[string]error
	transforms map[[2]string]func(orb.Point) orb.Point
	calls      []string
}

// New returns an Engine with the web mercator transforms registered.
func New() *Engine {
	e := &Engine{
		defs:       make(map[string]string),
		errs:       make(map[string]error),
		transforms: make(map[[2]string]func(orb.Point) orb.Point),
	}
	e.AddTransform(srs.WGS84, srs.SphericalMercator, project.WGS84.ToMercator)
	e.AddTransform(srs.SphericalMercator, srs.WGS84, project.Mercator.ToWGS84)
	return e
}

// Define maps a definition to a PROJ4 result; "" marks it undefined.
func (e *Engine) Define(definition, proj4 string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defs[definition] = proj4
	return e
}

// Fail makes parsing a definition fail with err.
func (e *Engine) Fail(definition string, err error) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs[definition] = err
	return e
}

// AddTransform registers a point transform between two PROJ4 strings.
func (e *Engine) AddTransform(from, to string, fn func(orb.Point) orb.Point) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transforms[[2]string{from, to}] = fn
	return e
}

// Calls returns the definitions passed to Proj4, in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Proj4 implements srs.Engine.
func (e *Engine) Proj4(definition string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, definition)

	if err, ok := e.errs[definition]; ok {
		return "", err
	}
	if proj, ok := e.defs[definition]; ok {
		return proj, nil
	}
	if strings.HasPrefix(strings.TrimSpace(definition), "+proj=") {
		return definition, nil
	}
	return "", fmt.Errorf("srstest: cannot parse %q", definition)
}

// Transform implements srs.Engine.
func (e *Engine) Transform(from, to string, pts []orb.Point) ([]orb.Point, error) {
	out := make([]orb.Point, len(pts))
	if srs.Same(from, to) {
		copy(out, pts)
		return out, nil
	}

	e.mu.Lock()
	fn, ok := e.transforms[[2]string{from, to}]
	e.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("srstest: no transform from %q to %q", from, to)
	}

	for i, p := range pts {
		out[i] = fn(p)
	}
	return out, nil
}
