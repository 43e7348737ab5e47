// Package ogr implements the multi-layer adapter for KML and GPX
// documents read through the OGR driver.
//
// Zero-feature layers are dropped. Projection, zoom geometry type and the
// details payload come from the first remaining layer; the extent covers
// all of them.
package ogr

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/datasource"
	"github.com/simonhull/geometa/internal/memo"
	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/srs"
	"github.com/simonhull/geometa/internal/types"
	"github.com/simonhull/geometa/internal/zoom"
)

func init() {
	registry.Register(&registry.Descriptor{
		Name:        "ogr",
		Dstype:      types.DstypeOGR,
		DetailsName: types.DetailsJSON,
		Filetypes:   []types.Filetype{types.FiletypeKML, types.FiletypeGPX},
		Open:        Open,
	})
}

// Source is an open KML or GPX document.
type Source struct {
	size int64
	env  registry.Env
	ds   datasource.Vector

	layers     memo.Value[[]datasource.Layer]
	projection memo.Value[string]
	extent     memo.Value[types.Extent]
	details    memo.Value[types.Details]
}

// Open opens a KML or GPX document.
func Open(path string, size int64, env registry.Env) (registry.Source, error) {
	ds, err := env.Driver.OpenVector(path)
	if err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid %s source", kind(env.Filetype)).Wrap(err)
	}
	return &Source{size: size, env: env, ds: ds}, nil
}

// kind names the document type for messages.
func kind(ft types.Filetype) string {
	switch ft {
	case types.FiletypeGPX:
		return "GPX"
	case types.FiletypeKML:
		return "KML"
	}
	return "OGR"
}

// retained returns the layers holding at least one feature.
func (s *Source) retained() ([]datasource.Layer, error) {
	return s.layers.Get(func() ([]datasource.Layer, error) {
		all, err := s.ds.Layers()
		if err != nil {
			return nil, types.Invalid(types.ErrInvalidSource, "Could not read layers").Wrap(err)
		}

		var kept []datasource.Layer
		for _, l := range all {
			n, err := l.FeatureCount()
			if err != nil {
				return nil, types.Invalid(types.ErrInvalidSource, "Could not count features of layer %q", l.Name()).Wrap(err)
			}
			if n > 0 {
				kept = append(kept, l)
			}
		}

		if len(kept) == 0 {
			if s.env.Filetype == types.FiletypeKML {
				return nil, types.Invalid(types.ErrNoFeatures,
					"Source appears to have no features data. KML NetworkLinks and remote layers are not supported")
			}
			return nil, types.Invalid(types.ErrNoFeatures, "Source appears to have no features data")
		}
		return kept, nil
	})
}

// Layers implements registry.Source.
func (s *Source) Layers() ([]string, error) {
	layers, err := s.retained()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = l.Name()
	}
	return names, nil
}

// Projection implements registry.Source.
func (s *Source) Projection() (string, error) {
	return s.projection.Get(func() (string, error) {
		layers, err := s.retained()
		if err != nil {
			return "", err
		}
		return srs.FromDataset(s.env.CRS, layers[0].SpatialRef())
	})
}

// Extent implements registry.Source.
func (s *Source) Extent() (types.Extent, error) {
	return s.extent.Get(func() (types.Extent, error) {
		layers, err := s.retained()
		if err != nil {
			return types.Extent{}, err
		}

		var union orb.Bound
		for i, l := range layers {
			b, err := layerBound(s.env.CRS, l)
			if err != nil {
				return types.Extent{}, err
			}
			if i == 0 {
				union = b
			} else {
				union = union.Union(b)
			}
		}
		return types.ExtentFromBound(union), nil
	})
}

// layerBound returns a layer envelope in WGS84.
func layerBound(e srs.Engine, l datasource.Layer) (orb.Bound, error) {
	native, err := l.Extent()
	if err != nil {
		return orb.Bound{}, types.Invalid(types.ErrInvalidSource, "Could not read extent of layer %q", l.Name()).Wrap(err)
	}
	proj, err := srs.FromDataset(e, l.SpatialRef())
	if err != nil {
		return orb.Bound{}, fmt.Errorf("layer %q: %w", l.Name(), err)
	}
	b, err := srs.TransformBound(e, proj, srs.WGS84, native)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("layer %q: %w", l.Name(), err)
	}
	return b, nil
}

// Center implements registry.Source.
func (s *Source) Center() (types.Center, error) {
	e, err := s.Extent()
	if err != nil {
		return types.Center{}, err
	}
	return e.Center(), nil
}

// Zooms implements registry.Source.
func (s *Source) Zooms() (types.ZoomRange, error) {
	layers, err := s.retained()
	if err != nil {
		return types.ZoomRange{}, err
	}
	e, err := s.Extent()
	if err != nil {
		return types.ZoomRange{}, err
	}
	return zoom.VectorRange(s.size, e, layers[0].PointGeometry(), s.env.Zoom)
}

// Details implements registry.Source.
func (s *Source) Details() (types.Details, error) {
	return s.details.Get(func() (types.Details, error) {
		layers, err := s.retained()
		if err != nil {
			return types.Details{}, err
		}

		first := layers[0]
		fields, err := first.Fields()
		if err != nil {
			return types.Details{}, types.Invalid(types.ErrInvalidSource, "Could not read fields of layer %q", first.Name()).Wrap(err)
		}

		labels := make(map[string]string, len(fields))
		for _, f := range fields {
			label, ok := f.Kind.Label()
			if !ok {
				return types.Details{}, types.Invalid(types.ErrUnsupportedFieldType,
					"Unsupported field type for field %q of layer %q", f.Name, first.Name())
			}
			labels[f.Name] = label
		}

		layer := types.NewVectorLayer(first.Name(), labels)
		return types.Details{
			Vector: &types.VectorDetails{VectorLayers: []types.VectorLayer{layer}},
		}, nil
	})
}

// Close implements registry.Source.
func (s *Source) Close() error {
	return s.ds.Close()
}
