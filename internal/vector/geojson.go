package vector

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/types"
)

func init() {
	registry.Register(&registry.Descriptor{
		Name:        "geojson",
		Dstype:      types.DstypeGeoJSON,
		DetailsName: types.DetailsJSON,
		Filetypes:   []types.Filetype{types.FiletypeGeoJSON},
		Open:        OpenGeoJSON,
	})
}

// OpenGeoJSON opens a GeoJSON FeatureCollection, Feature or bare geometry.
func OpenGeoJSON(path string, size int64, env registry.Env) (registry.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := decodeGeoJSON(data)
	if err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid GeoJSON").Wrap(err)
	}
	return newSource(path, size, env, summarize(fc)), nil
}

// decodeGeoJSON normalizes any GeoJSON object into a feature collection.
func decodeGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "FeatureCollection":
		return geojson.UnmarshalFeatureCollection(data)
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		return fc, nil
	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon", "GeometryCollection":
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(g.Geometry()))
		return fc, nil
	}
	return nil, fmt.Errorf("unknown GeoJSON type %q", head.Type)
}

// summarize folds a feature collection into a summary.
func summarize(fc *geojson.FeatureCollection) summary {
	var s summary
	sc := schema{}
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		s.add(f.Geometry)
		for name, v := range f.Properties {
			label, ok := valueLabel(v)
			sc.observe(name, label, ok)
		}
	}
	s.fields = sc.labels()
	return s
}
