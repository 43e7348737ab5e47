package vector

import (
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/datasource"
	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/srs"
	"github.com/simonhull/geometa/internal/types"
)

func init() {
	registry.Register(&registry.Descriptor{
		Name:        "shape",
		Dstype:      types.DstypeShape,
		DetailsName: types.DetailsJSON,
		Filetypes:   []types.Filetype{types.FiletypeShapefile},
		Open:        OpenShape,
	})
}

// dbfLabels maps dBASE field types to schema labels.
var dbfLabels = map[byte]string{
	'C': datasource.LabelString,
	'N': datasource.LabelNumber,
	'F': datasource.LabelNumber,
	'L': datasource.LabelBoolean,
	'D': datasource.LabelDate,
}

// OpenShape opens an ESRI shapefile. The projection comes from the .prj
// sidecar and is resolved on first use.
func OpenShape(path string, size int64, env registry.Env) (registry.Source, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid shapefile").Wrap(err)
	}
	defer r.Close()

	var s summary
	for r.Next() {
		s.features++
	}
	if err := r.Err(); err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid shapefile").Wrap(err)
	}

	box := r.BBox()
	s.bound = orb.Bound{
		Min: orb.Point{box.MinX, box.MinY},
		Max: orb.Point{box.MaxX, box.MaxY},
	}
	s.points = pointShape(r.GeometryType)

	s.fields = make(map[string]string)
	for _, f := range r.Fields() {
		label, ok := dbfLabels[f.Fieldtype]
		if !ok {
			label = datasource.LabelString
		}
		s.fields[f.String()] = label
	}

	src := newSource(path, size, env, s)
	src.resolve = func() (string, error) {
		return srs.FromPRJ(env.CRS, path)
	}
	return src, nil
}

func pointShape(t shp.ShapeType) bool {
	switch t {
	case shp.POINT, shp.POINTZ, shp.POINTM, shp.MULTIPOINT, shp.MULTIPOINTZ, shp.MULTIPOINTM:
		return true
	}
	return false
}
