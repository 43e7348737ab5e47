package gdalsrc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/datasource"
)

type vector struct {
	ds     gdal.Dataset
	mu     *sync.Mutex
	closed bool
}

func (v *vector) Layers() ([]datasource.Layer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, errors.New("dataset is closed")
	}

	// Dataset has no layer count; indexes past the last layer are null.
	var layers []datasource.Layer
	for i := 0; ; i++ {
		l := v.ds.LayerByIndex(i)
		if l.IsNull() {
			break
		}
		layers = append(layers, &layer{l: l, mu: v.mu})
	}
	return layers, nil
}

func (v *vector) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.ds.Close()
		v.closed = true
	}
	return nil
}

type layer struct {
	l  gdal.Layer
	mu *sync.Mutex
}

func (l *layer) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.l.Name()
}

func (l *layer) FeatureCount() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.l.FeatureCount(true)
	if !ok {
		return 0, fmt.Errorf("layer %s: feature count unavailable", l.l.Name())
	}
	return n, nil
}

func (l *layer) Extent() (orb.Bound, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	env, err := l.l.Extent(true)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("layer %s extent: %w", l.l.Name(), err)
	}
	return orb.Bound{
		Min: orb.Point{env.MinX(), env.MinY()},
		Max: orb.Point{env.MaxX(), env.MaxY()},
	}, nil
}

func (l *layer) SpatialRef() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	sr := l.l.SpatialReference()
	if sr.IsNull() {
		return ""
	}
	wkt, err := sr.ToWKT()
	if err != nil {
		return ""
	}
	return wkt
}

func (l *layer) Fields() ([]datasource.Field, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	def := l.l.Definition()
	n := def.FieldCount()
	fields := make([]datasource.Field, 0, n)
	for i := 0; i < n; i++ {
		fd := def.FieldDefinition(i)
		fields = append(fields, datasource.Field{
			Name: fd.Name(),
			Kind: fieldKind(fd.Type()),
		})
	}
	return fields, nil
}

func (l *layer) PointGeometry() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.l.Definition().GeometryType() {
	case gdal.GT_Point, gdal.GT_MultiPoint, gdal.GT_Point25D, gdal.GT_MultiPoint25D:
		return true
	}
	return false
}

func fieldKind(t gdal.FieldType) datasource.FieldKind {
	switch t {
	case gdal.FT_Integer:
		return datasource.FieldInteger
	case gdal.FT_IntegerList:
		return datasource.FieldIntegerList
	case gdal.FT_Real:
		return datasource.FieldReal
	case gdal.FT_RealList:
		return datasource.FieldRealList
	case gdal.FT_String:
		return datasource.FieldString
	case gdal.FT_StringList:
		return datasource.FieldStringList
	case gdal.FT_Binary:
		return datasource.FieldBinary
	case gdal.FT_Date:
		return datasource.FieldDate
	case gdal.FT_Time:
		return datasource.FieldTime
	case gdal.FT_DateTime:
		return datasource.FieldDateTime
	case gdal.FT_Integer64:
		return datasource.FieldInteger64
	case gdal.FT_Integer64List:
		return datasource.FieldInteger64List
	}
	return datasource.FieldUnknown
}
