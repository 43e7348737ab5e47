// Package datasourcetest provides in-memory datasets for adapter tests.
package datasourcetest

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"

	"github.com/simonhull/geometa/internal/datasource"
	"github.com/simonhull/geometa/internal/types"
)

// Driver serves registered datasets by path. Unregistered paths fail to
// open.
type Driver struct {
	mu      sync.Mutex
	vectors map[string]*Vector
	rasters map[string]*Raster
}

// NewDriver returns an empty Driver.
func NewDriver() *Driver {
	return &Driver{
		vectors: make(map[string]*Vector),
		rasters: make(map[string]*Raster),
	}
}

// AddVector registers a vector dataset at path.
func (d *Driver) AddVector(path string, v *Vector) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.vectors[path] = v
	return d
}

// AddRaster registers a raster dataset at path.
func (d *Driver) AddRaster(path string, r *Raster) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rasters[path] = r
	return d
}

// OpenVector implements datasource.Driver.
func (d *Driver) OpenVector(path string) (datasource.Vector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.vectors[path]
	if !ok {
		return nil, fmt.Errorf("datasourcetest: no vector dataset at %s", path)
	}
	return v, nil
}

// OpenRaster implements datasource.Driver.
func (d *Driver) OpenRaster(path string) (datasource.Raster, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rasters[path]
	if !ok {
		return nil, fmt.Errorf("datasourcetest: no raster dataset at %s", path)
	}
	return r, nil
}

// Vector is an in-memory vector dataset.
type Vector struct {
	LayerList []*Layer
	Err       error

	mu     sync.Mutex
	closed bool
}

// Layers implements datasource.Vector.
func (v *Vector) Layers() ([]datasource.Layer, error) {
	if v.Err != nil {
		return nil, v.Err
	}
	out := make([]datasource.Layer, len(v.LayerList))
	for i, l := range v.LayerList {
		out[i] = l
	}
	return out, nil
}

// Close implements datasource.Vector.
func (v *Vector) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// Closed reports whether Close was called.
func (v *Vector) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Layer is an in-memory vector layer.
type Layer struct {
	LayerName string
	Count     int
	Bound     orb.Bound
	WKT       string
	FieldList []datasource.Field
	Points    bool
	ExtentErr error
}

// Name implements datasource.Layer.
func (l *Layer) Name() string { return l.LayerName }

// FeatureCount implements datasource.Layer.
func (l *Layer) FeatureCount() (int, error) { return l.Count, nil }

// Extent implements datasource.Layer.
func (l *Layer) Extent() (orb.Bound, error) {
	if l.ExtentErr != nil {
		return orb.Bound{}, l.ExtentErr
	}
	return l.Bound, nil
}

// SpatialRef implements datasource.Layer.
func (l *Layer) SpatialRef() string { return l.WKT }

// Fields implements datasource.Layer.
func (l *Layer) Fields() ([]datasource.Field, error) { return l.FieldList, nil }

// PointGeometry implements datasource.Layer.
func (l *Layer) PointGeometry() bool { return l.Points }

// Raster is an in-memory raster dataset. Zero-valued error fields succeed.
type Raster struct {
	Width, Height int
	Transform     [6]float64
	WKT           string
	BandList      []*Band

	SizeErr      error
	TransformErr error
}

// Size implements datasource.Raster.
func (r *Raster) Size() (int, int, error) {
	if r.SizeErr != nil {
		return 0, 0, r.SizeErr
	}
	return r.Width, r.Height, nil
}

// GeoTransform implements datasource.Raster.
func (r *Raster) GeoTransform() ([6]float64, error) {
	if r.TransformErr != nil {
		return [6]float64{}, r.TransformErr
	}
	return r.Transform, nil
}

// SpatialRef implements datasource.Raster.
func (r *Raster) SpatialRef() string { return r.WKT }

// BandCount implements datasource.Raster.
func (r *Raster) BandCount() int { return len(r.BandList) }

// Band implements datasource.Raster.
func (r *Raster) Band(i int) (datasource.Band, error) {
	if i < 1 || i > len(r.BandList) {
		return nil, fmt.Errorf("datasourcetest: band %d out of range", i)
	}
	return r.BandList[i-1], nil
}

// Close implements datasource.Raster.
func (r *Raster) Close() error { return nil }

// Band is an in-memory raster band.
type Band struct {
	Stats        types.BandStats
	StatsErr     error
	NoDataValue  *float64
	ScaleValue   float64
	Unit         string
	Type         string
	Color        string
	Categories   []string
	OverviewList []types.Overview
	Arbitrary    bool
	Block        [2]int
}

// Statistics implements datasource.Band.
func (b *Band) Statistics() (types.BandStats, error) {
	if b.StatsErr != nil {
		return types.BandStats{}, b.StatsErr
	}
	return b.Stats, nil
}

// NoData implements datasource.Band.
func (b *Band) NoData() (float64, bool) {
	if b.NoDataValue == nil {
		return 0, false
	}
	return *b.NoDataValue, true
}

// Scale implements datasource.Band.
func (b *Band) Scale() float64 { return b.ScaleValue }

// UnitType implements datasource.Band.
func (b *Band) UnitType() string { return b.Unit }

// DataType implements datasource.Band.
func (b *Band) DataType() string { return b.Type }

// ColorInterp implements datasource.Band.
func (b *Band) ColorInterp() string { return b.Color }

// CategoryNames implements datasource.Band.
func (b *Band) CategoryNames() []string { return b.Categories }

// Overviews implements datasource.Band.
func (b *Band) Overviews() []types.Overview { return b.OverviewList }

// HasArbitraryOverviews implements datasource.Band.
func (b *Band) HasArbitraryOverviews() bool { return b.Arbitrary }

// BlockSize implements datasource.Band.
func (b *Band) BlockSize() [2]int { return b.Block }
