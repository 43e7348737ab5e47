package gdalsrc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lukeroth/gdal"

	"github.com/simonhull/geometa/internal/datasource"
	"github.com/simonhull/geometa/internal/types"
)

// identityTransform is what GDAL reports for datasets without
// georeferencing.
var identityTransform = [6]float64{0, 1, 0, 0, 0, 1}

type raster struct {
	ds     gdal.Dataset
	mu     *sync.Mutex
	closed bool
}

func (r *raster) Size() (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, h := r.ds.RasterXSize(), r.ds.RasterYSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", w, h)
	}
	return w, h, nil
}

func (r *raster) GeoTransform() ([6]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gt := r.ds.GeoTransform()
	if gt == identityTransform {
		return gt, errors.New("dataset has no geotransform")
	}
	return gt, nil
}

func (r *raster) SpatialRef() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ds.Projection()
}

func (r *raster) BandCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ds.RasterCount()
}

func (r *raster) Band(i int) (datasource.Band, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 1 || i > r.ds.RasterCount() {
		return nil, fmt.Errorf("band %d out of range", i)
	}
	return &band{b: r.ds.RasterBand(i), mu: r.mu}, nil
}

func (r *raster) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.ds.Close()
		r.closed = true
	}
	return nil
}

type band struct {
	b  gdal.RasterBand
	mu *sync.Mutex
}

// Statistics reads one pixel before asking for statistics: GDAL reports
// zeroed statistics instead of an error when VRT sources are missing.
func (b *band) Statistics() (types.BandStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := make([]float64, 1)
	if err := b.b.IO(gdal.Read, 0, 0, 1, 1, buf, 1, 1, 0, 0); err != nil {
		return types.BandStats{}, fmt.Errorf("read pixel data: %w", err)
	}

	lo, hi, mean, stdDev := b.b.GetStatistics(0, 1)
	return types.BandStats{Min: lo, Max: hi, Mean: mean, StdDev: stdDev}, nil
}

func (b *band) NoData() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.NoDataValue()
}

func (b *band) Scale() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	scale, ok := b.b.GetScale()
	if !ok {
		return 1
	}
	return scale
}

func (b *band) UnitType() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.GetUnitType()
}

func (b *band) DataType() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.RasterDataType().Name()
}

func (b *band) ColorInterp() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.ColorInterp().Name()
}

func (b *band) CategoryNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.CategoryNames()
}

func (b *band) Overviews() []types.Overview {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.b.OverviewCount()
	out := make([]types.Overview, 0, n)
	for i := 0; i < n; i++ {
		ov := b.b.Overview(i)
		out = append(out, types.Overview{Width: ov.XSize(), Height: ov.YSize()})
	}
	return out
}

func (b *band) HasArbitraryOverviews() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.HasArbitraryOverviews() != 0
}

func (b *band) BlockSize() [2]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	x, y := b.b.BlockSize()
	return [2]int{x, y}
}
