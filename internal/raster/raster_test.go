package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/geometa/internal/datasource/datasourcetest"
	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/srs"
	"github.com/simonhull/geometa/internal/srs/srstest"
	"github.com/simonhull/geometa/internal/types"
	"github.com/simonhull/geometa/internal/zoom"
)

const (
	albersWKT   = `PROJCS["USA_Contiguous_Albers_Equal_Area_Conic_USGS_version"]`
	albersProj4 = "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +datum=NAD83 +units=m +no_defs"
	earthRadius = 6378137.0
	pixel       = 7.502071930146189
)

var center = orb.Point{-110.32476292309875, 44.56502238336985}

// engine stands in for the albers projection with an equirectangular one
// true to scale along the test latitude.
func engine() *srstest.Engine {
	k := math.Cos(center[1] * math.Pi / 180)
	forward := func(p orb.Point) orb.Point {
		return orb.Point{earthRadius * p[0] * math.Pi / 180 * k, earthRadius * p[1] * math.Pi / 180}
	}
	inverse := func(p orb.Point) orb.Point {
		return orb.Point{p[0] / (earthRadius * k) * 180 / math.Pi, p[1] / earthRadius * 180 / math.Pi}
	}
	return srstest.New().
		Define(albersWKT, albersProj4).
		AddTransform(srs.WGS84, albersProj4, forward).
		AddTransform(albersProj4, srs.WGS84, inverse).
		AddTransform(albersProj4, srs.SphericalMercator, func(p orb.Point) orb.Point {
			return project.WGS84.ToMercator(inverse(p))
		})
}

func nodata(v float64) *float64 { return &v }

// yellowstone returns a 1000x1000 raster centered on the test center.
func yellowstone(e *srstest.Engine) *datasourcetest.Raster {
	native, err := e.Transform(srs.WGS84, albersProj4, []orb.Point{center})
	if err != nil {
		panic(err)
	}
	half := 500 * pixel

	band := func(lo, hi float64) *datasourcetest.Band {
		return &datasourcetest.Band{
			Stats:       types.BandStats{Min: lo, Max: hi, Mean: (lo + hi) / 2, StdDev: 1},
			NoDataValue: nodata(-9999),
			ScaleValue:  1,
			Type:        "Float32",
			Color:       "Gray",
			Block:       [2]int{256, 256},
			OverviewList: []types.Overview{
				{Width: 500, Height: 500},
				{Width: 250, Height: 250},
			},
		}
	}

	return &datasourcetest.Raster{
		Width:  1000,
		Height: 1000,
		Transform: [6]float64{
			native[0][0] - half, pixel, 0,
			native[0][1] + half, 0, -pixel,
		},
		WKT:      albersWKT,
		BandList: []*datasourcetest.Band{band(1800, 3400), band(0, 255)},
	}
}

func openRaster(t *testing.T, path string, r *datasourcetest.Raster, e *srstest.Engine) (registry.Source, error) {
	t.Helper()
	return Open(path, 4096, registry.Env{
		Driver: datasourcetest.NewDriver().AddRaster(path, r),
		CRS:    e,
		Zoom:   zoom.DefaultConfig(),
	})
}

func TestRegistered(t *testing.T) {
	for _, ft := range []types.Filetype{types.FiletypeTIFF, types.FiletypeVRT} {
		d := registry.Get(ft)
		require.NotNil(t, d)
		assert.Equal(t, types.DstypeGDAL, d.Dstype)
		assert.Equal(t, types.DetailsRaster, d.DetailsName)
	}
}

func TestSource_Yellowstone(t *testing.T) {
	e := engine()
	src, err := openRaster(t, "/data/yellowstone.tif", yellowstone(e), e)
	require.NoError(t, err)
	defer src.Close()

	proj, err := src.Projection()
	require.NoError(t, err)
	assert.Equal(t, albersProj4, proj)

	ext, err := src.Extent()
	require.NoError(t, err)
	assert.True(t, ext.Valid())

	c, err := src.Center()
	require.NoError(t, err)
	assert.InDelta(t, center[0], c[0], 1e-6)
	assert.InDelta(t, center[1], c[1], 1e-6)

	z, err := src.Zooms()
	require.NoError(t, err)
	assert.InDelta(t, 15, z.Max, 1)
	assert.Equal(t, 6, z.Max-z.Min)

	layers, err := src.Layers()
	require.NoError(t, err)
	assert.Equal(t, []string{"yellowstone"}, layers)

	details, err := src.Details()
	require.NoError(t, err)
	require.Nil(t, details.Vector)
	d := details.Raster
	require.NotNil(t, d)
	assert.Equal(t, 2, d.BandCount)
	assert.Equal(t, 1000, d.Width)
	assert.Equal(t, [2]float64{pixel, -pixel}, d.PixelSize)
	assert.Equal(t, "m", d.Units)
	require.NotNil(t, d.NoData)
	assert.Equal(t, -9999.0, *d.NoData)

	require.Len(t, d.Bands, 2)
	assert.Equal(t, 1, d.Bands[0].ID)
	assert.Equal(t, 2, d.Bands[1].ID)
	assert.Equal(t, 3400.0, d.Bands[0].Stats.Max)
	assert.Equal(t, "Float32", d.Bands[0].RasterDatatype)
	assert.Len(t, d.Bands[0].Overviews, 2)
	assert.Equal(t, []string{}, d.Bands[0].CategoryNames)
}

func TestOpen_Failures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*datasourcetest.Raster)
		category error
		message  string
	}{
		{"dimensions", func(r *datasourcetest.Raster) { r.SizeErr = errors.New("bad header") }, types.ErrInvalidSource, "dimensions"},
		{"geotransform", func(r *datasourcetest.Raster) { r.TransformErr = errors.New("no georeferencing") }, types.ErrInvalidSource, "geotransform"},
		{"zero pixel", func(r *datasourcetest.Raster) { r.Transform[1] = 0 }, types.ErrInvalidSource, "geotransform"},
		{"spatial reference", func(r *datasourcetest.Raster) { r.WKT = `LOCAL_CS["garbage"]` }, types.ErrInvalidProjection, "spatial reference"},
		{"no spatial reference", func(r *datasourcetest.Raster) { r.WKT = "" }, types.ErrInvalidProjection, "spatial reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := engine()
			r := yellowstone(e)
			tt.mutate(r)

			_, err := openRaster(t, "broken.tif", r, e)
			require.ErrorIs(t, err, tt.category)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, types.KindInvalid, types.Code(err))
		})
	}
}

func TestOpen_Unopenable(t *testing.T) {
	_, err := Open("missing.tif", 10, registry.Env{
		Driver: datasourcetest.NewDriver(),
		CRS:    engine(),
		Zoom:   zoom.DefaultConfig(),
	})
	require.ErrorIs(t, err, types.ErrInvalidSource)
	assert.Contains(t, err.Error(), "could not open")
}

func TestDetails_BandFailureNamesBand(t *testing.T) {
	e := engine()
	r := yellowstone(e)
	r.BandList[1].StatsErr = errors.New("cannot open source raster relative/missing.tif")

	src, err := openRaster(t, "mosaic.vrt", r, e)
	require.NoError(t, err, "band failures surface from Details, not Open")

	_, err = src.Details()
	require.ErrorIs(t, err, types.ErrBandStatistics)
	assert.Contains(t, err.Error(), "band 2")

	ext, err := src.Extent()
	require.NoError(t, err, "other queries still succeed")
	assert.True(t, ext.Valid())
}

func TestDetails_NaNNoData(t *testing.T) {
	e := engine()
	r := yellowstone(e)
	for _, b := range r.BandList {
		b.NoDataValue = nodata(math.NaN())
	}

	src, err := openRaster(t, "nan.tif", r, e)
	require.NoError(t, err)

	details, err := src.Details()
	require.NoError(t, err)
	assert.Nil(t, details.Raster.NoData)
	assert.Nil(t, details.Raster.Bands[0].NoData)
}

func TestExtent_ReprojectionFailure(t *testing.T) {
	r := yellowstone(engine())
	bare := srstest.New().Define(albersWKT, albersProj4)

	src, err := openRaster(t, "dem.tif", r, bare)
	require.NoError(t, err)

	_, err = src.Extent()
	require.ErrorIs(t, err, types.ErrInvalidProjection)
	assert.Equal(t, types.KindInvalid, types.Code(err))
	assert.Contains(t, err.Error(), "raster extent")
}
