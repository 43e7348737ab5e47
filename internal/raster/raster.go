// Package raster implements the GeoTIFF and VRT adapter.
//
// Georeferencing is validated when the source is opened so that a
// corrupt header fails before any pixel data is touched. Band statistics
// are computed on first use of Details.
package raster

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

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
		Name:        "gdal",
		Dstype:      types.DstypeGDAL,
		DetailsName: types.DetailsRaster,
		Filetypes:   []types.Filetype{types.FiletypeTIFF, types.FiletypeVRT},
		Open:        Open,
	})
}

// Source is an open raster dataset.
type Source struct {
	path       string
	env        registry.Env
	ds         datasource.Raster
	width      int
	height     int
	transform  [6]float64
	projection string

	extent  memo.Value[types.Extent]
	details memo.Value[types.Details]
}

// Open opens a raster and reads its georeferencing.
func Open(path string, size int64, env registry.Env) (registry.Source, error) {
	ds, err := env.Driver.OpenRaster(path)
	if err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid raster: could not open %s", path).Wrap(err)
	}

	s := &Source{path: path, env: env, ds: ds}
	if err := s.georeference(); err != nil {
		ds.Close()
		return nil, err
	}
	return s, nil
}

func (s *Source) georeference() error {
	var err error
	s.width, s.height, err = s.ds.Size()
	if err != nil {
		return types.Invalid(types.ErrInvalidSource, "Invalid raster: could not read dimensions").Wrap(err)
	}

	s.transform, err = s.ds.GeoTransform()
	if err != nil {
		return types.Invalid(types.ErrInvalidSource, "Invalid raster: could not read geotransform").Wrap(err)
	}
	if s.transform[1] == 0 || s.transform[5] == 0 {
		return types.Invalid(types.ErrInvalidSource, "Invalid raster: geotransform has a zero pixel size")
	}

	s.projection, err = srs.FromDataset(s.env.CRS, s.ds.SpatialRef())
	if err != nil {
		return types.Invalid(types.ErrInvalidProjection, "Invalid raster: could not read spatial reference").Wrap(err)
	}
	return nil
}

// Projection implements registry.Source.
func (s *Source) Projection() (string, error) {
	return s.projection, nil
}

// nativeBound returns the bound of the four raster corners in the
// source projection.
func (s *Source) nativeBound() orb.Bound {
	gt := s.transform
	at := func(px, py float64) orb.Point {
		return orb.Point{
			gt[0] + px*gt[1] + py*gt[2],
			gt[3] + px*gt[4] + py*gt[5],
		}
	}
	w, h := float64(s.width), float64(s.height)

	b := orb.Bound{Min: at(0, 0), Max: at(0, 0)}
	for _, p := range []orb.Point{at(w, 0), at(0, h), at(w, h)} {
		b = b.Extend(p)
	}
	return b
}

// Extent implements registry.Source.
func (s *Source) Extent() (types.Extent, error) {
	return s.extent.Get(func() (types.Extent, error) {
		b, err := srs.TransformBound(s.env.CRS, s.projection, srs.WGS84, s.nativeBound())
		if err != nil {
			return types.Extent{}, fmt.Errorf("raster extent: %w", err)
		}
		return types.ExtentFromBound(b), nil
	})
}

// Center implements registry.Source.
func (s *Source) Center() (types.Center, error) {
	e, err := s.Extent()
	if err != nil {
		return types.Center{}, err
	}
	return e.Center(), nil
}

// PixelSize returns the native pixel width and height.
func (s *Source) PixelSize() [2]float64 {
	return [2]float64{s.transform[1], s.transform[5]}
}

// Zooms implements registry.Source.
func (s *Source) Zooms() (types.ZoomRange, error) {
	center, err := s.Center()
	if err != nil {
		return types.ZoomRange{}, err
	}
	return zoom.RasterRange(s.env.CRS, s.PixelSize(), center, s.projection, s.env.Zoom)
}

// Layers implements registry.Source.
func (s *Source) Layers() ([]string, error) {
	base := filepath.Base(s.path)
	return []string{strings.TrimSuffix(base, filepath.Ext(base))}, nil
}

// Details implements registry.Source.
func (s *Source) Details() (types.Details, error) {
	return s.details.Get(func() (types.Details, error) {
		n := s.ds.BandCount()
		bands := make([]types.RasterBand, 0, n)
		for i := 1; i <= n; i++ {
			b, err := s.band(i)
			if err != nil {
				return types.Details{}, err
			}
			bands = append(bands, b)
		}

		d := &types.RasterDetails{
			PixelSize: s.PixelSize(),
			Origin:    [2]float64{s.transform[0], s.transform[3]},
			Width:     s.width,
			Height:    s.height,
			BandCount: n,
			Bands:     bands,
			Units:     zoom.UnitOf(s.projection),
		}
		if n > 0 {
			d.NoData = bands[0].NoData
		}
		return types.Details{Raster: d}, nil
	})
}

// band describes the band with the 1-based index i.
func (s *Source) band(i int) (types.RasterBand, error) {
	b, err := s.ds.Band(i)
	if err != nil {
		return types.RasterBand{}, types.Invalid(types.ErrBandStatistics, "Could not read band %d", i).Wrap(err)
	}

	stats, err := b.Statistics()
	if err != nil {
		return types.RasterBand{}, types.Invalid(types.ErrBandStatistics,
			"Failed to compute statistics for band %d (check that VRT sources exist)", i).Wrap(err)
	}

	out := types.RasterBand{
		ID:                    i,
		Stats:                 stats,
		Scale:                 b.Scale(),
		UnitType:              b.UnitType(),
		RasterDatatype:        b.DataType(),
		Color:                 b.ColorInterp(),
		CategoryNames:         b.CategoryNames(),
		Overviews:             b.Overviews(),
		HasArbitraryOverviews: b.HasArbitraryOverviews(),
		BlockSize:             b.BlockSize(),
	}
	if out.CategoryNames == nil {
		out.CategoryNames = []string{}
	}
	if out.Overviews == nil {
		out.Overviews = []types.Overview{}
	}
	if nd, ok := b.NoData(); ok && !math.IsNaN(nd) {
		out.NoData = &nd
	}
	return out, nil
}

// Close implements registry.Source.
func (s *Source) Close() error {
	return s.ds.Close()
}
