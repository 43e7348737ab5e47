// Package gdalsrc implements datasource.Driver and srs.Engine on top of
// GDAL/OGR through github.com/lukeroth/gdal.
//
// GDAL handles are not safe for concurrent use. Every dataset carries its
// own mutex and all calls on the dataset, its layers and its bands hold
// it.
package gdalsrc

import (
	"fmt"
	"sync"

	"github.com/lukeroth/gdal"

	"github.com/simonhull/geometa/internal/datasource"
)

// Driver opens datasets with GDAL.
type Driver struct{}

// NewDriver returns a GDAL-backed driver.
func NewDriver() *Driver {
	return &Driver{}
}

// OpenVector implements datasource.Driver.
func (d *Driver) OpenVector(path string) (datasource.Vector, error) {
	ds, err := gdal.OpenEx(path, gdal.OFReadOnly|gdal.OFVector, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("open vector dataset: %w", err)
	}
	return &vector{ds: ds, mu: &sync.Mutex{}}, nil
}

// OpenRaster implements datasource.Driver.
func (d *Driver) OpenRaster(path string) (datasource.Raster, error) {
	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open raster dataset: %w", err)
	}
	return &raster{ds: ds, mu: &sync.Mutex{}}, nil
}
