// Package types provides core data structures for spatial metadata.
//
// This package defines the Metadata record, its extent and zoom value
// types, the vector layer schema and raster band descriptions shared by
// every source adapter, plus filetype detection and the error taxonomy.
package types

import (
	"github.com/paulmach/orb"
)

// MaxZoom is the deepest zoom level any digest reports.
const MaxZoom = 22

// Extent is a WGS84 bounding box: [minX, minY, maxX, maxY].
//
// A point extent (minX == maxX and minY == maxY) is valid.
type Extent [4]float64

// ExtentFromBound converts an orb bound into an extent.
func ExtentFromBound(b orb.Bound) Extent {
	return Extent{b.Min[0], b.Min[1], b.Max[0], b.Max[1]}
}

// Bound returns the extent as an orb bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{e[0], e[1]},
		Max: orb.Point{e[2], e[3]},
	}
}

// Center returns the midpoint of the extent.
func (e Extent) Center() Center {
	return Center{(e[0] + e[2]) / 2, (e[1] + e[3]) / 2}
}

// Valid reports whether the extent is ordered.
func (e Extent) Valid() bool {
	return e[0] <= e[2] && e[1] <= e[3]
}

// Center is a WGS84 longitude/latitude pair.
type Center [2]float64

// Point returns the center as an orb point.
func (c Center) Point() orb.Point {
	return orb.Point{c[0], c[1]}
}

// ZoomRange is an inclusive range of web map zoom levels.
type ZoomRange struct {
	Min int `json:"minzoom"`
	Max int `json:"maxzoom"`
}

// Valid reports whether 0 <= Min <= Max <= MaxZoom.
func (z ZoomRange) Valid() bool {
	return z.Min >= 0 && z.Min <= z.Max && z.Max <= MaxZoom
}

// VectorLayer describes the schema of one logical vector layer.
//
// Fields maps field names to human-readable type labels such as "String"
// or "Number".
type VectorLayer struct {
	Fields      map[string]string `json:"fields"`
	ID          string            `json:"id"`
	Description string            `json:"description"`
	MinZoom     int               `json:"minzoom"`
	MaxZoom     int               `json:"maxzoom"`
}

// NewVectorLayer returns a layer schema with the default zoom span.
func NewVectorLayer(id string, fields map[string]string) VectorLayer {
	if fields == nil {
		fields = map[string]string{}
	}
	return VectorLayer{
		ID:      id,
		MinZoom: 0,
		MaxZoom: MaxZoom,
		Fields:  fields,
	}
}

// VectorDetails is the "json" details payload of vector sources.
type VectorDetails struct {
	VectorLayers []VectorLayer `json:"vector_layers"`
}

// BandStats summarizes the pixel value distribution of a raster band.
type BandStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Overview is the pixel size of one band overview level.
type Overview struct {
	Width  int `json:"x"`
	Height int `json:"y"`
}

// RasterBand describes one band of a raster source.
type RasterBand struct {
	NoData                *float64   `json:"nodata"`
	UnitType              string     `json:"unitType"`
	RasterDatatype        string     `json:"rasterDatatype"`
	Color                 string     `json:"color"`
	CategoryNames         []string   `json:"categoryNames"`
	Overviews             []Overview `json:"overviews"`
	Stats                 BandStats  `json:"stats"`
	Scale                 float64    `json:"scale"`
	ID                    int        `json:"id"`
	BlockSize             [2]int     `json:"blockSize"`
	HasArbitraryOverviews bool       `json:"hasArbitraryOverviews"`
}

// RasterDetails is the "raster" details payload of raster sources.
type RasterDetails struct {
	NoData    *float64     `json:"nodata"`
	Units     string       `json:"units"`
	Bands     []RasterBand `json:"bands"`
	PixelSize [2]float64   `json:"pixelSize"`
	Origin    [2]float64   `json:"origin"`
	BandCount int          `json:"bandCount"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
}

// Details is what an adapter reports for the details payload. Exactly one
// of the fields is set, matching the adapter's details name.
type Details struct {
	Vector *VectorDetails
	Raster *RasterDetails
}

// Details payload names.
const (
	DetailsJSON   = "json"
	DetailsRaster = "raster"
)

// Metadata is the digest of one spatial source.
//
// A Metadata is built once per digest and never mutated afterwards.
type Metadata struct {
	JSON       *VectorDetails `json:"json,omitempty"`
	Raster     *RasterDetails `json:"raster,omitempty"`
	Filename   string         `json:"filename"`
	Dstype     Dstype         `json:"dstype"`
	Projection string         `json:"projection"`
	Layers     []string       `json:"layers"`
	Filetype   Filetype       `json:"filetype"`
	Filesize   int64          `json:"filesize"`
	Center     Center         `json:"center"`
	Extent     Extent         `json:"extent"`
	MinZoom    int            `json:"minzoom"`
	MaxZoom    int            `json:"maxzoom"`
}
