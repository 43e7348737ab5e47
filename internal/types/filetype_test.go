package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// createShapefileHeader builds a 100-byte .shp main file header.
func createShapefileHeader(version uint32) []byte {
	data := make([]byte, 100)
	binary.BigEndian.PutUint32(data[0:], 9994)
	binary.BigEndian.PutUint32(data[24:], 50)
	binary.LittleEndian.PutUint32(data[28:], version)
	binary.LittleEndian.PutUint32(data[32:], 1) // point
	return data
}

func TestDetectFiletype(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
		want Filetype
	}{
		{"little-endian tiff", "dem.tif", []byte("II*\x00\x08\x00\x00\x00"), FiletypeTIFF},
		{"big-endian tiff", "dem.tif", []byte("MM\x00*\x00\x00\x00\x08"), FiletypeTIFF},
		{"bigtiff", "dem.tif", []byte("II+\x00\x08\x00\x00\x00"), FiletypeTIFF},
		{"shapefile", "roads.shp", createShapefileHeader(1000), FiletypeShapefile},
		{"vrt", "mosaic.vrt", []byte(`<VRTDataset rasterXSize="10" rasterYSize="10">`), FiletypeVRT},
		{"kml with prolog", "places.kml", []byte("<?xml version=\"1.0\"?>\n<kml xmlns=\"http://www.opengis.net/kml/2.2\">"), FiletypeKML},
		{"gpx", "ride.gpx", []byte(`<?xml version="1.0"?><gpx version="1.1" creator="test">`), FiletypeGPX},
		{"geojson", "parks.geojson", []byte(`{"type":"FeatureCollection","features":[]}`), FiletypeGeoJSON},
		{"geojson with bom and whitespace", "parks.json", []byte("\xef\xbb\xbf\n  {\"type\":\"Point\",\"coordinates\":[0,0]}"), FiletypeGeoJSON},
		{"topojson", "states.json", []byte(`{"type":"Topology","objects":{},"arcs":[]}`), FiletypeTopoJSON},
		{"topojson by extension", "states.topojson", []byte(`{"objects":{},"arcs":[],"type":"x"}`), FiletypeTopoJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFiletype(bytes.NewReader(tt.data), int64(len(tt.data)), tt.path)
			if err != nil {
				t.Fatalf("DetectFiletype() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFiletype() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFiletype_Unrecognized(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"csv text", []byte("name,lat,lon\nhome,38.9,-77.0\n")},
		{"too small", []byte("ab")},
		{"unknown xml root", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
		{"shapefile code with wrong version", createShapefileHeader(999)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFiletype(bytes.NewReader(tt.data), int64(len(tt.data)), "input")
			if got != FiletypeUnknown {
				t.Errorf("DetectFiletype() = %v, want FiletypeUnknown", got)
			}
			if !errors.Is(err, ErrUnrecognized) {
				t.Errorf("DetectFiletype() error = %v, want ErrUnrecognized", err)
			}
			if Code(err) != KindInvalid {
				t.Errorf("Code() = %q, want %q", Code(err), KindInvalid)
			}
		})
	}
}

func TestFiletype_String(t *testing.T) {
	tests := []struct {
		ft   Filetype
		want string
	}{
		{FiletypeCSV, "csv"},
		{FiletypeGeoJSON, "geojson"},
		{FiletypeTopoJSON, "topojson"},
		{FiletypeShapefile, "shp"},
		{FiletypeKML, "kml"},
		{FiletypeGPX, "gpx"},
		{FiletypeTIFF, "tif"},
		{FiletypeVRT, "vrt"},
		{FiletypeUnknown, "unknown"},
		{Filetype(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("Filetype(%d).String() = %q, want %q", int(tt.ft), got, tt.want)
		}
	}
}

func TestFiletype_Extensions(t *testing.T) {
	if got := FiletypeShapefile.Extensions(); len(got) != 1 || got[0] != ".shp" {
		t.Errorf("FiletypeShapefile.Extensions() = %v", got)
	}
	if got := FiletypeUnknown.Extensions(); got != nil {
		t.Errorf("FiletypeUnknown.Extensions() = %v, want nil", got)
	}
}

func TestFiletype_UnmarshalText(t *testing.T) {
	for _, want := range []Filetype{FiletypeCSV, FiletypeShapefile, FiletypeVRT} {
		var got Filetype
		if err := got.UnmarshalText([]byte(want.String())); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", want, err)
		}
		if got != want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", want, got, want)
		}
	}

	got := FiletypeCSV
	if err := got.UnmarshalText([]byte("xlsx")); err != nil || got != FiletypeUnknown {
		t.Errorf("UnmarshalText(xlsx) = %v, %v; want unknown, nil", got, err)
	}
}
