package types

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/geometa/internal/binary"
)

// Filetype is the format tag detected for a source file.
type Filetype int

const (
	// FiletypeUnknown represents an unclassified file.
	FiletypeUnknown Filetype = iota // unknown
	// FiletypeCSV represents delimited text with a geometry column.
	FiletypeCSV // csv
	// FiletypeGeoJSON represents GeoJSON documents.
	FiletypeGeoJSON // geojson
	// FiletypeTopoJSON represents TopoJSON topologies.
	FiletypeTopoJSON // topojson
	// FiletypeShapefile represents ESRI shapefiles (.shp main file).
	FiletypeShapefile // shp
	// FiletypeKML represents KML documents.
	FiletypeKML // kml
	// FiletypeGPX represents GPX documents.
	FiletypeGPX // gpx
	// FiletypeTIFF represents GeoTIFF rasters.
	FiletypeTIFF // tif
	// FiletypeVRT represents GDAL virtual rasters.
	FiletypeVRT // vrt
)

var filetypeNames = [...]string{
	FiletypeUnknown:   "unknown",
	FiletypeCSV:       "csv",
	FiletypeGeoJSON:   "geojson",
	FiletypeTopoJSON:  "topojson",
	FiletypeShapefile: "shp",
	FiletypeKML:       "kml",
	FiletypeGPX:       "gpx",
	FiletypeTIFF:      "tif",
	FiletypeVRT:       "vrt",
}

func (f Filetype) String() string {
	if f < 0 || int(f) >= len(filetypeNames) {
		return filetypeNames[FiletypeUnknown]
	}
	return filetypeNames[f]
}

// MarshalText encodes the filetype as its tag.
func (f Filetype) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes a filetype tag. Unknown tags decode to
// FiletypeUnknown.
func (f *Filetype) UnmarshalText(text []byte) error {
	*f = FiletypeUnknown
	for i, name := range filetypeNames {
		if name == string(text) {
			*f = Filetype(i)
			break
		}
	}
	return nil
}

// Extensions returns common file extensions for this filetype.
func (f Filetype) Extensions() []string {
	switch f {
	case FiletypeCSV:
		return []string{".csv", ".tsv", ".txt"}
	case FiletypeGeoJSON:
		return []string{".geojson", ".json"}
	case FiletypeTopoJSON:
		return []string{".topojson"}
	case FiletypeShapefile:
		return []string{".shp"}
	case FiletypeKML:
		return []string{".kml"}
	case FiletypeGPX:
		return []string{".gpx"}
	case FiletypeTIFF:
		return []string{".tif", ".tiff"}
	case FiletypeVRT:
		return []string{".vrt"}
	default:
		return nil
	}
}

// Dstype is the storage-family tag recorded in digest output.
type Dstype string

// Storage families.
const (
	DstypeCSV      Dstype = "csv"
	DstypeShape    Dstype = "shape"
	DstypeGeoJSON  Dstype = "geojson"
	DstypeTopoJSON Dstype = "topojson"
	DstypeOGR      Dstype = "ogr"
	DstypeGDAL     Dstype = "gdal"
)

// headLength bounds how much of a text file is inspected for its root element.
const headLength = 1024

// shapefileCode is the big-endian file code opening every .shp main file.
const (
	shapefileCode    = 9994
	shapefileVersion = 1000
)

// DetectFiletype determines the filetype by examining magic bytes.
//
// Binary formats are recognized by their signatures; text formats by the
// root element or object found in the first kilobyte. Delimited text has no
// signature, so unclassified input yields ErrUnrecognized and callers may
// try the CSV adapter themselves.
func DetectFiletype(r io.ReaderAt, size int64, path string) (Filetype, error) {
	if size < 4 {
		return FiletypeUnknown, Invalid(ErrUnrecognized, "%s: file too small to classify", path)
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FiletypeUnknown, err
	}

	// TIFF and BigTIFF byte order marks (II*\0, MM\0*, II+\0, MM\0+)
	switch string(magic) {
	case "II*\x00", "MM\x00*", "II+\x00", "MM\x00+":
		return FiletypeTIFF, nil
	}

	// Shapefile main file header: file code 9994 (big-endian) followed
	// by version 1000 (little-endian) at offset 28.
	if size >= 100 {
		code, err := binary.ReadBE[uint32](sr, 0, "shapefile file code")
		if err == nil && code == shapefileCode {
			version, err := binary.ReadLE[uint32](sr, 28, "shapefile version")
			if err == nil && version == shapefileVersion {
				return FiletypeShapefile, nil
			}
		}
	}

	n := size
	if n > headLength {
		n = headLength
	}
	head := make([]byte, n)
	if err := sr.ReadAt(head, 0, "file head"); err != nil {
		return FiletypeUnknown, err
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeft(head, " \t\r\n")

	if len(head) > 0 && head[0] == '<' {
		if ft := detectXML(head); ft != FiletypeUnknown {
			return ft, nil
		}
	}

	if len(head) > 0 && head[0] == '{' {
		if bytes.Contains(head, []byte(`"Topology"`)) {
			return FiletypeTopoJSON, nil
		}
		if strings.EqualFold(filepath.Ext(path), ".topojson") {
			return FiletypeTopoJSON, nil
		}
		return FiletypeGeoJSON, nil
	}

	return FiletypeUnknown, Invalid(ErrUnrecognized, "%s: unrecognized file signature", path)
}

// detectXML classifies an XML document by its root element.
func detectXML(head []byte) Filetype {
	lower := bytes.ToLower(head)
	switch {
	case bytes.Contains(lower, []byte("<vrtdataset")):
		return FiletypeVRT
	case bytes.Contains(lower, []byte("<kml")):
		return FiletypeKML
	case bytes.Contains(lower, []byte("<gpx")):
		return FiletypeGPX
	}
	return FiletypeUnknown
}
