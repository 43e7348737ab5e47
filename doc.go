// Package geometa extracts normalized spatial metadata from geospatial
// files for map tiling pipelines.
//
// One call digests a file into its projection, WGS84 extent and center, a
// usable web map zoom range, the layer list and either a vector schema or
// a raster band description.
//
// # Quick Start
//
//	md, err := geometa.Digest("parcels.shp")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%s: z%d-%d %v\n", md.Filename, md.MinZoom, md.MaxZoom, md.Extent)
//
// # Supported Formats
//
//   - CSV: lat/lon, WKT or GeoJSON geometry columns; comma, tab, semicolon or pipe delimited
//   - GeoJSON: FeatureCollection, Feature or bare geometry
//   - TopoJSON
//   - Shapefile: projection from the .prj sidecar
//   - KML, GPX: multi-layer documents read through OGR
//   - GeoTIFF, VRT: rasters read through GDAL
//
// # Zoom Levels
//
// Vector zooms come from a byte-density scan of the spherical mercator
// tile grid: the file size is spread over the tiles covering the extent
// at each zoom. Raster zooms come from the ground resolution of one
// native pixel. The constants of both heuristics can be replaced with
// WithZoomConfig.
//
// # Concurrency
//
// A digest runs its queries (center, extent, zooms, projection, details,
// layers) on a bounded worker group; WithConcurrency sets the bound.
// DigestMany digests whole files in parallel.
//
// # Error Handling
//
// I/O failures, such as a missing file, are returned unchanged and match
// fs.ErrNotExist. Every other failure is an *Error of kind EINVALID that
// matches one category with errors.Is:
//
//	_, err := geometa.Digest("roads.shp")
//	switch {
//	case errors.Is(err, fs.ErrNotExist):
//		// no such file
//	case errors.Is(err, geometa.ErrMissingProjection):
//		// shapefile without a .prj
//	}
//
// ErrorCode maps any error to its machine-readable code. Error messages
// never contain the source path; they call it "source".
//
// # Native Libraries
//
// GDAL is linked through cgo. It reads KML, GPX and rasters and parses
// shapefile .prj sidecars. CSV, GeoJSON, TopoJSON and shapefile geometry
// are decoded in Go.
package geometa
