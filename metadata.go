package geometa

import (
	"github.com/simonhull/geometa/internal/types"
)

// Metadata is an alias to types.Metadata.
// Re-exporting from internal/types to maintain public API.
type Metadata = types.Metadata

// Extent is an alias to types.Extent.
type Extent = types.Extent

// Center is an alias to types.Center.
type Center = types.Center

// ZoomRange is an alias to types.ZoomRange.
type ZoomRange = types.ZoomRange

// VectorLayer is an alias to types.VectorLayer.
type VectorLayer = types.VectorLayer

// VectorDetails is an alias to types.VectorDetails.
type VectorDetails = types.VectorDetails

// RasterDetails is an alias to types.RasterDetails.
type RasterDetails = types.RasterDetails

// RasterBand is an alias to types.RasterBand.
type RasterBand = types.RasterBand

// BandStats is an alias to types.BandStats.
type BandStats = types.BandStats

// Overview is an alias to types.Overview.
type Overview = types.Overview

// MaxZoom is the deepest zoom level a digest reports.
const MaxZoom = types.MaxZoom
