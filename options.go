package geometa

import (
	"log/slog"
	"runtime"

	"github.com/simonhull/geometa/internal/gdalsrc"
	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/zoom"
)

// Option configures a digest.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	md, err := geometa.Digest("roads.geojson",
//	    geometa.WithConcurrency(2),
//	    geometa.WithLogger(logger),
//	)
type Option func(*digestOptions)

// ZoomConfig is an alias to zoom.Config.
// Re-exporting from internal/zoom to maintain public API.
type ZoomConfig = zoom.Config

// DefaultZoomConfig returns the zoom tuning constants used when no
// WithZoomConfig option is given.
func DefaultZoomConfig() ZoomConfig {
	return zoom.DefaultConfig()
}

// digestOptions holds configuration for one digest.
type digestOptions struct {
	concurrency int          // Sub-queries in flight at once
	logger      *slog.Logger // Never nil
	zoom        zoom.Config  // Zoom heuristic constants
}

// defaultOptions returns the default configuration.
func defaultOptions() *digestOptions {
	return &digestOptions{
		concurrency: runtime.NumCPU(),
		logger:      slog.New(slog.DiscardHandler),
		zoom:        zoom.DefaultConfig(),
	}
}

// env builds the adapter environment.
func (o *digestOptions) env() registry.Env {
	return registry.Env{
		Driver: gdalsrc.NewDriver(),
		CRS:    gdalsrc.NewEngine(),
		Zoom:   o.zoom,
		Logger: o.logger,
	}
}

// WithConcurrency bounds how many adapter queries run at once.
//
// The default is runtime.NumCPU(). WithConcurrency(1) runs the queries
// one after another. Values below 1 are treated as 1.
//
// Example:
//
//	md, err := geometa.Digest("dem.tif", geometa.WithConcurrency(1))
func WithConcurrency(n int) Option {
	return func(o *digestOptions) {
		o.concurrency = max(n, 1)
	}
}

// WithLogger sets the structured logger for digest diagnostics.
//
// By default nothing is logged. Debug records report the detected
// filetype, the adapter and the duration; a warning is logged when a file
// without a known signature is read as CSV.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	md, err := geometa.Digest("points.csv", geometa.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(o *digestOptions) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithZoomConfig replaces the zoom heuristic constants.
//
// Example:
//
//	cfg := geometa.DefaultZoomConfig()
//	cfg.PointMaxZoomFloor = 14
//	md, err := geometa.Digest("stops.csv", geometa.WithZoomConfig(cfg))
func WithZoomConfig(cfg ZoomConfig) Option {
	return func(o *digestOptions) {
		o.zoom = cfg
	}
}
