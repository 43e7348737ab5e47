package geometa

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/types"
)

// Digest reads a spatial file and returns its metadata.
//
// Supported formats: CSV, GeoJSON, TopoJSON, Shapefile, KML, GPX,
// GeoTIFF, VRT
//
// The file is stat'ed first; I/O failures are returned unchanged so
// callers can tell a missing file from an invalid one:
//
//	md, err := geometa.Digest("parcels.shp")
//	if errors.Is(err, fs.ErrNotExist) {
//		// no such file
//	}
//
// Every other failure is an *Error with kind EINVALID whose message names
// the file "source" rather than its path.
//
// Options can be provided to tune the digest:
//
//	md, err := geometa.Digest("parcels.shp",
//	    geometa.WithConcurrency(1),
//	    geometa.WithLogger(slog.Default()),
//	)
func Digest(path string, opts ...Option) (*Metadata, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: syscall.EISDIR}
	}

	md, err := digest(path, info.Size(), options)
	if err != nil {
		return nil, sanitize(err, path)
	}
	return md, nil
}

// DigestContext digests a file with context support for cancellation.
//
// This is a thin wrapper around Digest() that checks the context before
// starting. Sub-queries already running are not interrupted; wrap the
// call in a timeout to bound it:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	md, err := geometa.DigestContext(ctx, "dem.tif")
func DigestContext(ctx context.Context, path string, opts ...Option) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Digest(path, opts...)
}

// DigestMany digests multiple files concurrently.
//
// Files are digested in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails, the first error is returned and no results.
//
// Example:
//
//	records, err := geometa.DigestMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, md := range records {
//		fmt.Printf("%s: %v\n", md.Filename, md.Extent)
//	}
func DigestMany(ctx context.Context, paths ...string) ([]*Metadata, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Metadata, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			md, err := DigestContext(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			results[i] = md
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// digest opens the adapter and collects the record.
func digest(path string, size int64, options *digestOptions) (*Metadata, error) {
	start := time.Now()
	env := options.env()

	ft, desc, src, err := openSource(path, size, env)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	md, err := collect(src, desc.DetailsName, options.concurrency)
	if err != nil {
		options.logger.Debug("digest failed",
			"filetype", ft, "adapter", desc.Name, "error", err)
		return nil, err
	}

	md.Filename = filepath.Base(path)
	md.Filetype = ft
	md.Dstype = desc.Dstype
	md.Filesize = size

	options.logger.Debug("digest complete",
		"filetype", ft, "adapter", desc.Name, "duration", time.Since(start))
	return md, nil
}

// openSource detects the filetype and opens the adapter claiming it.
//
// Delimited text has no signature: when sniffing cannot classify the
// file, the CSV adapter gets a try before the file is rejected.
func openSource(path string, size int64, env registry.Env) (types.Filetype, *registry.Descriptor, registry.Source, error) {
	ft, err := sniff(path, size)
	if errors.Is(err, types.ErrUnrecognized) {
		desc := registry.Get(types.FiletypeCSV)
		if desc == nil {
			return ft, nil, nil, types.Invalid(types.ErrUnknownFiletype, "Unknown filetype: %s", path).Wrap(err)
		}
		env.Filetype = types.FiletypeCSV
		src, cerr := desc.Open(path, size, env)
		if cerr != nil {
			return ft, nil, nil, types.Invalid(types.ErrUnknownFiletype, "Unknown filetype: %s", path).Wrap(cerr)
		}
		env.Logger.Warn("unrecognized file signature, read as CSV", "filename", filepath.Base(path))
		return types.FiletypeCSV, desc, src, nil
	}
	if err != nil {
		return ft, nil, nil, err
	}

	desc := registry.Get(ft)
	if desc == nil {
		return ft, nil, nil, types.Invalid(types.ErrUnknownFiletype, "Unknown filetype %s: %s", ft, path)
	}
	env.Filetype = ft
	src, err := desc.Open(path, size, env)
	if err != nil {
		return ft, nil, nil, err
	}
	return ft, desc, src, nil
}

func sniff(path string, size int64) (types.Filetype, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.FiletypeUnknown, err
	}
	defer f.Close()
	return types.DetectFiletype(f, size, path)
}

// collect runs the adapter queries and joins them into one record.
//
// Queries run on a bounded errgroup without cancellation: a failing query
// does not stop its siblings. When several fail, the error of the query
// started first is returned.
func collect(src registry.Source, detailsName string, concurrency int) (*Metadata, error) {
	var (
		md      Metadata
		details types.Details
		errs    [6]error
	)

	var g errgroup.Group
	g.SetLimit(concurrency)

	g.Go(func() error { md.Center, errs[0] = src.Center(); return nil })
	g.Go(func() error { md.Extent, errs[1] = src.Extent(); return nil })
	g.Go(func() error {
		z, err := src.Zooms()
		md.MinZoom, md.MaxZoom, errs[2] = z.Min, z.Max, err
		return nil
	})
	g.Go(func() error { md.Projection, errs[3] = src.Projection(); return nil })
	g.Go(func() error { details, errs[4] = src.Details(); return nil })
	g.Go(func() error { md.Layers, errs[5] = src.Layers(); return nil })

	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	switch detailsName {
	case types.DetailsRaster:
		md.Raster = details.Raster
	default:
		md.JSON = details.Vector
	}
	return &md, nil
}

// sanitize hides the source path, as given and absolute, from error text.
// Sidecar files (.prj, .dbf, .shx) share the path minus its extension and
// are hidden with it.
func sanitize(err error, path string) error {
	paths := []string{path}
	if abs, aerr := filepath.Abs(path); aerr == nil && abs != path {
		paths = []string{abs, path}
	}
	for _, p := range paths {
		err = types.Sanitize(err, p)
	}
	for _, p := range paths {
		stem := strings.TrimSuffix(p, filepath.Ext(p))
		if stem != p && strings.ContainsRune(stem, filepath.Separator) {
			err = types.Sanitize(err, stem)
		}
	}
	return err
}
