package srs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/geometa/internal/types"
)

// PRJPath returns the sidecar .prj path of a shapefile. An existing
// upper-case .PRJ sibling is preferred over a missing lower-case one.
func PRJPath(shapefile string) string {
	base := strings.TrimSuffix(shapefile, filepath.Ext(shapefile))
	lower := base + ".prj"
	if _, err := os.Stat(lower); err == nil {
		return lower
	}
	upper := base + ".PRJ"
	if _, err := os.Stat(upper); err == nil {
		return upper
	}
	return lower
}

// FromPRJ resolves a shapefile projection from its .prj sidecar.
//
// ESRI-flavored WKT often parses without yielding a PROJ4 string; those
// contents are retried with the "ESRI::" prefix before giving up.
func FromPRJ(e Engine, shapefile string) (string, error) {
	data, err := os.ReadFile(PRJPath(shapefile))
	if errors.Is(err, fs.ErrNotExist) {
		// The cause keeps the errno but not the sidecar path.
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return "", types.Invalid(types.ErrMissingProjection, "Missing projection file (.prj)").Wrap(err)
	}
	if err != nil {
		return "", err
	}

	contents := strings.TrimSpace(string(data))
	if contents == "" {
		return "", types.Invalid(types.ErrInvalidProjection, "Invalid projection file (.prj): file is empty")
	}

	proj, err := e.Proj4(contents)
	if err != nil {
		return "", types.Invalid(types.ErrInvalidProjection, "Invalid projection file (.prj)").Wrap(err)
	}
	if proj != "" {
		return proj, nil
	}

	proj, err = e.Proj4(esriPrefix + contents)
	if err != nil {
		return "", types.Invalid(types.ErrInvalidProjection, "Invalid projection file (.prj)").Wrap(err)
	}
	if proj == "" {
		return "", types.Invalid(types.ErrUndefinedProjection, "Undefined projection file (.prj)")
	}
	return proj, nil
}
