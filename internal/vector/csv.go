package vector

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/types"
)

func init() {
	registry.Register(&registry.Descriptor{
		Name:        "csv",
		Dstype:      types.DstypeCSV,
		DetailsName: types.DetailsJSON,
		Filetypes:   []types.Filetype{types.FiletypeCSV},
		Open:        OpenCSV,
	})
}

// Header names recognized as geometry columns, lower case.
var (
	latColumns     = []string{"lat", "latitude", "y"}
	lonColumns     = []string{"lon", "lng", "long", "longitude", "x"}
	wktColumns     = []string{"wkt", "geometry", "the_geom"}
	geojsonColumns = []string{"geojson"}
)

// peekSize bounds the header inspection.
const peekSize = 4096

// delimiters are the candidate separators, in order of preference.
var delimiters = []rune{',', '\t', ';', '|'}

// geometryColumns locates the geometry of each row.
type geometryColumns struct {
	lat, lon int
	wkt      int
	geojson  int
}

// OpenCSV opens delimited text with lat/lon, WKT or GeoJSON geometry
// columns. The header must name a geometry column.
func OpenCSV(path string, size int64, env registry.Env) (registry.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := br.Peek(peekSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	line, complete := firstLine(head)
	complete = complete || len(head) < peekSize
	if bytes.IndexByte(line, 0) >= 0 || (complete && !utf8.Valid(line)) {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid CSV: header is not text")
	}

	r := csv.NewReader(br)
	r.Comma = sniffDelimiter(line)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid CSV header").Wrap(err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols, err := locateGeometry(header)
	if err != nil {
		return nil, err
	}

	s, err := scanCSV(r, header, cols)
	if err != nil {
		return nil, err
	}
	return newSource(path, size, env, s), nil
}

// firstLine returns the header line of head and whether it ended within
// head.
func firstLine(head []byte) ([]byte, bool) {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		return head[:i], true
	}
	return head, false
}

// sniffDelimiter picks the candidate delimiter occurring most often in
// the header line, defaulting to a comma.
func sniffDelimiter(line []byte) rune {
	best, count := ',', 0
	for _, d := range delimiters {
		if n := bytes.Count(line, []byte(string(d))); n > count {
			best, count = d, n
		}
	}
	return best
}

func locateGeometry(header []string) (geometryColumns, error) {
	cols := geometryColumns{lat: -1, lon: -1, wkt: -1, geojson: -1}
	seen := make(map[string]bool, len(header))

	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			return cols, types.Invalid(types.ErrInvalidSource, "Invalid CSV header: column %d has no name", i+1)
		}
		if seen[name] {
			return cols, types.Invalid(types.ErrInvalidSource, "Invalid CSV header: duplicate column %q", h)
		}
		seen[name] = true

		switch {
		case cols.lat < 0 && contains(latColumns, name):
			cols.lat = i
		case cols.lon < 0 && contains(lonColumns, name):
			cols.lon = i
		case cols.wkt < 0 && contains(wktColumns, name):
			cols.wkt = i
		case cols.geojson < 0 && contains(geojsonColumns, name):
			cols.geojson = i
		}
	}

	if (cols.lat >= 0 && cols.lon >= 0) || cols.wkt >= 0 || cols.geojson >= 0 {
		return cols, nil
	}
	return cols, types.Invalid(types.ErrInvalidSource,
		"Invalid CSV header: no geometry column (expected lat/lon, wkt or geojson)")
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// scanCSV reads every row. Rows whose geometry cannot be parsed are
// skipped; structural errors in the text fail the scan.
func scanCSV(r *csv.Reader, header []string, cols geometryColumns) (summary, error) {
	var s summary
	sc := schema{}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary{}, types.Invalid(types.ErrInvalidSource, "Invalid CSV").Wrap(err)
		}

		g := cols.geometry(rec)
		if g == nil {
			continue
		}
		s.add(g)

		for i, name := range header {
			if i == cols.wkt || i == cols.geojson {
				continue
			}
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			label, ok := textLabel(v)
			sc.observe(name, label, ok)
		}
	}

	s.fields = sc.labels()
	return s, nil
}

// geometry parses the geometry of one row, or returns nil.
func (c geometryColumns) geometry(rec []string) orb.Geometry {
	cell := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	if c.lat >= 0 && c.lon >= 0 {
		lat, err1 := strconv.ParseFloat(cell(c.lat), 64)
		lon, err2 := strconv.ParseFloat(cell(c.lon), 64)
		if err1 == nil && err2 == nil && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 {
			return orb.Point{lon, lat}
		}
	}
	if v := cell(c.wkt); v != "" {
		if g, err := wkt.Unmarshal(v); err == nil {
			return g
		}
	}
	if v := cell(c.geojson); v != "" {
		if g, err := geojson.UnmarshalGeometry([]byte(v)); err == nil {
			return g.Geometry()
		}
	}
	return nil
}
