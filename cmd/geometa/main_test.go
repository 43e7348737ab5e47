package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/geometa"
	"github.com/simonhull/geometa/internal/config"
	"github.com/simonhull/geometa/internal/types"
)

const dcGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"a","pop":1},"geometry":{"type":"Point","coordinates":[-77.1,38.8]}},
{"type":"Feature","properties":{"name":"b","pop":2},"geometry":{"type":"Point","coordinates":[-76.9,39.0]}}]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvConcurrency, "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &usageError{err: errors.New("bad flag")}, ExitUsageError},
		{"invalid config", fmt.Errorf("x.yaml: %w", config.ErrInvalidConfig), ExitUsageError},
		{"config not found", config.ErrConfigNotFound, ExitUsageError},
		{"invalid source", types.Invalid(types.ErrNoFeatures, "no features"), ExitInvalidSource},
		{"wrapped invalid", fmt.Errorf("a.csv: %w", types.Invalid(types.ErrInvalidSource, "bad")), ExitInvalidSource},
		{"not found", fmt.Errorf("a.csv: %w", os.ErrNotExist), ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeForError(tt.err))
		})
	}
}

func TestDigestCommand(t *testing.T) {
	path := writeFile(t, "dc.geojson", dcGeoJSON)

	out, err := run(t, "digest", path)
	require.NoError(t, err)

	var md geometa.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &md))
	assert.Equal(t, "dc.geojson", md.Filename)
	assert.Equal(t, geometa.FiletypeGeoJSON, md.Filetype)
	assert.InDeltaSlice(t, []float64{-77.1, 38.8, -76.9, 39.0}, md.Extent[:], 1e-9)
	require.NotNil(t, md.JSON)
	assert.Equal(t, "String", md.JSON.VectorLayers[0].Fields["name"])
}

func TestDigestCommand_Pretty(t *testing.T) {
	path := writeFile(t, "dc.geojson", dcGeoJSON)

	out, err := run(t, "digest", "--pretty", path)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"filename\": \"dc.geojson\"")
}

func TestDigestCommand_ReportsEveryFile(t *testing.T) {
	good := writeFile(t, "dc.geojson", dcGeoJSON)
	missing := filepath.Join(t.TempDir(), "missing.geojson")

	out, err := run(t, "digest", missing, good)
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, exitCodeForError(err))
	assert.Contains(t, out, "dc.geojson")
}

func TestDigestCommand_InvalidSource(t *testing.T) {
	path := writeFile(t, "empty.geojson", `{"type":"FeatureCollection","features":[]}`)

	_, err := run(t, "digest", path)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidSource, exitCodeForError(err))
}

func TestDigestCommand_Usage(t *testing.T) {
	_, err := run(t, "digest")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeForError(err))

	_, err = run(t, "digest", "--no-such-flag", "a.csv")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeForError(err))

	_, err = run(t, "digest", "--concurrency", "-1", "a.csv")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeForError(err))
}

func TestDigestCommand_Config(t *testing.T) {
	path := writeFile(t, "dc.geojson", dcGeoJSON)

	cfg := writeFile(t, "geometa.yaml", "pretty: true\nconcurrency: 2\n")
	out, err := run(t, "digest", "--config", cfg, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{\n  "))

	bad := writeFile(t, "geometa.ini", "pretty = true\n")
	_, err = run(t, "digest", "--config", bad, path)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCodeForError(err))
}

func TestSniffCommand(t *testing.T) {
	path := writeFile(t, "dc.geojson", dcGeoJSON)

	out, err := run(t, "sniff", path)
	require.NoError(t, err)
	assert.Contains(t, out, "filetype: geojson")
	assert.Contains(t, out, fmt.Sprintf("size:     %d bytes", len(dcGeoJSON)))

	csv := writeFile(t, "points.txt", "lat,lon\n1,2\n")
	out, err = run(t, "sniff", csv)
	require.NoError(t, err)
	assert.Contains(t, out, "unrecognized")
}

func TestFormatsCommand(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(geometa.SupportedFiletypes()))
	assert.Contains(t, out, ".geojson")
	assert.Contains(t, out, ".vrt")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)

	info := geometa.GetVersionInfo()
	assert.Equal(t, fmt.Sprintf("geometa %s (%s, %s) %s\n",
		info.Version, info.GitCommit, info.BuildTime, runtime.Version()), out)
}
