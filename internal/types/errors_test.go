package types

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"
)

func TestInvalid(t *testing.T) {
	cause := errors.New("driver said no")
	err := Invalid(ErrInvalidSource, "could not open %s", "/data/roads.kml").Wrap(cause)

	if !errors.Is(err, ErrInvalidSource) {
		t.Error("error should match its category")
	}
	if !errors.Is(err, cause) {
		t.Error("error should match its cause")
	}
	if err.Kind != KindInvalid {
		t.Errorf("Kind = %q, want %q", err.Kind, KindInvalid)
	}
	if got, want := err.Error(), "could not open /data/roads.kml: driver said no"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCode(t *testing.T) {
	_, statErr := os.Stat("/nonexistent/geometa/file.csv")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid", Invalid(ErrNoFeatures, "empty"), KindInvalid},
		{"wrapped invalid", fmt.Errorf("digest: %w", Invalid(ErrInvalidBounds, "Bounds invalid")), KindInvalid},
		{"missing file", statErr, "ENOENT"},
		{"permission", fs.ErrPermission, "EACCES"},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	path := "/srv/uploads/7f3a/parks.kml"
	cause := fmt.Errorf("open %s: corrupt header", path)
	err := Invalid(ErrInvalidSource, "%s: could not open", path).Wrap(cause)

	got := Sanitize(err, path)

	if strings.Contains(got.Error(), path) {
		t.Errorf("sanitized error still contains path: %q", got.Error())
	}
	if !strings.Contains(got.Error(), "source: could not open") {
		t.Errorf("sanitized error = %q, want path replaced by source", got.Error())
	}
	if !errors.Is(got, ErrInvalidSource) {
		t.Error("sanitized error should keep its category")
	}
	if !errors.Is(got, cause) {
		t.Error("sanitized error should keep its cause in the chain")
	}
}

func TestSanitize_PassesThroughIOErrors(t *testing.T) {
	_, statErr := os.Stat("/nonexistent/geometa/file.csv")

	got := Sanitize(statErr, "/nonexistent/geometa/file.csv")
	if got != statErr {
		t.Errorf("Sanitize() changed a native error: %v", got)
	}
	if !errors.Is(got, fs.ErrNotExist) {
		t.Error("native error should still match fs.ErrNotExist")
	}
}

func TestSanitize_KeepsWrapperContext(t *testing.T) {
	path := "/srv/uploads/7f3a/tracks.gpx"
	cause := errors.New("no PROJ4 equivalent")
	err := fmt.Errorf("layer %q: %w", "tracks", Invalid(ErrInvalidProjection, "Invalid projection").Wrap(cause))

	got := Sanitize(err, path)

	if want := `layer "tracks": Invalid projection: no PROJ4 equivalent`; got.Error() != want {
		t.Errorf("Sanitize() = %q, want %q", got.Error(), want)
	}
	if !errors.Is(got, ErrInvalidProjection) || !errors.Is(got, cause) {
		t.Error("sanitized error should keep its category and cause")
	}
	if Code(got) != KindInvalid {
		t.Errorf("Code() = %q, want %q", Code(got), KindInvalid)
	}

	wrapped := fmt.Errorf("%s: %w", path, Invalid(ErrNoFeatures, "no features"))
	if got := Sanitize(wrapped, path).Error(); got != "source: no features" {
		t.Errorf("Sanitize() = %q, want path in wrapper redacted", got)
	}
}
