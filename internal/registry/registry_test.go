package registry

import (
	"slices"
	"testing"

	"github.com/simonhull/geometa/internal/types"
)

// mockSource implements Source for testing.
type mockSource struct {
	name string
}

func (m *mockSource) Projection() (string, error) { return m.name, nil }
func (m *mockSource) Center() (types.Center, error) { return types.Center{}, nil }
func (m *mockSource) Extent() (types.Extent, error) { return types.Extent{}, nil }
func (m *mockSource) Details() (types.Details, error) { return types.Details{}, nil }
func (m *mockSource) Layers() ([]string, error) { return []string{m.name}, nil }
func (m *mockSource) Zooms() (types.ZoomRange, error) { return types.ZoomRange{}, nil }
func (m *mockSource) Close() error { return nil }

func descriptor(name string, fts ...types.Filetype) *Descriptor {
	return &Descriptor{
		Name:        name,
		Dstype:      types.DstypeOGR,
		DetailsName: types.DetailsJSON,
		Filetypes:   fts,
		Open: func(path string, size int64, env Env) (Source, error) {
			return &mockSource{name: name}, nil
		},
	}
}

func TestRegisterAndGet(t *testing.T) {
	// Use filetypes that are unlikely to conflict with real registrations
	a, b := types.Filetype(999), types.Filetype(998)
	Register(descriptor("test", a, b))

	for _, ft := range []types.Filetype{a, b} {
		got := Get(ft)
		if got == nil {
			t.Fatalf("Get(%d) returned nil for registered filetype", ft)
		}
		if got.Name != "test" {
			t.Errorf("Name = %q, want %q", got.Name, "test")
		}
		if !got.Claims(ft) {
			t.Errorf("Claims(%d) = false", ft)
		}
	}

	src, err := Get(a).Open("x", 1, Env{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if p, _ := src.Projection(); p != "test" {
		t.Errorf("Projection() = %q, want %q", p, "test")
	}
}

func TestGet_Unregistered(t *testing.T) {
	if got := Get(types.Filetype(990)); got != nil {
		t.Errorf("Get() = %v for unregistered filetype, want nil", got)
	}
}

func TestRegister_Overwrites(t *testing.T) {
	ft := types.Filetype(997)
	Register(descriptor("first", ft))
	Register(descriptor("second", ft))

	if got := Get(ft); got.Name != "second" {
		t.Errorf("Name = %q, want %q (should be overwritten)", got.Name, "second")
	}
}

func TestFiletypes(t *testing.T) {
	ft := types.Filetype(996)
	Register(descriptor("listed", ft))

	got := Filetypes()
	if !slices.Contains(got, ft) {
		t.Errorf("Filetypes() = %v, missing %d", got, ft)
	}
	if !slices.IsSorted(got) {
		t.Errorf("Filetypes() = %v, want sorted", got)
	}
}

func TestClaims(t *testing.T) {
	d := descriptor("kml", types.FiletypeKML, types.FiletypeGPX)
	if d.Claims(types.FiletypeTIFF) {
		t.Error("Claims(tif) = true for an OGR descriptor")
	}
}
