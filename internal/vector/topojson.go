package vector

import (
	"encoding/json"
	"os"

	"github.com/rubenv/topojson"

	"github.com/simonhull/geometa/internal/registry"
	"github.com/simonhull/geometa/internal/types"
)

func init() {
	registry.Register(&registry.Descriptor{
		Name:        "topojson",
		Dstype:      types.DstypeTopoJSON,
		DetailsName: types.DetailsJSON,
		Filetypes:   []types.Filetype{types.FiletypeTopoJSON},
		Open:        OpenTopoJSON,
	})
}

// OpenTopoJSON opens a TopoJSON topology. Every object of the topology
// contributes to the single layer.
func OpenTopoJSON(path string, size int64, env registry.Env) (registry.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var topo topojson.Topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid TopoJSON").Wrap(err)
	}
	if topo.Type != "Topology" {
		return nil, types.Invalid(types.ErrInvalidSource, "Invalid TopoJSON: type is %q", topo.Type)
	}

	return newSource(path, size, env, summarize(topo.ToGeoJSON())), nil
}
