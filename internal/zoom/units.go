package zoom

import (
	"strings"

	"github.com/simonhull/geometa/internal/types"
)

// circumference is the equatorial circumference of the earth in meters.
const circumference = 40075000.0

// UnitDegrees is the unit name of geographic projections.
const UnitDegrees = "decimal degrees"

// metersPerUnit converts PROJ4 linear unit names to meters.
var metersPerUnit = map[string]float64{
	"m":         1,
	"km":        1000,
	"ft":        0.3048,
	"mi":        1609.344,
	"us-ft":     1200.0 / 3937.0,
	"us-mi":     1609.347218694437,
	UnitDegrees: circumference / 360,
}

// UnitOf returns the linear unit of a PROJ4 definition. Geographic
// projections use decimal degrees; definitions without a +units token are
// in meters.
func UnitOf(proj string) string {
	unit := "m"
	for _, tok := range strings.Fields(proj) {
		key, val, _ := strings.Cut(strings.TrimPrefix(tok, "+"), "=")
		switch key {
		case "units":
			unit = val
		case "proj":
			switch val {
			case "longlat", "latlong", "lonlat", "latlon":
				return UnitDegrees
			}
		}
	}
	return unit
}

// ToMeters converts a length in unit to meters.
func ToMeters(v float64, unit string) (float64, error) {
	f, ok := metersPerUnit[unit]
	if !ok {
		return 0, types.Invalid(types.ErrUnknownUnit, "Unknown unit: %q", unit)
	}
	return v * f, nil
}
