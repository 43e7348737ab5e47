package geometa

// Adapters register themselves with the registry on import.
import (
	_ "github.com/simonhull/geometa/internal/ogr"
	_ "github.com/simonhull/geometa/internal/raster"
	_ "github.com/simonhull/geometa/internal/vector"
)
