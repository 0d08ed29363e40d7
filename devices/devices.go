// Package devices is a small convenience catalog of named preset device
// sizes, so callers of the sfssh shell can say "format the small preset"
// instead of supplying a raw block count. The catalog is an embedded CSV
// table parsed with github.com/gocarina/gocsv.
package devices

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry is one named preset device size.
type Geometry struct {
	Name   string `csv:"name"`
	Blocks int    `csv:"blocks"`
	Notes  string `csv:"notes"`
}

//go:embed geometries.csv
var rawGeometriesCSV string

var geometries map[string]Geometry

func init() {
	geometries = make(map[string]Geometry)

	err := gocsv.UnmarshalToCallback(strings.NewReader(rawGeometriesCSV), func(row Geometry) error {
		if _, exists := geometries[row.Name]; exists {
			return fmt.Errorf("devices: duplicate preset name %q", row.Name)
		}
		geometries[row.Name] = row
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("devices: failed to parse embedded geometry catalog: %s", err))
	}
}

// Lookup returns the preset geometry registered under name.
func Lookup(name string) (Geometry, error) {
	g, ok := geometries[name]
	if !ok {
		return Geometry{}, fmt.Errorf("devices: no preset named %q", name)
	}
	return g, nil
}

// Names returns every preset name in the catalog, in no particular order.
func Names() []string {
	names := make([]string, 0, len(geometries))
	for name := range geometries {
		names = append(names, name)
	}
	return names
}
