package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var ErrNotFound = errors.New("no feature contains the point")

// Locate returns the string property key of the first feature containing point.
// Features without geometry or without the property are ignored.
func Locate(fc *geojson.FeatureCollection, point orb.Point, key string) (string, error) {
	for _, f := range features(fc) {
		if f.Geometry == nil || !contains(f.Geometry, point) {
			continue
		}

		name, ok := f.Properties[key].(string)
		if !ok || name == "" {
			continue
		}
		return name, nil
	}

	return "", fmt.Errorf("%w: (%.5f, %.5f)", ErrNotFound, point.Lat(), point.Lon())
}

// Names returns the distinct non-empty values of property key in feature order.
func Names(fc *geojson.FeatureCollection, key string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, f := range features(fc) {
		name, ok := f.Properties[key].(string)
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

func contains(g orb.Geometry, point orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, point)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, point)
	default:
		return false
	}
}
