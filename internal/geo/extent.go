// Package geo derives map viewports from GeoJSON region data.
//
// Only the outer ring (ring 0) of every Polygon or MultiPolygon part is
// considered; holes never widen an extent.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrInvalidInput        = errors.New("geojson contains no valid coordinates")
	ErrMissingGeometry     = errors.New("feature has no geometry")
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
)

// Centroid returns the center of the bounding box of all outer-ring vertices.
//
// This is the bbox midpoint, not an area-weighted centroid. Map framing relies
// on it, so it must stay a midpoint. Features without geometry are skipped.
func Centroid(fc *geojson.FeatureCollection) (lat, lon float64, err error) {
	var points orb.MultiPoint

	for i, f := range features(fc) {
		if f.Geometry == nil {
			continue
		}

		ring, err := outerRings(f.Geometry)
		if err != nil {
			return 0, 0, fmt.Errorf("feature %d: %w", i, err)
		}
		points = append(points, ring...)
	}

	if len(points) == 0 {
		return 0, 0, ErrInvalidInput
	}

	center := points.Bound().Center()
	return center.Lat(), center.Lon(), nil
}

// BoundingBox returns [minLon, minLat, maxLon, maxLat] of all outer-ring vertices.
//
// Unlike Centroid it does not skip features without geometry: such a feature
// fails with ErrMissingGeometry. An empty collection yields NaN bounds.
func BoundingBox(fc *geojson.FeatureCollection) ([4]float64, error) {
	var points orb.MultiPoint

	for i, f := range features(fc) {
		if f.Geometry == nil {
			return [4]float64{}, fmt.Errorf("feature %d: %w", i, ErrMissingGeometry)
		}

		ring, err := outerRings(f.Geometry)
		if err != nil {
			return [4]float64{}, fmt.Errorf("feature %d: %w", i, err)
		}
		points = append(points, ring...)
	}

	if len(points) == 0 {
		nan := math.NaN()
		return [4]float64{nan, nan, nan, nan}, nil
	}

	b := points.Bound()
	return [4]float64{b.Left(), b.Bottom(), b.Right(), b.Top()}, nil
}

// outerRings flattens ring 0 of every polygon in g.
func outerRings(g orb.Geometry) ([]orb.Point, error) {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil, nil
		}
		return g[0], nil
	case orb.MultiPolygon:
		var out []orb.Point
		for _, p := range g {
			if len(p) == 0 {
				continue
			}
			out = append(out, p[0]...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
}

func features(fc *geojson.FeatureCollection) []*geojson.Feature {
	if fc == nil {
		return nil
	}
	return fc.Features
}
