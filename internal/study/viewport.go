package study

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/geo"
)

const (
	nationZoom = 4
	regionZoom = 8
)

// Prefectures whose islands pull the computed center out to sea get a fixed one.
var fixedViews = map[string]entities.MapView{
	"北海道": {Lat: 43.5, Lon: 142.0, Zoom: 6},
	"東京都": {Lat: 35.7, Lon: 139.4, Zoom: 9},
	"沖縄県": {Lat: 26.5, Lon: 127.75, Zoom: regionZoom},
}

// Viewport returns the initial map view for the municipalities of prefecture.
// An empty prefecture means the nationwide dataset.
func Viewport(prefecture string, fc *geojson.FeatureCollection) (entities.MapView, error) {
	if v, ok := fixedViews[prefecture]; ok {
		v.Label = prefecture
		return v, nil
	}

	lat, lon, err := geo.Centroid(fc)
	if err != nil {
		return entities.MapView{}, fmt.Errorf("viewport for %q: %w", prefecture, err)
	}

	zoom := regionZoom
	if prefecture == "" {
		zoom = nationZoom
	}
	return entities.MapView{Lat: lat, Lon: lon, Zoom: zoom, Label: prefecture}, nil
}
