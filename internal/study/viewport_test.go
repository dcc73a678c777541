package study_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/geo"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/study"
)

func square(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}}
}

func TestViewport(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(square(135, 34, 136, 35)))

	tests := []struct {
		pref     string
		lat, lon float64
		zoom     int
	}{
		{"北海道", 43.5, 142.0, 6},
		{"東京都", 35.7, 139.4, 9},
		{"沖縄県", 26.5, 127.75, 8},
		{"大阪府", 34.5, 135.5, 8},
		{"", 34.5, 135.5, 4},
	}

	for _, tc := range tests {
		t.Run(tc.pref, func(t *testing.T) {
			v, err := study.Viewport(tc.pref, fc)
			if err != nil {
				t.Fatalf("viewport: %v", err)
			}
			if v.Lat != tc.lat || v.Lon != tc.lon || v.Zoom != tc.zoom {
				t.Errorf("got (%v, %v, %d), want (%v, %v, %d)", v.Lat, v.Lon, v.Zoom, tc.lat, tc.lon, tc.zoom)
			}
		})
	}
}

func TestViewportEmptyDataset(t *testing.T) {
	_, err := study.Viewport("大阪府", geojson.NewFeatureCollection())
	if !errors.Is(err, geo.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
