package service_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/repository"
)

// --- Mock ResultRepository ---

type mockResultRepo struct {
	saveFn    func(ctx context.Context, r *entities.QuizResult) (int64, error)
	historyFn func(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error)
	statsFn   func(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error)
}

func (m *mockResultRepo) SaveResult(ctx context.Context, r *entities.QuizResult) (int64, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, r)
	}
	return 1, nil
}

func (m *mockResultRepo) GetHistory(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, chatID, limit)
	}
	return nil, nil
}

func (m *mockResultRepo) GetPrefectureStats(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, chatID)
	}
	return nil, nil
}

// --- Mock RegionRepository ---

type mockRegionRepo struct {
	getFn func(region string) (*geojson.FeatureCollection, error)
}

func (m *mockRegionRepo) Get(region string) (*geojson.FeatureCollection, error) {
	if m.getFn != nil {
		return m.getFn(region)
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrRegionNotFound, region)
}

// --- Helpers ---

func prefectures(t *testing.T) *repository.PrefectureRepository {
	t.Helper()
	repo, err := repository.NewPrefectureRepository()
	if err != nil {
		t.Fatalf("load prefectures: %v", err)
	}
	return repo
}

func seeded(seed int64) func() *rand.Rand {
	return func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
}

// cell is a one degree square with its south west corner at (lon, lat).
func cell(lon, lat float64) orb.Polygon {
	return orb.Polygon{{{lon, lat}, {lon + 1, lat}, {lon + 1, lat + 1}, {lon, lat + 1}, {lon, lat}}}
}

// grid lays names out as cells along a row starting at (130, 30).
func grid(key string, names ...string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, name := range names {
		f := geojson.NewFeature(cell(130+float64(i), 30))
		f.Properties[key] = name
		fc.Append(f)
	}
	return fc
}

// inside returns a point in the cell of names[i] laid out by grid.
func inside(i int) orb.Point {
	return orb.Point{130.5 + float64(i), 30.5}
}
