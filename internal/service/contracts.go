package service

import (
	"context"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

// PrefectureRepository serves the read-only reference table.
type PrefectureRepository interface {
	GetAll() []entities.Prefecture
	GetByName(name string) (entities.Prefecture, error)
	GetByCode(code int) (entities.Prefecture, error)
}

// RegionRepository serves parsed boundary datasets.
type RegionRepository interface {
	Get(region string) (*geojson.FeatureCollection, error)
}

// ResultRepository persists finished quizzes.
type ResultRepository interface {
	SaveResult(ctx context.Context, r *entities.QuizResult) (int64, error)
	GetHistory(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error)
	GetPrefectureStats(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error)
}

// IdleEvicter drops sessions not used since cutoff.
type IdleEvicter interface {
	EvictIdle(cutoff time.Time) int
}
