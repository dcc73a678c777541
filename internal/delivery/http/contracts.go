package http

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
)

type QuizService interface {
	View(chatID int64) (entities.MapView, error)
	Submit(ctx context.Context, chatID int64, input string) (service.Feedback, error)
	Next(ctx context.Context, chatID int64) (service.Step, error)
}

type PrefectureRepository interface {
	GetAll() []entities.Prefecture
}

type RegionRepository interface {
	Get(region string) (*geojson.FeatureCollection, error)
}

type TokenParser interface {
	ParseToken(token string) (int64, error)
}
