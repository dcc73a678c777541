package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/paulmach/orb"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/study"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type QuizService interface {
	DefaultMode() entities.QuizMode
	Start(ctx context.Context, chatID int64, mode entities.QuizMode) (quiz.Question, error)
	Restart(ctx context.Context, chatID int64) (quiz.Question, error)
	Reset(chatID int64) bool
	SubmitOption(ctx context.Context, chatID int64, questionNum, optionIndex int) (service.Feedback, error)
	SubmitText(ctx context.Context, chatID int64, input string) (service.Feedback, error)
	SubmitLocation(ctx context.Context, chatID int64, point orb.Point) (service.Feedback, error)
	GiveUp(ctx context.Context, chatID int64) (service.Feedback, error)
	Next(ctx context.Context, chatID int64) (service.Step, error)
	History(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error)
	Stats(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error)
}

type StudyService interface {
	Start(ctx context.Context, chatID int64, code int, subprefecture bool) (service.StudyState, error)
	State(chatID int64) (service.StudyState, error)
	Answer(ctx context.Context, chatID int64, point orb.Point) (study.Outcome, service.StudyState, error)
	Change(chatID int64) (service.StudyState, error)
	Reset(chatID int64) (service.StudyState, error)
	Stop(chatID int64) bool
}

// MapLinker hands out links that let a browser map client play the chat's quiz.
type MapLinker interface {
	MapLink(chatID int64) (string, error)
}

// MessageStorage tracks the last question message of each chat.
type MessageStorage interface {
	UpsertAndGetPrev(chatID int64, messageID int) (storage.QuestionMessage, bool)
	Delete(chatID int64)
}
