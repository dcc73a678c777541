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

// --- Fake bot ---

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

// texts returns the text of every sent message.
func (b *fakeBot) texts() []string {
	var out []string
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

// --- Mock QuizService ---

type mockQuizService struct {
	startFn          func(ctx context.Context, chatID int64, mode entities.QuizMode) (quiz.Question, error)
	submitOptionFn   func(ctx context.Context, chatID int64, questionNum, optionIndex int) (service.Feedback, error)
	submitTextFn     func(ctx context.Context, chatID int64, input string) (service.Feedback, error)
	submitLocationFn func(ctx context.Context, chatID int64, point orb.Point) (service.Feedback, error)
	giveUpFn         func(ctx context.Context, chatID int64) (service.Feedback, error)
	nextFn           func(ctx context.Context, chatID int64) (service.Step, error)
	resetFn          func(chatID int64) bool
}

func (m *mockQuizService) DefaultMode() entities.QuizMode { return entities.ModeMapChoice }

func (m *mockQuizService) Start(ctx context.Context, chatID int64, mode entities.QuizMode) (quiz.Question, error) {
	if m.startFn != nil {
		return m.startFn(ctx, chatID, mode)
	}
	return quiz.Question{}, nil
}

func (m *mockQuizService) Restart(ctx context.Context, chatID int64) (quiz.Question, error) {
	return quiz.Question{}, storage.ErrSessionNotFound
}

func (m *mockQuizService) Reset(chatID int64) bool {
	if m.resetFn != nil {
		return m.resetFn(chatID)
	}
	return false
}

func (m *mockQuizService) SubmitOption(ctx context.Context, chatID int64, questionNum, optionIndex int) (service.Feedback, error) {
	if m.submitOptionFn != nil {
		return m.submitOptionFn(ctx, chatID, questionNum, optionIndex)
	}
	return service.Feedback{}, storage.ErrSessionNotFound
}

func (m *mockQuizService) SubmitText(ctx context.Context, chatID int64, input string) (service.Feedback, error) {
	if m.submitTextFn != nil {
		return m.submitTextFn(ctx, chatID, input)
	}
	return service.Feedback{}, storage.ErrSessionNotFound
}

func (m *mockQuizService) SubmitLocation(ctx context.Context, chatID int64, point orb.Point) (service.Feedback, error) {
	if m.submitLocationFn != nil {
		return m.submitLocationFn(ctx, chatID, point)
	}
	return service.Feedback{}, storage.ErrSessionNotFound
}

func (m *mockQuizService) GiveUp(ctx context.Context, chatID int64) (service.Feedback, error) {
	if m.giveUpFn != nil {
		return m.giveUpFn(ctx, chatID)
	}
	return service.Feedback{}, storage.ErrSessionNotFound
}

func (m *mockQuizService) Next(ctx context.Context, chatID int64) (service.Step, error) {
	if m.nextFn != nil {
		return m.nextFn(ctx, chatID)
	}
	return service.Step{}, storage.ErrSessionNotFound
}

func (m *mockQuizService) History(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error) {
	return nil, nil
}

func (m *mockQuizService) Stats(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error) {
	return nil, nil
}

// --- Mock StudyService ---

type mockStudyService struct {
	stateFn  func(chatID int64) (service.StudyState, error)
	answerFn func(ctx context.Context, chatID int64, point orb.Point) (study.Outcome, service.StudyState, error)
}

func (m *mockStudyService) Start(ctx context.Context, chatID int64, code int, sub bool) (service.StudyState, error) {
	return service.StudyState{}, nil
}

func (m *mockStudyService) State(chatID int64) (service.StudyState, error) {
	if m.stateFn != nil {
		return m.stateFn(chatID)
	}
	return service.StudyState{}, storage.ErrSessionNotFound
}

func (m *mockStudyService) Answer(ctx context.Context, chatID int64, point orb.Point) (study.Outcome, service.StudyState, error) {
	if m.answerFn != nil {
		return m.answerFn(ctx, chatID, point)
	}
	return study.Outcome{}, service.StudyState{}, storage.ErrSessionNotFound
}

func (m *mockStudyService) Change(chatID int64) (service.StudyState, error) {
	return service.StudyState{}, storage.ErrSessionNotFound
}

func (m *mockStudyService) Reset(chatID int64) (service.StudyState, error) {
	return service.StudyState{}, storage.ErrSessionNotFound
}

func (m *mockStudyService) Stop(chatID int64) bool { return false }

type mapLinkerFunc func(chatID int64) (string, error)

func (f mapLinkerFunc) MapLink(chatID int64) (string, error) { return f(chatID) }
