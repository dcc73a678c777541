package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/geo"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/metrics"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/repository"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
)

const defaultHistoryLimit = 10

var (
	ErrLocationNotAccepted = errors.New("location answers are only accepted in map mode")
	ErrTextNotAccepted     = errors.New("text answers are only accepted in text input mode")
	ErrStaleQuestion       = errors.New("question is no longer current")
)

// QuizConfig holds the session parameters.
type QuizConfig struct {
	QuestionCount int
	DefaultMode   entities.QuizMode
	// NewRand returns the random source for a new session. Nil means a time seeded one.
	NewRand func() *rand.Rand
}

// Feedback is the outcome of a submit or give up.
type Feedback struct {
	Record entities.AnswerRecord
	Number int
	Total  int
	Score  int
	Last   bool // the revealed question is the last one
}

// Step is what follows Next: either another question or the final summary.
type Step struct {
	Question *quiz.Question
	Summary  *quiz.Summary
}

type QuizService struct {
	prefectures PrefectureRepository
	regions     RegionRepository
	results     ResultRepository
	sessions    *storage.SessionStore[*quiz.Session]
	cfg         QuizConfig
	logger      *zap.Logger
}

func NewQuizService(
	prefectures PrefectureRepository,
	regions RegionRepository,
	results ResultRepository,
	sessions *storage.SessionStore[*quiz.Session],
	cfg QuizConfig,
	logger *zap.Logger,
) *QuizService {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = quiz.DefaultQuestionCount
	}
	if !cfg.DefaultMode.Valid() {
		cfg.DefaultMode = entities.ModeMapChoice
	}
	if cfg.NewRand == nil {
		cfg.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}

	return &QuizService{
		prefectures: prefectures,
		regions:     regions,
		results:     results,
		sessions:    sessions,
		cfg:         cfg,
		logger:      logger,
	}
}

// DefaultMode is the mode used when Start gets none.
func (s *QuizService) DefaultMode() entities.QuizMode { return s.cfg.DefaultMode }

// Start replaces any session of chatID with a fresh one and returns its first question.
func (s *QuizService) Start(_ context.Context, chatID int64, mode entities.QuizMode) (quiz.Question, error) {
	if mode == "" {
		mode = s.cfg.DefaultMode
	}

	session, err := quiz.New(s.prefectures.GetAll(), mode, s.cfg.QuestionCount, s.cfg.NewRand())
	if err != nil {
		return quiz.Question{}, fmt.Errorf("start quiz: %w", err)
	}

	q, err := session.Current()
	if err != nil {
		return quiz.Question{}, err
	}

	s.sessions.Put(chatID, session)
	metrics.QuizzesStarted.WithLabelValues(string(mode)).Inc()
	s.logger.Debug("quiz started",
		zap.Int64("chat_id", chatID),
		zap.String("mode", string(mode)),
		zap.Int("questions", session.Total()),
	)

	return q, nil
}

// Restart starts a new session in the mode of the current one.
func (s *QuizService) Restart(ctx context.Context, chatID int64) (quiz.Question, error) {
	var mode entities.QuizMode
	err := s.sessions.View(chatID, func(session *quiz.Session) error {
		mode = session.Mode()
		return nil
	})
	if err != nil {
		return quiz.Question{}, err
	}

	return s.Start(ctx, chatID, mode)
}

// Reset discards the session of chatID. It reports whether there was one.
func (s *QuizService) Reset(chatID int64) bool {
	return s.sessions.Delete(chatID)
}

// Current returns the current question.
func (s *QuizService) Current(chatID int64) (quiz.Question, error) {
	var q quiz.Question
	err := s.sessions.View(chatID, func(session *quiz.Session) error {
		var err error
		q, err = session.Current()
		return err
	})
	return q, err
}

// Mode returns the mode of the running session.
func (s *QuizService) Mode(chatID int64) (entities.QuizMode, error) {
	var mode entities.QuizMode
	err := s.sessions.View(chatID, func(session *quiz.Session) error {
		mode = session.Mode()
		return nil
	})
	return mode, err
}

// View returns the map view of the current question.
func (s *QuizService) View(chatID int64) (entities.MapView, error) {
	q, err := s.Current(chatID)
	if err != nil {
		return entities.MapView{}, err
	}
	return q.View, nil
}

// Summary returns the outcome of the session so far.
func (s *QuizService) Summary(chatID int64) (quiz.Summary, error) {
	var sum quiz.Summary
	err := s.sessions.View(chatID, func(session *quiz.Session) error {
		sum = session.Summary()
		return nil
	})
	return sum, err
}

// Submit grades input against the current question.
func (s *QuizService) Submit(_ context.Context, chatID int64, input string) (Feedback, error) {
	return s.reveal(chatID, func(session *quiz.Session) (entities.AnswerRecord, error) {
		return session.Submit(input)
	})
}

// GiveUp reveals the answer of the current question without scoring it.
func (s *QuizService) GiveUp(_ context.Context, chatID int64) (Feedback, error) {
	return s.reveal(chatID, func(session *quiz.Session) (entities.AnswerRecord, error) {
		return session.GiveUp()
	})
}

// SubmitOption answers question number questionNum with its option at
// optionIndex. The number is checked under the session lock, so a button of
// an earlier question never grades the current one.
func (s *QuizService) SubmitOption(_ context.Context, chatID int64, questionNum, optionIndex int) (Feedback, error) {
	return s.reveal(chatID, func(session *quiz.Session) (entities.AnswerRecord, error) {
		q, err := session.Current()
		if err != nil {
			return entities.AnswerRecord{}, err
		}
		if q.Number != questionNum || optionIndex < 0 || optionIndex >= len(q.Options) {
			return entities.AnswerRecord{}, fmt.Errorf("%w: question %d option %d, current question %d",
				ErrStaleQuestion, questionNum, optionIndex, q.Number)
		}
		return session.Submit(q.Options[optionIndex])
	})
}

// SubmitText answers a text input question.
func (s *QuizService) SubmitText(_ context.Context, chatID int64, input string) (Feedback, error) {
	return s.reveal(chatID, func(session *quiz.Session) (entities.AnswerRecord, error) {
		if session.Mode() != entities.ModeTextInput {
			return entities.AnswerRecord{}, ErrTextNotAccepted
		}
		return session.Submit(input)
	})
}

// SubmitLocation answers a map mode question with the prefecture containing point.
func (s *QuizService) SubmitLocation(_ context.Context, chatID int64, point orb.Point) (Feedback, error) {
	return s.reveal(chatID, func(session *quiz.Session) (entities.AnswerRecord, error) {
		if session.Mode() != entities.ModeMapChoice {
			return entities.AnswerRecord{}, ErrLocationNotAccepted
		}

		fc, err := s.regions.Get(repository.RegionPrefectures)
		if err != nil {
			return entities.AnswerRecord{}, fmt.Errorf("load prefectures: %w", err)
		}
		name, err := geo.Locate(fc, point, repository.KeyPrefecture)
		if err != nil {
			return entities.AnswerRecord{}, err
		}

		return session.Submit(name)
	})
}

func (s *QuizService) reveal(chatID int64, fn func(*quiz.Session) (entities.AnswerRecord, error)) (Feedback, error) {
	var fb Feedback
	err := s.sessions.Update(chatID, func(session *quiz.Session) error {
		rec, err := fn(session)
		if err != nil {
			return err
		}

		fb = Feedback{
			Record: rec,
			Number: session.Index() + 1,
			Total:  session.Total(),
			Score:  session.Score(),
			Last:   session.Index() == session.Total()-1,
		}
		metrics.AnswersTotal.WithLabelValues(string(session.Mode()), metrics.Result(rec.IsCorrect)).Inc()
		return nil
	})
	return fb, err
}

// Next moves to the next question. Passing the last question finishes the quiz,
// stores its result and returns the summary instead.
func (s *QuizService) Next(ctx context.Context, chatID int64) (Step, error) {
	var (
		step   Step
		result *entities.QuizResult
	)

	err := s.sessions.Update(chatID, func(session *quiz.Session) error {
		if err := session.Next(); err != nil {
			return err
		}

		if !session.Finished() {
			q, err := session.Current()
			if err != nil {
				return err
			}
			step.Question = &q
			return nil
		}

		sum := session.Summary()
		step.Summary = &sum
		result = session.Result(chatID, time.Now())
		return nil
	})
	if err != nil {
		return Step{}, err
	}

	if result != nil {
		s.finish(ctx, result)
	}

	return step, nil
}

// finish records a completed quiz. A storage failure is logged, the user
// still gets the summary.
func (s *QuizService) finish(ctx context.Context, result *entities.QuizResult) {
	mode := string(result.Mode)
	metrics.QuizzesFinished.WithLabelValues(mode).Inc()
	metrics.QuizScore.WithLabelValues(mode).Observe(result.Accuracy())

	if s.results == nil {
		return
	}

	id, err := s.results.SaveResult(ctx, result)
	if err != nil {
		s.logger.Error("failed to save quiz result",
			zap.Int64("chat_id", result.ChatID),
			zap.String("mode", mode),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("quiz finished",
		zap.Int64("chat_id", result.ChatID),
		zap.Int64("result_id", id),
		zap.String("mode", mode),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total),
	)
}

// History returns the latest stored results of chatID, newest first.
func (s *QuizService) History(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	results, err := s.results.GetHistory(ctx, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	return results, nil
}

// Stats returns per prefecture accuracy of chatID across stored results.
func (s *QuizService) Stats(ctx context.Context, chatID int64) ([]entities.PrefectureStat, error) {
	stats, err := s.results.GetPrefectureStats(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}
