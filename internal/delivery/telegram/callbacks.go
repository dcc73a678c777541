package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var (
		toast string
		fn    HandlerFunc
	)

	switch data.Action {
	case actionMode:
		fn = h.handleModeCallback(entities.QuizMode(data.param(0)))
	case actionQuiz:
		fn = h.handleQuizCallback(data, &toast)
	case actionStudy:
		fn = h.handleStudyCallback(data.param(0))
	case actionStats:
		fn = h.handleStats()
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)

	// Remove the user's "clock".
	h.answerCallback(cb.ID, toast)
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleModeCallback(mode entities.QuizMode) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.startQuiz(ctx, chatID, mode)
	}
}

// handleQuizCallback dispatches quiz buttons. toast receives the short
// popup text shown on the pressed button.
func (h *Handler) handleQuizCallback(data callbackData, toast *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case quizAnswer:
			return h.answerOption(ctx, chatID, data, toast)

		case quizGiveUp:
			fb, err := h.quizService.GiveUp(ctx, chatID)
			if err != nil {
				return err
			}
			return h.sendFeedback(chatID, fb)

		case quizNext:
			step, err := h.quizService.Next(ctx, chatID)
			if err != nil {
				return err
			}
			return h.sendStep(chatID, step)

		case quizRestart:
			q, err := h.quizService.Restart(ctx, chatID)
			if err != nil {
				return err
			}
			return h.sendQuestion(chatID, q)

		case quizReset:
			return h.handleReset()(ctx, chatID)

		default:
			*toast = msgStaleButton
			return nil
		}
	}
}

// answerOption submits the option behind an answer button. Buttons of an
// earlier question are rejected without touching the session.
func (h *Handler) answerOption(ctx context.Context, chatID int64, data callbackData, toast *string) error {
	num, idx, ok := parseQuizAnswer(data)
	if !ok {
		*toast = msgStaleButton
		return nil
	}

	fb, err := h.quizService.SubmitOption(ctx, chatID, num, idx)
	switch {
	case errors.Is(err, service.ErrStaleQuestion):
		*toast = msgStaleButton
		return nil
	case errors.Is(err, quiz.ErrInvalidTransition):
		*toast = msgStaleButton
		return err
	case err != nil:
		return err
	}

	*toast = "✖️ 不正解"
	if fb.Record.IsCorrect {
		*toast = "✅ 正解！"
	}
	return h.sendFeedback(chatID, fb)
}

func (h *Handler) handleStudyCallback(sub string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		var (
			st  service.StudyState
			err error
		)

		switch sub {
		case studyChange:
			st, err = h.studyService.Change(chatID)
		case studyReset:
			st, err = h.studyService.Reset(chatID)
		case studyStop:
			h.studyService.Stop(chatID)
			return h.send(newPlainMessage(chatID, "学習をおわったよ。またね！"))
		default:
			return nil
		}
		if err != nil {
			return err
		}

		return h.sendStudyState(chatID, st)
	}
}
