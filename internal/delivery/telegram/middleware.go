package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/geo"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/study"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// userErrors maps expected failures to the reply the user gets instead of
// the generic error message.
var userErrors = []struct {
	err error
	msg string
}{
	{storage.ErrSessionNotFound, msgNoActiveSession},
	{quiz.ErrUnknownMode, msgUnknownMode},
	{geo.ErrNotFound, msgLocationOutside},
	{service.ErrLocationNotAccepted, msgLocationNotAccepted},
	{service.ErrInvalidStudyTarget, msgUsageStudy},
	{study.ErrFinished, msgStudyFinished},
	{study.ErrNoAlternative, msgNoAlternative},
}

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		// Stale buttons and repeated answers: nothing to do.
		if errors.Is(err, quiz.ErrInvalidTransition) {
			h.logger.Debug("ignored transition", zap.Int64("chat_id", chatID), zap.Error(err))
			return nil
		}

		for _, ue := range userErrors {
			if errors.Is(err, ue.err) {
				_ = h.send(newPlainMessage(chatID, ue.msg))
				return nil
			}
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		_ = h.send(newPlainMessage(chatID, msgInternalError))
		return nil
	}
}
