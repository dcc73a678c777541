package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/paulmach/orb"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, welcomeMarkdownV2())
		msg.ReplyMarkup = buildModeKeyboard()
		return h.send(msg)
	}
}

// handleQuiz starts a quiz in the mode given as argument or the default one.
func (h *Handler) handleQuiz(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		mode := entities.QuizMode(strings.TrimSpace(args))
		return h.startQuiz(ctx, chatID, mode)
	}
}

func (h *Handler) startQuiz(ctx context.Context, chatID int64, mode entities.QuizMode) error {
	q, err := h.quizService.Start(ctx, chatID, mode)
	if err != nil {
		return err
	}

	_ = h.send(newPlainMessage(chatID, formatQuizMode(q.Mode)+" でスタート！"))
	return h.sendQuestion(chatID, q)
}

// sendQuestion sends the map view of q, when it has a point, then the prompt.
func (h *Handler) sendQuestion(chatID int64, q quiz.Question) error {
	if q.View.Point != nil {
		venue := tgbotapi.NewVenue(chatID, "どーこだ？", "ヒント: "+q.View.Label, q.View.Lat, q.View.Lon)
		if q.Mode == entities.ModeTextInput {
			venue = tgbotapi.NewVenue(chatID, q.View.Label, "県庁所在地", q.View.Lat, q.View.Lon)
		}
		_ = h.send(venue)
	}

	msg := newMessage(chatID, formatQuestion(q))
	if q.Mode == entities.ModeTextInput {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🏳️ 答えを見る", buildQuizCallback(quizGiveUp)),
			),
		)
	} else {
		msg.ReplyMarkup = buildQuestionKeyboard(q)
	}

	return h.sendTracked(chatID, msg)
}

func (h *Handler) sendFeedback(chatID int64, fb service.Feedback) error {
	msg := newMessage(chatID, formatFeedback(fb))
	msg.ReplyMarkup = buildRevealKeyboard(fb.Last)
	return h.sendTracked(chatID, msg)
}

func (h *Handler) sendStep(chatID int64, step service.Step) error {
	if step.Question != nil {
		return h.sendQuestion(chatID, *step.Question)
	}

	msg := newMessage(chatID, formatSummary(*step.Summary))
	msg.ReplyMarkup = buildQuizResultKeyboard()
	return h.sendTracked(chatID, msg)
}

// handleStudy parses "/study [code] [sub]".
func (h *Handler) handleStudy(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)

		code := 0
		if len(fields) > 0 {
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return h.send(newPlainMessage(chatID, msgUsageStudy))
			}
			code = n
		}
		sub := len(fields) > 1 && (fields[1] == "sub" || fields[1] == "振興局")

		st, err := h.studyService.Start(ctx, chatID, code, sub)
		if err != nil {
			return err
		}

		venue := tgbotapi.NewVenue(chatID, "地図の中心", st.Prefecture, st.View.Lat, st.View.Lon)
		_ = h.send(venue)
		return h.sendStudyState(chatID, st)
	}
}

func (h *Handler) sendStudyState(chatID int64, st service.StudyState) error {
	msg := newMessage(chatID, formatStudyState(st))
	msg.ReplyMarkup = buildStudyKeyboard(st.Finished)
	return h.sendTracked(chatID, msg)
}

// handleReset drops the quiz and the drill of the chat.
func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		hadQuiz := h.quizService.Reset(chatID)
		hadStudy := h.studyService.Stop(chatID)
		h.messages.Delete(chatID)

		if !hadQuiz && !hadStudy {
			return h.send(newPlainMessage(chatID, msgNothingToReset))
		}

		msg := newPlainMessage(chatID, msgResetDone)
		msg.ReplyMarkup = buildModeKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleStats() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.quizService.Stats(ctx, chatID)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			return h.send(newPlainMessage(chatID, msgNoStats))
		}
		return h.send(newMessage(chatID, formatStats(stats)))
	}
}

// handleMap sends a link carrying a token that only opens this chat's session.
func (h *Handler) handleMap() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if h.maps == nil {
			return h.send(newPlainMessage(chatID, msgMapDisabled))
		}
		link, err := h.maps.MapLink(chatID)
		if err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, msgMapLink+link))
	}
}

func (h *Handler) handleHistory() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		results, err := h.quizService.History(ctx, chatID, historyLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return h.send(newPlainMessage(chatID, msgNoHistory))
		}
		return h.send(newMessage(chatID, formatHistory(results, h.location)))
	}
}

// handleText answers a text input question.
func (h *Handler) handleText(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fb, err := h.quizService.SubmitText(ctx, chatID, text)
		if errors.Is(err, storage.ErrSessionNotFound) || errors.Is(err, service.ErrTextNotAccepted) {
			return h.send(newPlainMessage(chatID, msgTextNotExpected))
		}
		if err != nil {
			return err
		}
		return h.sendFeedback(chatID, fb)
	}
}

// handleLocation answers the running drill, or the map question when no
// drill is active.
func (h *Handler) handleLocation(point orb.Point) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if st, err := h.studyService.State(chatID); err == nil && !st.Finished {
			out, next, err := h.studyService.Answer(ctx, chatID, point)
			if err != nil {
				return err
			}
			_ = h.send(newPlainMessage(chatID, formatStudyOutcome(out)))
			return h.sendStudyState(chatID, next)
		}

		fb, err := h.quizService.SubmitLocation(ctx, chatID, point)
		if err != nil {
			return err
		}
		return h.sendFeedback(chatID, fb)
	}
}

func pointOf(loc *tgbotapi.Location) orb.Point {
	return orb.Point{loc.Longitude, loc.Latitude}
}
