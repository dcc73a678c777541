package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot          Bot
	logger       *zap.Logger
	quizService  QuizService
	studyService StudyService
	messages     MessageStorage
	maps         MapLinker      // nil disables /map
	location     *time.Location // zone of displayed timestamps
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	studyService StudyService,
	messages MessageStorage,
	maps MapLinker,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.UTC
	}

	return &Handler{
		bot:          bot,
		logger:       logger,
		quizService:  quizService,
		studyService: studyService,
		messages:     messages,
		maps:         maps,
		location:     location,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text),
	)

	if msg.IsCommand() {
		args := msg.CommandArguments()

		switch msg.Command() {
		case "start":
			_ = h.withErrorHandling(h.handleStart())(ctx, chatID)
		case "quiz":
			_ = h.withErrorHandling(h.handleQuiz(args))(ctx, chatID)
		case "study":
			_ = h.withErrorHandling(h.handleStudy(args))(ctx, chatID)
		case "reset":
			_ = h.withErrorHandling(h.handleReset())(ctx, chatID)
		case "stats":
			_ = h.withErrorHandling(h.handleStats())(ctx, chatID)
		case "history":
			_ = h.withErrorHandling(h.handleHistory())(ctx, chatID)
		case "map":
			_ = h.withErrorHandling(h.handleMap())(ctx, chatID)
		case "help":
			_ = h.send(newMessage(chatID, helpMarkdownV2()))
		default:
			_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
		return
	}

	if msg.Location != nil {
		point := pointOf(msg.Location)
		_ = h.withErrorHandling(h.handleLocation(point))(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.handleText(msg.Text))(ctx, chatID)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// sendTracked sends a message with an answer keyboard and strips the
// keyboard of the previous one, so only the latest question can be clicked.
func (h *Handler) sendTracked(chatID int64, c tgbotapi.Chattable) error {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message", zap.Error(err))
		return err
	}

	prev, hadPrev := h.messages.UpsertAndGetPrev(chatID, sent.MessageID)
	if hadPrev && prev.MessageID != sent.MessageID {
		h.clearKeyboard(chatID, prev.MessageID)
	}
	return nil
}

func (h *Handler) clearKeyboard(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := h.bot.Request(edit); err != nil {
		h.logger.Debug("failed to clear keyboard",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
	}
}
