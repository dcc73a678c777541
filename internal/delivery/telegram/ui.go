package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
)

// buildModeKeyboard lists the quiz modes.
func buildModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, mode := range entities.QuizModes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(formatQuizMode(mode), buildModeCallback(mode)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard offers the options of a multiple choice question,
// two per row, plus a give up button.
func buildQuestionKeyboard(q quiz.Question) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(option, buildQuizAnswerCallback(q.Number, i)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏳️ 答えを見る", buildQuizCallback(quizGiveUp)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildRevealKeyboard follows an answered question.
func buildRevealKeyboard(last bool) tgbotapi.InlineKeyboardMarkup {
	label := "次へ ▶️"
	if last {
		label = "結果を見る 🏁"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizCallback(quizNext)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 リセット", buildQuizCallback(quizReset)),
		),
	)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 同じモードでもう一度", buildQuizCallback(quizRestart)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎲 モードを選ぶ", buildQuizCallback(quizReset)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 苦手な都道府県", buildStatsCallback()),
		),
	)
}

// buildStudyKeyboard controls a running drill.
func buildStudyKeyboard(finished bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if !finished {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔀 チェンジ", buildStudyCallback(studyChange)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 リセット", buildStudyCallback(studyReset)),
		tgbotapi.NewInlineKeyboardButtonData("⏹ おわる", buildStudyCallback(studyStop)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
