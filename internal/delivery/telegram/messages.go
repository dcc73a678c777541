// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/study"
)

// Error and hint messages.
const (
	msgInternalError       = "うまくいかなかったみたい。しばらくしてからもう一度試してね。"
	msgUnknownCommand      = "知らないコマンドだよ。/help で使い方を見てね。"
	msgNoActiveSession     = "進行中のクイズはないよ。/quiz で始めよう！"
	msgUnknownMode         = "そのモードはないよ。mc_map / mc_capital / text_input から選んでね。"
	msgLocationOutside     = "そこはどの地域にも入っていないみたい。地図の中を選んでね。"
	msgLocationNotAccepted = "位置で答えられるのは地図モードと学習モードだけだよ。"
	msgUsageStudy          = "使い方: /study（都道府県）、/study 27（大阪府の市町村）、/study 1 sub（北海道の振興局）"
	msgStudyFinished       = "この学習はおしまい。リセットしてもう一度やってみよう！"
	msgNoAlternative       = "残りはこれだけだよ。"
	msgTextNotExpected     = "ボタンか位置情報で答えてね。クイズを始めるなら /quiz だよ。"
	msgResetDone           = "リセットしたよ。モードを選んでゲームスタート！"
	msgNothingToReset      = "リセットするものはないよ。"
	msgNoHistory           = "まだ記録がないよ。クイズを最後までやってみよう！"
	msgNoStats             = "まだ統計がないよ。クイズを最後までやってみよう！"
	msgStaleButton         = "このボタンはもう使えないよ"
	msgMapDisabled         = "地図クライアントは使えない設定になっているよ。"
	msgMapLink             = "ブラウザの地図で答えるならこちら（他の人には見せないでね）:\n"
)

const (
	progressBarLength = 10
	statsLimit        = 10
	historyLimit      = 10
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

func welcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("都道府県クイズ"))
	sb.WriteString(md("へようこそ！"))
	sb.WriteString("\n\n")
	sb.WriteString(md("47都道府県と県庁所在地を、地図と4択と入力で覚えよう。"))
	sb.WriteString("\n\n")
	sb.WriteString(md("モードを選んでゲームスタート！"))

	return sb.String()
}

func helpMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("使い方"))
	sb.WriteString("\n\n")
	sb.WriteString(md("/quiz — クイズを始める（/quiz mc_map, /quiz mc_capital, /quiz text_input）"))
	sb.WriteString("\n")
	sb.WriteString(md("/study — 場所と地名を覚える（/study 27 で大阪府の市町村、/study 1 sub で北海道の振興局）"))
	sb.WriteString("\n")
	sb.WriteString(md("/reset — クイズと学習をリセット"))
	sb.WriteString("\n")
	sb.WriteString(md("/stats — 苦手な都道府県"))
	sb.WriteString("\n")
	sb.WriteString(md("/history — 最近の結果"))
	sb.WriteString("\n")
	sb.WriteString(md("/map — ブラウザの地図で答えるリンク"))
	sb.WriteString("\n\n")
	sb.WriteString(md("地図の問題は 📎 → 位置情報 で場所を送って答えることもできるよ。"))

	return sb.String()
}

// formatQuizMode formats quiz mode for display.
func formatQuizMode(mode entities.QuizMode) string {
	switch mode {
	case entities.ModeMapChoice:
		return "🗾 地図から4択"
	case entities.ModeCapitalChoice:
		return "🏯 県庁所在地を4択"
	case entities.ModeTextInput:
		return "⌨️ 都道府県名を入力"
	default:
		return string(mode)
	}
}

// buildProgressBar creates a text progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", length-filled) + "]"
}

// formatQuestion renders the prompt of q (MarkdownV2 safe).
func formatQuestion(q quiz.Question) string {
	header := md(fmt.Sprintf("問題: %d / %d", q.Number, q.Total))

	switch q.Mode {
	case entities.ModeTextInput:
		return fmt.Sprintf("%s\n\n%s %s\n\n%s",
			header,
			md("県庁所在地:"), bold(q.Prompt),
			md("都道府県名を入力してね（例：大阪府 または 大阪）"),
		)
	case entities.ModeCapitalChoice:
		return fmt.Sprintf("%s\n\n%s %s\n\n%s",
			header,
			md("都道府県:"), bold(q.Prompt),
			md("県庁所在地を4択から選んでね"),
		)
	default:
		return fmt.Sprintf("%s\n\n%s\n%s",
			header,
			bold("どーこだ？"),
			md("地図のピンがある都道府県を選んでね。位置情報を送って答えてもいいよ。"),
		)
	}
}

// formatFeedback renders the reveal of an answered question (MarkdownV2 safe).
func formatFeedback(fb service.Feedback) string {
	rec := fb.Record

	verdict := md("✖️ 不正解。正解は ") + bold(rec.CorrectAnswer) + md(" です。")
	if rec.IsCorrect {
		verdict = md("✅ 正解！ 正解は ") + bold(rec.CorrectAnswer) + md(" です。")
	}

	return fmt.Sprintf("%s\n%s\n\n%s",
		verdict,
		md("あなた: "+displayAnswer(rec.UserAnswer)),
		md(fmt.Sprintf("現在の正解数: %d / %d", fb.Score, fb.Number)),
	)
}

// formatSummary renders the final screen of a quiz (MarkdownV2 safe).
func formatSummary(sum quiz.Summary) string {
	var sb strings.Builder

	sb.WriteString(md("🏁 結果: 正解は "))
	sb.WriteString(bold(fmt.Sprintf("%d 問", sum.Score)))
	sb.WriteString(md(" でした！"))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(sum.Score, sum.Total, progressBarLength)))
	sb.WriteString("\n\n")
	sb.WriteString(md("詳しい結果："))
	sb.WriteString("\n")

	for _, r := range sum.Results {
		sb.WriteString(md(formatResultLine(sum.Mode, r)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("正答率: %.0f%%", sum.Accuracy*100)))

	return sb.String()
}

func formatResultLine(mode entities.QuizMode, r quiz.Result) string {
	label := "県庁所在地: " + r.Prefecture.Capital
	if mode == entities.ModeCapitalChoice {
		label = "都道府県: " + r.Prefecture.Name
	}

	switch r.Status {
	case entities.StatusUnanswered:
		return fmt.Sprintf("%d. %s（未回答）", r.Number, label)
	case entities.StatusCorrect:
		return fmt.Sprintf("%d. %s → 正解: %s / あなた: %s → ✅ 正解",
			r.Number, label, r.Record.CorrectAnswer, displayAnswer(r.Record.UserAnswer))
	default:
		return fmt.Sprintf("%d. %s → 正解: %s / あなた: %s → ✖️ 不正解",
			r.Number, label, r.Record.CorrectAnswer, displayAnswer(r.Record.UserAnswer))
	}
}

func displayAnswer(s string) string {
	if strings.TrimSpace(s) == "" {
		return "（未回答）"
	}
	return s
}

// formatStudyState renders a drill screen (MarkdownV2 safe).
func formatStudyState(st service.StudyState) string {
	var sb strings.Builder

	area := st.Prefecture
	if area == "" {
		area = "全国"
	}
	sb.WriteString(md("📍 " + area))
	sb.WriteString("\n\n")

	p := st.Progress
	if st.Finished {
		if p.Correct == p.Total {
			sb.WriteString(md("全問正解だよ！すごい！"))
		} else {
			sb.WriteString(md("おしまい！おつかれさま。"))
		}
	} else {
		sb.WriteString(bold(st.Target))
		sb.WriteString(md(" はどこかな？"))
		sb.WriteString("\n")
		sb.WriteString(md("📎 → 位置情報 で地図から選んで答えてね"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(md(fmt.Sprintf("🗂 %d / %d  ⭐ %d  🌙 %d", p.Answered, p.Total, p.Correct, len(p.Wrong))))
	if len(p.Wrong) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(md("間違い: " + strings.Join(p.Wrong, "、")))
	}

	return sb.String()
}

func formatStudyOutcome(out study.Outcome) string {
	if out.Correct {
		return "正解だよ！"
	}
	return fmt.Sprintf("おしい！ %sを選んだよ。正解は %s。", out.Selected, out.Target)
}

// formatStats renders the weakest prefectures (MarkdownV2 safe).
func formatStats(stats []entities.PrefectureStat) string {
	var sb strings.Builder

	sb.WriteString(bold("📊 苦手な都道府県"))
	sb.WriteString("\n\n")

	for i, s := range stats {
		if i == statsLimit {
			break
		}
		sb.WriteString(md(fmt.Sprintf("%d. %s  %d / %d (%.0f%%)",
			i+1, s.Prefecture, s.Corrects, s.Attempts, s.Accuracy()*100)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatHistory renders the latest results in loc (MarkdownV2 safe).
func formatHistory(results []*entities.QuizResult, loc *time.Location) string {
	var sb strings.Builder

	sb.WriteString(bold("🗒 最近の結果"))
	sb.WriteString("\n\n")

	for _, r := range results {
		sb.WriteString(md(fmt.Sprintf("%s  %s  %d / %d (%.0f%%)",
			r.FinishedAt.In(loc).Format("2006-01-02 15:04"),
			formatQuizMode(r.Mode),
			r.Score, r.Total, r.Accuracy()*100)))
		sb.WriteString("\n")
	}

	return sb.String()
}
