package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
)

func TestBuildProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{0, 10, "[░░░░░░░░░░]"},
		{5, 10, "[█████░░░░░]"},
		{10, 10, "[██████████]"},
		{12, 10, "[██████████]"},
		{0, 0, "░░░░░░░░░░"},
	}

	for _, tc := range tests {
		if got := buildProgressBar(tc.current, tc.total, 10); got != tc.want {
			t.Errorf("buildProgressBar(%d, %d) = %q, want %q", tc.current, tc.total, got, tc.want)
		}
	}
}

func TestFormatFeedbackEscapes(t *testing.T) {
	fb := service.Feedback{
		Record: entities.AnswerRecord{UserAnswer: "", CorrectAnswer: "大阪府", IsCorrect: false},
		Number: 3,
		Score:  2,
	}

	got := formatFeedback(fb)
	if !strings.Contains(got, "*大阪府*") {
		t.Errorf("correct answer not bold: %q", got)
	}
	if !strings.Contains(got, "（未回答）") {
		t.Errorf("empty answer not shown as unanswered: %q", got)
	}
	if !strings.Contains(got, "2 / 3") {
		t.Errorf("running score missing: %q", got)
	}
}

func TestFormatResultLine(t *testing.T) {
	pref := entities.Prefecture{Name: "宮城県", Capital: "仙台市"}

	unanswered := formatResultLine(entities.ModeMapChoice, quiz.Result{
		Number: 1, Prefecture: pref, Status: entities.StatusUnanswered,
	})
	if unanswered != "1. 県庁所在地: 仙台市（未回答）" {
		t.Errorf("unanswered line = %q", unanswered)
	}

	wrong := formatResultLine(entities.ModeCapitalChoice, quiz.Result{
		Number:     2,
		Prefecture: pref,
		Status:     entities.StatusWrong,
		Record:     &entities.AnswerRecord{UserAnswer: "盛岡市", CorrectAnswer: "仙台市"},
	})
	if wrong != "2. 都道府県: 宮城県 → 正解: 仙台市 / あなた: 盛岡市 → ✖️ 不正解" {
		t.Errorf("wrong line = %q", wrong)
	}
}

func TestFormatQuestionModes(t *testing.T) {
	for _, mode := range entities.QuizModes {
		q := quiz.Question{Number: 1, Total: 10, Mode: mode, Prompt: "さいたま市"}
		got := formatQuestion(q)
		if !strings.Contains(got, "1 / 10") {
			t.Errorf("%s: header missing in %q", mode, got)
		}
		if mode != entities.ModeMapChoice && !strings.Contains(got, "さいたま市") {
			t.Errorf("%s: prompt missing in %q", mode, got)
		}
	}
}

func TestFormatHistoryUsesLocation(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	results := []*entities.QuizResult{{
		Mode:       entities.ModeMapChoice,
		Score:      7,
		Total:      10,
		FinishedAt: time.Date(2024, 7, 1, 3, 0, 0, 0, time.UTC),
	}}

	got := formatHistory(results, jst)
	if !strings.Contains(got, "12:00") {
		t.Errorf("time not converted: %q", got)
	}
	if !strings.Contains(got, "7 / 10") {
		t.Errorf("score missing: %q", got)
	}
}
