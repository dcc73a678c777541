package telegram

import (
	"testing"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

func TestQuizAnswerCallbackRoundTrip(t *testing.T) {
	data := buildQuizAnswerCallback(7, 3)

	num, idx, ok := parseQuizAnswer(decodeCallback(data))
	if !ok || num != 7 || idx != 3 {
		t.Fatalf("parse(%q) = %d, %d, %v", data, num, idx, ok)
	}
}

func TestParseQuizAnswerRejects(t *testing.T) {
	tests := []string{
		"quiz:next",
		"quiz:answer:1",
		"quiz:answer:x:1",
		"quiz:answer:0:1",
		"quiz:answer:1:-1",
		"mode:answer:1:1",
		"",
	}

	for _, data := range tests {
		if _, _, ok := parseQuizAnswer(decodeCallback(data)); ok {
			t.Errorf("parse(%q) accepted", data)
		}
	}
}

func TestCallbackDataFitsLimit(t *testing.T) {
	var all []string
	for _, m := range entities.QuizModes {
		all = append(all, buildModeCallback(m))
	}
	all = append(all,
		buildQuizAnswerCallback(47, 3),
		buildQuizCallback(quizRestart),
		buildStudyCallback(studyChange),
		buildStatsCallback(),
	)

	for _, data := range all {
		if len(data) > 64 {
			t.Errorf("callback %q is %d bytes", data, len(data))
		}
	}
}

func TestDecodeCallback(t *testing.T) {
	cd := decodeCallback("mode:mc_map")
	if cd.Action != actionMode || cd.param(0) != "mc_map" || cd.param(1) != "" {
		t.Errorf("unexpected decode: %+v", cd)
	}
	if cd.encode() != "mode:mc_map" {
		t.Errorf("encode = %q", cd.encode())
	}
}
