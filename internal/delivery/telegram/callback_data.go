package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionQuiz  = "quiz"
	actionMode  = "mode"
	actionStudy = "study"
	actionStats = "stats"
)

// Quiz sub-actions.
const (
	quizAnswer  = "answer"
	quizNext    = "next"
	quizGiveUp  = "giveup"
	quizRestart = "restart"
	quizReset   = "reset"
)

// Study sub-actions.
const (
	studyChange = "change"
	studyReset  = "reset"
	studyStop   = "stop"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildQuizAnswerCallback encodes an option by position; option texts may
// exceed the 64 byte callback limit.
func buildQuizAnswerCallback(questionNum, optionIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizAnswer, strconv.Itoa(questionNum), strconv.Itoa(optionIndex)},
	}.encode()
}

// parseQuizAnswer returns the question number and option index of an answer callback.
func parseQuizAnswer(cd callbackData) (questionNum, optionIndex int, ok bool) {
	if cd.Action != actionQuiz || cd.param(0) != quizAnswer || len(cd.Params) != 3 {
		return 0, 0, false
	}

	num, err1 := strconv.Atoi(cd.Params[1])
	idx, err2 := strconv.Atoi(cd.Params[2])
	if err1 != nil || err2 != nil || num < 1 || idx < 0 {
		return 0, 0, false
	}
	return num, idx, true
}

func buildQuizCallback(sub string) string {
	return callbackData{Action: actionQuiz, Params: []string{sub}}.encode()
}

func buildModeCallback(mode entities.QuizMode) string {
	return callbackData{Action: actionMode, Params: []string{string(mode)}}.encode()
}

func buildStudyCallback(sub string) string {
	return callbackData{Action: actionStudy, Params: []string{sub}}.encode()
}

func buildStatsCallback() string {
	return actionStats
}
