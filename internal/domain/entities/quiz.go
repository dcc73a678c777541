package entities

import "time"

// QuizMode selects how questions are asked and graded.
type QuizMode string

const (
	// ModeTextInput shows a capital and expects the prefecture name typed in.
	ModeTextInput QuizMode = "text_input"
	// ModeCapitalChoice shows a prefecture and offers four capitals.
	ModeCapitalChoice QuizMode = "mc_capital"
	// ModeMapChoice shows the capital on a map and offers four prefectures.
	ModeMapChoice QuizMode = "mc_map"
)

// QuizModes lists the supported modes in menu order.
var QuizModes = []QuizMode{ModeMapChoice, ModeCapitalChoice, ModeTextInput}

// Valid reports whether m is a known mode.
func (m QuizMode) Valid() bool {
	switch m {
	case ModeTextInput, ModeCapitalChoice, ModeMapChoice:
		return true
	}
	return false
}

// MultipleChoice reports whether the mode offers a fixed set of options.
func (m QuizMode) MultipleChoice() bool {
	return m == ModeCapitalChoice || m == ModeMapChoice
}

// AnswerRecord is written once when a question is submitted and never changed afterwards.
type AnswerRecord struct {
	UserAnswer    string  // what the user typed or selected
	CorrectAnswer string  // expected answer for the mode
	IsCorrect     bool    // grading result
	Prefecture    string  // prefecture of the question
	Capital       string  // capital of the question
	Lat           float64 // capital latitude
	Lon           float64 // capital longitude
}

// AnswerStatus is the outcome of a single question in a summary.
type AnswerStatus string

const (
	StatusCorrect    AnswerStatus = "correct"
	StatusWrong      AnswerStatus = "wrong"
	StatusUnanswered AnswerStatus = "unanswered"
)

// QuizResult is a finished quiz as it is stored in the history.
type QuizResult struct {
	ID         int64
	ChatID     int64
	Mode       QuizMode
	Score      int
	Total      int
	StartedAt  time.Time
	FinishedAt time.Time
	Answers    []*AnswerRecord // nil entries are unanswered questions
}

// Accuracy returns Score/Total, or 0 for an empty result.
func (r *QuizResult) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}

// PrefectureStat aggregates answers for one prefecture across stored results.
type PrefectureStat struct {
	Prefecture string
	Attempts   int
	Corrects   int
}

// Accuracy returns Corrects/Attempts, or 0 when the prefecture was never asked.
func (s PrefectureStat) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Corrects) / float64(s.Attempts)
}
