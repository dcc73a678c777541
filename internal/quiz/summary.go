package quiz

import (
	"time"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
)

// Result is one line of a summary.
type Result struct {
	Number     int
	Prefecture entities.Prefecture
	Status     entities.AnswerStatus
	Record     *entities.AnswerRecord // nil when unanswered
}

// Summary is the read-only outcome of a session.
type Summary struct {
	Mode     entities.QuizMode
	Score    int
	Total    int
	Accuracy float64
	Finished bool
	Results  []Result
}

// Summary reports the score and the status of every question.
func (s *Session) Summary() Summary {
	sum := Summary{
		Mode:     s.mode,
		Score:    s.score,
		Total:    len(s.questions),
		Finished: s.Finished(),
		Results:  make([]Result, 0, len(s.questions)),
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(s.score) / float64(sum.Total)
	}

	for i, p := range s.questions {
		r := Result{Number: i + 1, Prefecture: p, Status: entities.StatusUnanswered}
		if rec := s.answers[i]; rec != nil {
			cp := *rec
			r.Record = &cp
			r.Status = entities.StatusWrong
			if rec.IsCorrect {
				r.Status = entities.StatusCorrect
			}
		}
		sum.Results = append(sum.Results, r)
	}

	return sum
}

// Result converts the session into a history record finished at finishedAt.
func (s *Session) Result(chatID int64, finishedAt time.Time) *entities.QuizResult {
	answers := make([]*entities.AnswerRecord, len(s.answers))
	for i, rec := range s.answers {
		if rec != nil {
			cp := *rec
			answers[i] = &cp
		}
	}

	return &entities.QuizResult{
		ChatID:     chatID,
		Mode:       s.mode,
		Score:      s.score,
		Total:      len(s.questions),
		StartedAt:  s.startedAt,
		FinishedAt: finishedAt,
		Answers:    answers,
	}
}
