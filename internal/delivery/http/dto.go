package http

import (
	"github.com/aliskhannn/todofuken-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/service"
)

type errorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type selectRequest struct {
	Name string `json:"name"`
}

type extentResponse struct {
	Region string     `json:"region"`
	Lat    float64    `json:"lat"`
	Lon    float64    `json:"lon"`
	BBox   [4]float64 `json:"bbox"` // [min_lon, min_lat, max_lon, max_lat]
}

type feedbackResponse struct {
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Number        int    `json:"number"`
	Total         int    `json:"total"`
	Score         int    `json:"score"`
	Last          bool   `json:"last"`
}

// questionResponse leaves out the prefecture of the question; it is the answer.
type questionResponse struct {
	Number  int               `json:"number"`
	Total   int               `json:"total"`
	Mode    entities.QuizMode `json:"mode"`
	Prompt  string            `json:"prompt,omitempty"`
	Options []string          `json:"options,omitempty"`
	View    entities.MapView  `json:"view"`
}

type resultResponse struct {
	Number        int                   `json:"number"`
	Prefecture    string                `json:"prefecture"`
	Capital       string                `json:"capital"`
	Status        entities.AnswerStatus `json:"status"`
	UserAnswer    string                `json:"user_answer,omitempty"`
	CorrectAnswer string                `json:"correct_answer,omitempty"`
}

type summaryResponse struct {
	Mode     entities.QuizMode `json:"mode"`
	Score    int               `json:"score"`
	Total    int               `json:"total"`
	Accuracy float64           `json:"accuracy"`
	Finished bool              `json:"finished"`
	Results  []resultResponse  `json:"results"`
}

type stepResponse struct {
	Question *questionResponse `json:"question,omitempty"`
	Summary  *summaryResponse  `json:"summary,omitempty"`
}

func toFeedbackResponse(fb service.Feedback) feedbackResponse {
	return feedbackResponse{
		UserAnswer:    fb.Record.UserAnswer,
		CorrectAnswer: fb.Record.CorrectAnswer,
		IsCorrect:     fb.Record.IsCorrect,
		Number:        fb.Number,
		Total:         fb.Total,
		Score:         fb.Score,
		Last:          fb.Last,
	}
}

func toQuestionResponse(q quiz.Question) *questionResponse {
	return &questionResponse{
		Number:  q.Number,
		Total:   q.Total,
		Mode:    q.Mode,
		Prompt:  q.Prompt,
		Options: q.Options,
		View:    q.View,
	}
}

func toSummaryResponse(sum quiz.Summary) *summaryResponse {
	resp := &summaryResponse{
		Mode:     sum.Mode,
		Score:    sum.Score,
		Total:    sum.Total,
		Accuracy: sum.Accuracy,
		Finished: sum.Finished,
		Results:  make([]resultResponse, 0, len(sum.Results)),
	}
	for _, r := range sum.Results {
		rr := resultResponse{
			Number:     r.Number,
			Prefecture: r.Prefecture.Name,
			Capital:    r.Prefecture.Capital,
			Status:     r.Status,
		}
		if r.Record != nil {
			rr.UserAnswer = r.Record.UserAnswer
			rr.CorrectAnswer = r.Record.CorrectAnswer
		}
		resp.Results = append(resp.Results, rr)
	}
	return resp
}
