// Package metrics holds the Prometheus collectors of the bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuizzesStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "todofuken_quizzes_started_total",
		Help: "Quiz sessions started by mode",
	}, []string{"mode"})
	QuizzesFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "todofuken_quizzes_finished_total",
		Help: "Quiz sessions that reached the last question by mode",
	}, []string{"mode"})
	AnswersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "todofuken_answers_total",
		Help: "Graded quiz answers by mode and result",
	}, []string{"mode", "result"})
	QuizScore = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todofuken_quiz_accuracy",
		Help:    "Accuracy of finished quizzes",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	}, []string{"mode"})
	StudyAnswersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "todofuken_study_answers_total",
		Help: "Study drill answers by result",
	}, []string{"result"})
	SessionsEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "todofuken_sessions_evicted_total",
		Help: "Idle sessions dropped by the sweeper",
	})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todofuken_http_request_duration_ms",
		Help:    "HTTP API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(QuizzesStarted)
	prometheus.MustRegister(QuizzesFinished)
	prometheus.MustRegister(AnswersTotal)
	prometheus.MustRegister(QuizScore)
	prometheus.MustRegister(StudyAnswersTotal)
	prometheus.MustRegister(SessionsEvicted)
	prometheus.MustRegister(HTTPRequestDurationMs)
}

// Result is the label value for a graded answer.
func Result(correct bool) string {
	if correct {
		return "correct"
	}
	return "wrong"
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
