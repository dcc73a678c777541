// Package http serves the map view of running quizzes to browser map clients.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/metrics"
)

// NewRouter mounts the API. Session routes need a token from tokens issued
// for the same chat.
func NewRouter(h *Handler, tokens TokenParser, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(requestDuration)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/prefectures", h.ListPrefectures)
		r.Get("/regions/{region}/extent", h.RegionExtent)

		r.Route("/sessions/{chatID}", func(r chi.Router) {
			r.Use(requireChatToken(tokens))
			r.Get("/view", h.SessionView)
			r.Post("/select", h.SelectFeature)
			r.Post("/next", h.NextQuestion)
		})
	})

	return r
}
