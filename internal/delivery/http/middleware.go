package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/auth"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/metrics"
)

// requestDuration observes the latency of every request by route pattern,
// so /sessions/{chatID}/view is one series regardless of the chat.
func requestDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequestDurationMs.
			WithLabelValues(route, strconv.Itoa(status(ww))).
			Observe(float64(time.Since(start).Microseconds()) / 1000)
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status(ww)),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// status treats a handler that never called WriteHeader as 200.
func status(ww chimiddleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

// requireChatToken admits a request only if its Bearer token was issued
// for the chat in the URL.
func requireChatToken(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "missing authorization header"))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || scheme != "Bearer" || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "invalid authorization format"))
				return
			}

			tokenChat, err := tokens.ParseToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					writeJSON(w, http.StatusUnauthorized, errorResp("TOKEN_EXPIRED", "token has expired"))
					return
				}
				writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "invalid token"))
				return
			}

			chatID, ok := chatIDParam(w, r)
			if !ok {
				return
			}
			if chatID != tokenChat {
				writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "token was issued for another chat"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
