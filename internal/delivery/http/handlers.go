package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/geo"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/quiz"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/repository"
	"github.com/aliskhannn/todofuken-quiz-bot/internal/storage"
)

type Handler struct {
	quizService QuizService
	prefectures PrefectureRepository
	regions     RegionRepository
	logger      *zap.Logger
}

func NewHandler(
	quizService QuizService,
	prefectures PrefectureRepository,
	regions RegionRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		quizService: quizService,
		prefectures: prefectures,
		regions:     regions,
		logger:      logger,
	}
}

func (h *Handler) ListPrefectures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.prefectures.GetAll())
}

// RegionExtent returns the centroid and bounding box of a region dataset.
func (h *Handler) RegionExtent(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")

	fc, err := h.regions.Get(region)
	if err != nil {
		h.writeError(w, err)
		return
	}

	lat, lon, err := geo.Centroid(fc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	bbox, err := geo.BoundingBox(fc)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extentResponse{Region: region, Lat: lat, Lon: lon, BBox: bbox})
}

func (h *Handler) SessionView(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.quizService.View(chatID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SelectFeature answers the current question with the feature picked on the map.
func (h *Handler) SelectFeature(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "invalid request body"))
		return
	}

	fb, err := h.quizService.Submit(r.Context(), chatID, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackResponse(fb))
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	step, err := h.quizService.Next(r.Context(), chatID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var resp stepResponse
	if step.Question != nil {
		resp.Question = toQuestionResponse(*step.Question)
	}
	if step.Summary != nil {
		resp.Summary = toSummaryResponse(*step.Summary)
	}
	writeJSON(w, http.StatusOK, resp)
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "invalid chat id"))
		return 0, false
	}
	return chatID, true
}

// errorStatuses maps domain errors to HTTP statuses, first match wins.
var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{quiz.ErrInvalidTransition, http.StatusConflict, "CONFLICT"},
	{storage.ErrSessionNotFound, http.StatusNotFound, "NOT_FOUND"},
	{repository.ErrRegionNotFound, http.StatusNotFound, "NOT_FOUND"},
	{repository.ErrInvalidRegion, http.StatusBadRequest, "VALIDATION_ERROR"},
	{geo.ErrInvalidInput, http.StatusUnprocessableEntity, "INVALID_GEOMETRY"},
	{geo.ErrMissingGeometry, http.StatusUnprocessableEntity, "INVALID_GEOMETRY"},
	{geo.ErrUnsupportedGeometry, http.StatusUnprocessableEntity, "INVALID_GEOMETRY"},
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			writeJSON(w, es.status, errorResp(es.code, err.Error()))
			return
		}
	}

	h.logger.Error("http handler error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "internal error"))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string) errorResponse {
	return errorResponse{Error: apiError{Code: code, Message: message}}
}
