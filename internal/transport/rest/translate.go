package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

// statusClientClosedRequest is the nginx convention for a client that went
// away before the response was ready.
const statusClientClosedRequest = 499

// translationService defines the minimal interface needed by TranslateHandler.
type translationService interface {
	GenerateTranslationWithTokens(ctx context.Context, req translation.Request) (domain.TranslationWithTokens, error)
}

// TranslateHandler serves the translation endpoint.
type TranslateHandler struct {
	svc          translationService
	log          *slog.Logger
	maxBodyBytes int64
}

// NewTranslateHandler creates a TranslateHandler. Request bodies larger
// than maxBodyBytes are rejected with 413.
func NewTranslateHandler(svc translationService, logger *slog.Logger, maxBodyBytes int64) *TranslateHandler {
	return &TranslateHandler{
		svc:          svc,
		log:          logger.With("handler", "translate"),
		maxBodyBytes: maxBodyBytes,
	}
}

type translateRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   *int     `json:"maxTokens"`
	Temperature *float64 `json:"temperature"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// writeBodyError reports a body that failed to decode. err is nil when a
// second JSON value follows the first.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

// Translate handles POST /api/translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req translateRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		writeBodyError(w, err)
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeBodyError(w, err)
		return
	}

	result, err := h.svc.GenerateTranslationWithTokens(r.Context(), translation.Request{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TranslateHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: verr.Messages()})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.log.WarnContext(r.Context(), "translation timed out", slog.String("error", err.Error()))
		writeError(w, http.StatusGatewayTimeout, "translation provider timed out")
	case errors.Is(err, context.Canceled):
		writeError(w, statusClientClosedRequest, "request canceled")
	case errors.Is(err, domain.ErrProvider):
		h.log.ErrorContext(r.Context(), "translation provider failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "translation provider failed")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
