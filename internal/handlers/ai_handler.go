package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
)

// Translator fills in native-script profile fields
type Translator interface {
	NativeDetails(ctx context.Context, m models.FamilyMember, lang string) (extract.NativeDetails, error)
	Translate(ctx context.Context, text, lang string) string
}

// AIHandler exposes the translation helpers used by the member form
type AIHandler struct {
	ai     Translator
	logger *zap.SugaredLogger
}

// NewAIHandler creates a new AI handler. A nil translator answers every
// request with 503.
func NewAIHandler(ai Translator, logger *zap.SugaredLogger) *AIHandler {
	return &AIHandler{ai: ai, logger: logger}
}

type nativeDetailsRequest struct {
	Member   models.FamilyMember `json:"member"`
	Language string              `json:"language"`
}

type nativeDetailsResponse struct {
	Details extract.NativeDetails `json:"details"`
	Member  models.FamilyMember   `json:"member"`
}

type translateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// NativeDetails translates a member's English fields and returns the
// member with the native fields filled in. Nothing is saved.
func (h *AIHandler) NativeDetails(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	var req nativeDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = "Gujarati"
	}

	details, err := h.ai.NativeDetails(r.Context(), req.Member, req.Language)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, nativeDetailsResponse{
		Details: details,
		Member:  extract.ApplyNativeDetails(req.Member, details),
	})
}

// Translate renders free text in another language, returning the input
// unchanged when translation fails
func (h *AIHandler) Translate(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		respondWithMessage(w, http.StatusServiceUnavailable, ErrAIUnavailable)
		return
	}
	var req translateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, translateRequest{
		Text:     h.ai.Translate(r.Context(), req.Text, req.Language),
		Language: req.Language,
	})
}
