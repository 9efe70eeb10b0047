package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
	"github.com/umehtaji1981-tech/samaj-setu/internal/validation"
)

// Response is the envelope of every JSON reply
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Errors  []APIError `json:"errors,omitempty"`
}

// APIError describes one problem with a request
type APIError struct {
	Field    string               `json:"field,omitempty"`
	Message  string               `json:"message"`
	Conflict *models.FamilyMember `json:"conflict,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func respondWithMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Errors: []APIError{{Message: msg}}})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondWithError maps err onto a status code and error list. Anything
// unexpected is logged and reported as a 500 without details.
func respondWithError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	status, apiErrors := classify(err)
	if status == http.StatusInternalServerError {
		logger.Errorw("Request failed", "error", err)
	} else if status == http.StatusBadGateway {
		logger.Warnw("AI service failed", "error", err)
	}
	writeJSON(w, status, Response{Errors: apiErrors})
}

func classify(err error) (int, []APIError) {
	var dup *dedup.DuplicateRecordError
	var ext *extract.ExternalServiceError

	if fields, ok := validation.AsErrors(err); ok {
		out := make([]APIError, len(fields))
		for i, f := range fields {
			out[i] = APIError{Field: f.Field, Message: f.Message}
		}
		return http.StatusBadRequest, out
	}

	switch {
	case errors.As(err, &dup):
		conflict := dup.Conflict
		return http.StatusConflict, []APIError{{Field: string(dup.Field), Message: dup.Error(), Conflict: &conflict}}
	case errors.Is(err, service.ErrMemberNotFound), errors.Is(err, service.ErrFamilyNotFound):
		return http.StatusNotFound, []APIError{{Message: err.Error()}}
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, []APIError{{Message: err.Error()}}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, []APIError{{Message: ErrForbidden}}
	case errors.Is(err, service.ErrNothingStaged), errors.Is(err, service.ErrInvalidBackup), errors.Is(err, extract.ErrInvalidDocument):
		return http.StatusBadRequest, []APIError{{Message: err.Error()}}
	case errors.Is(err, extract.ErrUnrecoverableResponse):
		return http.StatusUnprocessableEntity, []APIError{{Message: err.Error()}}
	case errors.As(err, &ext):
		return http.StatusBadGateway, []APIError{{Message: "The AI service is unavailable, please try again shortly"}}
	case errors.Is(err, service.ErrSnapshotsDisabled):
		return http.StatusServiceUnavailable, []APIError{{Message: err.Error()}}
	}
	return http.StatusInternalServerError, []APIError{{Message: ErrInternalServerError}}
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithMessage(w, http.StatusBadRequest, ErrInvalidJSON)
		return false
	}
	return true
}
