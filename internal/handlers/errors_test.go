package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/extract"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
	"github.com/umehtaji1981-tech/samaj-setu/internal/validation"
)

func TestRespondWithErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation list", validation.Errors{{Field: "dob", Message: "bad"}}, http.StatusBadRequest},
		{"single validation", validation.ValidationError{Field: "mobile", Message: "bad"}, http.StatusBadRequest},
		{"duplicate", &dedup.DuplicateRecordError{Field: dedup.FieldMobile}, http.StatusConflict},
		{"member not found", service.ErrMemberNotFound, http.StatusNotFound},
		{"family not found", fmt.Errorf("wrapped: %w", service.ErrFamilyNotFound), http.StatusNotFound},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unrecoverable", extract.ErrUnrecoverableResponse, http.StatusUnprocessableEntity},
		{"external", &extract.ExternalServiceError{Op: "generate", Err: errors.New("503")}, http.StatusBadGateway},
		{"bad document", fmt.Errorf("%w: not a zip", extract.ErrInvalidDocument), http.StatusBadRequest},
		{"nothing staged", service.ErrNothingStaged, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithError(recorder, zap.NewNop().Sugar(), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			var body Response
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Errors)
		})
	}
}

func TestRespondWithErrorDuplicateCarriesConflict(t *testing.T) {
	recorder := httptest.NewRecorder()
	err := &dedup.DuplicateRecordError{
		Field:    dedup.FieldNameDOB,
		Conflict: models.FamilyMember{ID: "m1", FullName: "Ramesh Shah"},
	}

	respondWithError(recorder, zap.NewNop().Sugar(), err)

	var body Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "name+dob", body.Errors[0].Field)
	require.NotNil(t, body.Errors[0].Conflict)
	assert.Equal(t, "m1", body.Errors[0].Conflict.ID)
}

func TestRespondWithErrorLogsUnexpected(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zap.New(core).Sugar(), errors.New("boom"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Request failed", entry.Message)
	assert.Contains(t, fmt.Sprint(entry.ContextMap()["error"]), "boom")
	assert.NotContains(t, recorder.Body.String(), "boom")
}
