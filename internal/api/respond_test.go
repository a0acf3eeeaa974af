package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"caregiver not found", schedule.ErrCaregiverNotFound, http.StatusNotFound, "caregiver_not_found"},
		{"patient not found", schedule.ErrPatientNotFound, http.StatusNotFound, "patient_not_found"},
		{"assignment not found", schedule.ErrAssignmentNotFound, http.StatusNotFound, "assignment_not_found"},
		{"appointment not found", schedule.ErrAppointmentNotFound, http.StatusNotFound, "appointment_not_found"},
		{"caregiver immutable", schedule.ErrCaregiverImmutable, http.StatusBadRequest, "caregiver_immutable"},
		{"concurrent modification", schedule.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
		{"booking contended", schedule.ErrBookingContended, http.StatusConflict, "booking_contended"},
		{"unknown error", errors.New("pool exhausted"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Error)
		})
	}
}

func TestHandleServiceError_WrappedErrorsStillMap(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, errors.Join(errors.New("update assignment"), schedule.ErrConcurrentModification))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleServiceError_ValidationCarriesEveryViolation(t *testing.T) {
	verr := &schedule.ValidationError{Violations: []schedule.Violation{
		{Field: "caregiver_id", Message: "Nora Quinn is only available Monday Morning (9am-12pm)."},
		{Field: "patient_id", Message: "Patient is already assigned to another caregiver during this time."},
	}}

	rec := httptest.NewRecorder()
	handleServiceError(rec, verr)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Error)
	require.Len(t, body.Violations, 2)
	assert.Equal(t, "caregiver_id", body.Violations[0].Field)
	assert.Equal(t, "patient_id", body.Violations[1].Field)
}
