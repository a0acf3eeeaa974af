package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActingCaregiver(t *testing.T) {
	t.Run("missing header is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)

		_, ok := actingCaregiver(rec, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is a bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		req.Header.Set("X-Caregiver-ID", "not-a-uuid")

		_, ok := actingCaregiver(rec, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid header passes through", func(t *testing.T) {
		want := uuid.New()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		req.Header.Set("X-Caregiver-ID", want.String())

		got, ok := actingCaregiver(rec, req)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}

func TestDecodeAppointmentInput(t *testing.T) {
	patientID := uuid.New()

	t.Run("valid body", func(t *testing.T) {
		body := `{"patient_id":"` + patientID.String() + `","date":"2026-01-05","time":"10:00","status":"Scheduled"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))

		in, ok := decodeAppointmentInput(rec, req)
		require.True(t, ok)
		assert.Equal(t, patientID, in.PatientID)
		assert.Equal(t, "2026-01-05", in.Date)
		assert.Equal(t, "10:00", in.Time)
		assert.Equal(t, "Scheduled", in.Status)
	})

	t.Run("garbage body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{"))

		_, ok := decodeAppointmentInput(rec, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad patient id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments",
			strings.NewReader(`{"patient_id":"nope","date":"2026-01-05","time":"10:00","status":"Scheduled"}`))

		_, ok := decodeAppointmentInput(rec, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing slot fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/appointments",
			strings.NewReader(`{"patient_id":"`+patientID.String()+`","date":"","time":"10:00","status":"Scheduled"}`))

		_, ok := decodeAppointmentInput(rec, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDecodeAssignmentInput(t *testing.T) {
	caregiverID := uuid.New()
	patientID := uuid.New()

	t.Run("valid body with mixed timestamp forms", func(t *testing.T) {
		body := `{"caregiver_id":"` + caregiverID.String() + `","patient_id":"` + patientID.String() +
			`","start_date":"2026-01-05T10:00","end_date":"2026-01-12"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader(body))

		in, ok := decodeAssignmentInput(rec, req)
		require.True(t, ok)
		assert.Equal(t, caregiverID, in.CaregiverID)
		assert.Equal(t, patientID, in.PatientID)
		assert.Equal(t, 10, in.StartDate.Hour())
		assert.Equal(t, 0, in.EndDate.Hour())
	})

	t.Run("unparsable end date", func(t *testing.T) {
		body := `{"caregiver_id":"` + caregiverID.String() + `","patient_id":"` + patientID.String() +
			`","start_date":"2026-01-05","end_date":"next friday"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/assignments", strings.NewReader(body))

		_, ok := decodeAssignmentInput(rec, req)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
