package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type ValidationResponse struct {
	Error      string               `json:"error"`
	Violations []schedule.Violation `json:"violations"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// handleServiceError maps domain errors onto HTTP statuses. Validation
// failures carry every collected violation so the client can show them all.
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *schedule.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Error:      "validation_failed",
			Violations: verr.Violations,
		})
	case errors.Is(err, schedule.ErrCaregiverNotFound):
		writeError(w, http.StatusNotFound, "caregiver_not_found", err.Error())
	case errors.Is(err, schedule.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		writeError(w, http.StatusNotFound, "assignment_not_found", err.Error())
	case errors.Is(err, schedule.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrCaregiverImmutable):
		writeError(w, http.StatusBadRequest, "caregiver_immutable", err.Error())
	case errors.Is(err, schedule.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "concurrent_modification", err.Error())
	case errors.Is(err, schedule.ErrBookingContended):
		writeError(w, http.StatusConflict, "booking_contended", "caregiver schedule is being updated, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
