package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

// actingCaregiver reads the caller's caregiver identity. Authentication is
// handled upstream; the proxy forwards the resolved id in this header.
func actingCaregiver(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get("X-Caregiver-ID")
	if raw == "" {
		writeError(w, http.StatusUnauthorized, "missing_caregiver", "X-Caregiver-ID header is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_caregiver", "X-Caregiver-ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func listAppointmentsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caregiverID, ok := actingCaregiver(w, r)
		if !ok {
			return
		}

		appointments, err := svc.ListAppointmentsForCaregiver(r.Context(), caregiverID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appointments))
		for _, a := range appointments {
			item := toAppointmentResponse(&a.Appointment)
			item.CaregiverName = a.CaregiverName
			item.PatientName = a.PatientName
			resp = append(resp, item)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		appointment, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appointment))
	}
}

func createAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caregiverID, ok := actingCaregiver(w, r)
		if !ok {
			return
		}
		in, ok := decodeAppointmentInput(w, r)
		if !ok {
			return
		}

		appointment, err := svc.CreateAppointment(r.Context(), caregiverID, in)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(appointment))
	}
}

func updateAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caregiverID, ok := actingCaregiver(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		in, ok := decodeAppointmentInput(w, r)
		if !ok {
			return
		}

		appointment, err := svc.UpdateAppointment(r.Context(), caregiverID, id, in)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appointment))
	}
}

func deleteAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteAppointment(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listAssignedPatientsHandler returns the patients the acting caregiver may
// book appointments with.
func listAssignedPatientsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caregiverID, ok := actingCaregiver(w, r)
		if !ok {
			return
		}

		patients, err := svc.ListPatientsForCaregiver(r.Context(), caregiverID)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for i := range patients {
			resp = append(resp, toPatientResponse(&patients[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func decodeAppointmentInput(w http.ResponseWriter, r *http.Request) (schedule.AppointmentInput, bool) {
	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return schedule.AppointmentInput{}, false
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return schedule.AppointmentInput{}, false
	}
	if req.Date == "" || req.Time == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "date, time, and status are required")
		return schedule.AppointmentInput{}, false
	}

	return schedule.AppointmentInput{
		PatientID: patientID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    req.Status,
	}, true
}
