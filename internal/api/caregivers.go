package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

func listCaregiversHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caregivers, err := svc.ListCaregivers(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]CaregiverResponse, 0, len(caregivers))
		for i := range caregivers {
			resp = append(resp, toCaregiverResponse(&caregivers[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getCaregiverHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		caregiver, err := svc.GetCaregiver(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCaregiverResponse(caregiver))
	}
}

func createCaregiverHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CaregiverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "name is required")
			return
		}

		caregiver, err := svc.CreateCaregiver(r.Context(), &schedule.Caregiver{
			Name:           req.Name,
			Contact:        req.Contact,
			Qualifications: req.Qualifications,
			Availability:   req.Availability,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCaregiverResponse(caregiver))
	}
}

func updateCaregiverHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req CaregiverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		caregiver, err := svc.UpdateCaregiver(r.Context(), &schedule.Caregiver{
			ID:             id,
			Name:           req.Name,
			Contact:        req.Contact,
			Qualifications: req.Qualifications,
			Availability:   req.Availability,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCaregiverResponse(caregiver))
	}
}

func deleteCaregiverHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteCaregiver(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID parses the {id} URL parameter, writing the error response itself.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
