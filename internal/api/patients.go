package api

import (
	"encoding/json"
	"net/http"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

func listPatientsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.ListPatients(r.Context())
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

func getPatientHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		patient, err := svc.GetPatient(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(patient))
	}
}

func createPatientHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "name is required")
			return
		}

		patient, err := svc.CreatePatient(r.Context(), &schedule.Patient{
			Name:           req.Name,
			Address:        req.Address,
			MedicalRecords: req.MedicalRecords,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(patient))
	}
}

func updatePatientHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patient, err := svc.UpdatePatient(r.Context(), &schedule.Patient{
			ID:             id,
			Name:           req.Name,
			Address:        req.Address,
			MedicalRecords: req.MedicalRecords,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(patient))
	}
}

func deletePatientHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := svc.DeletePatient(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
