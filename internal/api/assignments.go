package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

func listAssignmentsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignments, err := svc.ListAssignments(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]AssignmentResponse, 0, len(assignments))
		for _, a := range assignments {
			item := toAssignmentResponse(&a.Assignment)
			item.CaregiverName = a.CaregiverName
			item.PatientName = a.PatientName
			resp = append(resp, item)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAssignmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		assignment, err := svc.GetAssignment(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAssignmentResponse(assignment))
	}
}

func createAssignmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeAssignmentInput(w, r)
		if !ok {
			return
		}

		assignment, err := svc.CreateAssignment(r.Context(), in)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAssignmentResponse(assignment))
	}
}

func updateAssignmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		in, ok := decodeAssignmentInput(w, r)
		if !ok {
			return
		}

		assignment, err := svc.UpdateAssignment(r.Context(), id, in)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAssignmentResponse(assignment))
	}
}

func deleteAssignmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteAssignment(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeAssignmentInput(w http.ResponseWriter, r *http.Request) (schedule.AssignmentInput, bool) {
	var req AssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return schedule.AssignmentInput{}, false
	}

	caregiverID, err := uuid.Parse(req.CaregiverID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_caregiver_id", "caregiver_id must be a valid UUID")
		return schedule.AssignmentInput{}, false
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return schedule.AssignmentInput{}, false
	}
	start, err := parseNaiveTime(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_date", err.Error())
		return schedule.AssignmentInput{}, false
	}
	end, err := parseNaiveTime(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_end_date", err.Error())
		return schedule.AssignmentInput{}, false
	}

	return schedule.AssignmentInput{
		CaregiverID: caregiverID,
		PatientID:   patientID,
		StartDate:   start,
		EndDate:     end,
	}, true
}
