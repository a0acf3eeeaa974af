package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

type CaregiverRequest struct {
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	Qualifications string `json:"qualifications"`
	Availability   string `json:"availability"`
}

type CaregiverResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Contact             string    `json:"contact"`
	Qualifications      string    `json:"qualifications"`
	Availability        string    `json:"availability"`
	AvailabilityDisplay string    `json:"availability_display"`
}

func toCaregiverResponse(c *schedule.Caregiver) CaregiverResponse {
	return CaregiverResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Contact:             c.Contact,
		Qualifications:      c.Qualifications,
		Availability:        c.Availability,
		AvailabilityDisplay: schedule.SlotDisplay(c.Availability),
	}
}

type PatientRequest struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	MedicalRecords string `json:"medical_records"`
}

type PatientResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

func toPatientResponse(p *schedule.Patient) PatientResponse {
	return PatientResponse{ID: p.ID, Name: p.Name, Address: p.Address}
}

type AssignmentRequest struct {
	CaregiverID string `json:"caregiver_id"`
	PatientID   string `json:"patient_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type AssignmentResponse struct {
	ID            uuid.UUID `json:"id"`
	CaregiverID   uuid.UUID `json:"caregiver_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CaregiverName string    `json:"caregiver_name,omitempty"`
	PatientName   string    `json:"patient_name,omitempty"`
}

func toAssignmentResponse(a *schedule.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          a.ID,
		CaregiverID: a.CaregiverID,
		PatientID:   a.PatientID,
		StartDate:   a.StartDate,
		EndDate:     a.EndDate,
	}
}

type AppointmentRequest struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
}

type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	CaregiverID   uuid.UUID `json:"caregiver_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	CaregiverName string    `json:"caregiver_name,omitempty"`
	PatientName   string    `json:"patient_name,omitempty"`
}

func toAppointmentResponse(a *schedule.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		CaregiverID: a.CaregiverID,
		PatientID:   a.PatientID,
		Date:        a.Date,
		Time:        a.Time,
		Status:      a.Status,
	}
}

var naiveTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseNaiveTime accepts the date-and-optional-time forms the scheduler works
// in. Timestamps are naive local times; no timezone handling.
func parseNaiveTime(s string) (time.Time, error) {
	for _, layout := range naiveTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
