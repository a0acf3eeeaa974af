package schedule

import (
	"time"

	"github.com/google/uuid"
)

type Caregiver struct {
	ID             uuid.UUID
	Name           string
	Contact        string
	Qualifications string
	// Availability holds the raw slot name, e.g. "MondayMorning". It is kept
	// as a string so legacy values that no longer parse still load; they just
	// never match any booking.
	Availability string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Patient struct {
	ID      uuid.UUID
	Name    string
	Address string
	// MedicalRecords is ciphertext; encryption lives outside this service.
	MedicalRecords string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assignment ties a caregiver to a patient over a date range. Bounds are
// naive local timestamps and overlap comparisons are inclusive on both ends.
type Assignment struct {
	ID          uuid.UUID
	CaregiverID uuid.UUID
	PatientID   uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Appointment is a single visit at one date and clock time. Date ("2006-01-02")
// and Time ("15:04") stay as strings because double-booking detection compares
// them for exact equality, not as parsed instants.
type Appointment struct {
	ID          uuid.UUID
	CaregiverID uuid.UUID
	PatientID   uuid.UUID
	Date        string
	Time        string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignmentDetail carries the joined names the notification messages and
// list views need.
type AssignmentDetail struct {
	Assignment
	CaregiverName string
	PatientName   string
}

// AppointmentDetail is an appointment with its joined names.
type AppointmentDetail struct {
	Appointment
	CaregiverName string
	PatientName   string
}
