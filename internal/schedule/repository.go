package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCaregiverNotFound   = errors.New("caregiver not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrStaleRecord means an optimistic update matched no row: the record
	// changed (or disappeared) between read and write.
	ErrStaleRecord = errors.New("record was modified concurrently")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	ListCaregivers(ctx context.Context) ([]Caregiver, error)
	GetCaregiverByID(ctx context.Context, id uuid.UUID) (*Caregiver, error)
	CreateCaregiver(ctx context.Context, c *Caregiver) (*Caregiver, error)
	UpdateCaregiver(ctx context.Context, c *Caregiver) (*Caregiver, error)
	// DeleteCaregiverCascade removes the caregiver with their assignments and
	// appointments in one transaction.
	DeleteCaregiverCascade(ctx context.Context, id uuid.UUID) error

	ListPatients(ctx context.Context) ([]Patient, error)
	ListPatientsByCaregiver(ctx context.Context, caregiverID uuid.UUID) ([]Patient, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	CreatePatient(ctx context.Context, p *Patient) (*Patient, error)
	UpdatePatient(ctx context.Context, p *Patient) (*Patient, error)
	DeletePatientCascade(ctx context.Context, id uuid.UUID) error

	ListAssignments(ctx context.Context) ([]AssignmentDetail, error)
	GetAssignmentByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	CreateAssignment(ctx context.Context, a *Assignment) (*Assignment, error)
	// UpdateAssignment writes conditionally on the UpdatedAt the caller read;
	// a miss returns ErrStaleRecord.
	UpdateAssignment(ctx context.Context, a *Assignment) (*Assignment, error)
	// DeleteAssignmentCascade removes the assignment and the appointments of
	// its caregiver/patient pair.
	DeleteAssignmentCascade(ctx context.Context, id uuid.UUID) error
	AssignmentExists(ctx context.Context, id uuid.UUID) (bool, error)

	// Conflict checks
	PatientAssignedDuring(ctx context.Context, patientID uuid.UUID, start, end time.Time) (bool, error)
	PatientAssignedElsewhereDuring(ctx context.Context, patientID, caregiverID, excludeID uuid.UUID, start, end time.Time) (bool, error)
	PatientAssignedToCaregiver(ctx context.Context, caregiverID, patientID uuid.UUID) (bool, error)
	OverlappingAppointments(ctx context.Context, caregiverID uuid.UUID, date, clock string) (bool, error)

	ListAppointmentsByCaregiver(ctx context.Context, caregiverID uuid.UUID) ([]AppointmentDetail, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	UpdateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	AppointmentExists(ctx context.Context, id uuid.UUID) (bool, error)
}
