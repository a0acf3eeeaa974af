package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jklhealth/caregiver-scheduling/internal/notify"
	redisclient "github.com/jklhealth/caregiver-scheduling/internal/redis"
)

var (
	// ErrCaregiverImmutable rejects appointment edits that try to move the
	// appointment to a different caregiver.
	ErrCaregiverImmutable = errors.New("cannot change the caregiver for this appointment")

	// ErrConcurrentModification means an edit raced another writer and the
	// record still exists; the caller should not retry blindly.
	ErrConcurrentModification = errors.New("record was updated by another request")

	// ErrBookingContended means the caregiver's booking lock was held.
	ErrBookingContended = errors.New("caregiver schedule is being updated, please retry")
)

type AssignmentInput struct {
	CaregiverID uuid.UUID
	PatientID   uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
}

type AppointmentInput struct {
	PatientID uuid.UUID
	Date      string
	Time      string
	Status    string
}

// Service applies the scheduling decision policies: every create or edit runs
// the availability check and the conflict checks, collects all violations,
// and persists plus notifies only when none were found.
type Service struct {
	repo     Repository
	locker   redisclient.Locker
	notifier notify.Notifier
	log      zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, notifier notify.Notifier, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		log:      log.With().Str("component", "schedule").Logger(),
	}
}

// Assignments

func (s *Service) CreateAssignment(ctx context.Context, in AssignmentInput) (*Assignment, error) {
	caregiver, err := s.repo.GetCaregiverByID(ctx, in.CaregiverID)
	if err != nil {
		return nil, err
	}
	patient, err := s.repo.GetPatientByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}

	if !AvailableOverRange(caregiver.Availability, in.StartDate, in.EndDate) {
		verr.add("caregiver_id", availabilityMessage(caregiver))
	}

	assigned, err := s.repo.PatientAssignedDuring(ctx, in.PatientID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("check patient assignments: %w", err)
	}
	if assigned {
		verr.add("patient_id", "Patient is already assigned to another caregiver during this time.")
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateAssignment(ctx, &Assignment{
		CaregiverID: in.CaregiverID,
		PatientID:   in.PatientID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.notifyCaregiver(ctx, caregiver.ID, fmt.Sprintf("You have been assigned to %s.", patient.Name))

	return created, nil
}

func (s *Service) UpdateAssignment(ctx context.Context, id uuid.UUID, in AssignmentInput) (*Assignment, error) {
	existing, err := s.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	caregiver, err := s.repo.GetCaregiverByID(ctx, in.CaregiverID)
	if err != nil {
		return nil, err
	}
	patient, err := s.repo.GetPatientByID(ctx, in.PatientID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}

	if !AvailableOverRange(caregiver.Availability, in.StartDate, in.EndDate) {
		verr.add("caregiver_id", availabilityMessage(caregiver))
	}

	// The record being edited is excluded from the scan; keeping the patient
	// with the same caregiver over the same window is not a conflict. Only an
	// overlap against a different caregiver rejects.
	assigned, err := s.repo.PatientAssignedElsewhereDuring(ctx, in.PatientID, in.CaregiverID, id, in.StartDate, in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("check patient assignments: %w", err)
	}
	if assigned {
		verr.add("patient_id", "Patient is already assigned to another caregiver during this time.")
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	// Captured before the write: the notification goes to the caregiver who
	// held the assignment, about the patient it covered.
	priorCaregiverID := existing.CaregiverID
	priorPatientName := patient.Name
	if existing.PatientID != in.PatientID {
		if prior, perr := s.repo.GetPatientByID(ctx, existing.PatientID); perr == nil {
			priorPatientName = prior.Name
		}
	}

	existing.CaregiverID = in.CaregiverID
	existing.PatientID = in.PatientID
	existing.StartDate = in.StartDate
	existing.EndDate = in.EndDate

	updated, err := s.repo.UpdateAssignment(ctx, existing)
	if err != nil {
		if errors.Is(err, ErrStaleRecord) {
			return nil, s.resolveAssignmentRace(ctx, id)
		}
		return nil, fmt.Errorf("update assignment: %w", err)
	}

	s.notifyCaregiver(ctx, priorCaregiverID, fmt.Sprintf("Your assignment with %s has been updated.", priorPatientName))

	return updated, nil
}

func (s *Service) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	assignment, err := s.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}

	patientName := assignment.PatientID.String()
	if patient, perr := s.repo.GetPatientByID(ctx, assignment.PatientID); perr == nil {
		patientName = patient.Name
	}

	if err := s.repo.DeleteAssignmentCascade(ctx, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}

	s.notifyCaregiver(ctx, assignment.CaregiverID, fmt.Sprintf("You are no longer assigned to %s.", patientName))

	return nil
}

func (s *Service) GetAssignment(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	return s.repo.GetAssignmentByID(ctx, id)
}

func (s *Service) ListAssignments(ctx context.Context) ([]AssignmentDetail, error) {
	return s.repo.ListAssignments(ctx)
}

// Appointments. The acting caregiver is explicit on every operation; a
// caregiver may only book against patients they are assigned to, and an edit
// may not move the appointment to another caregiver.

func (s *Service) CreateAppointment(ctx context.Context, caregiverID uuid.UUID, in AppointmentInput) (*Appointment, error) {
	caregiver, err := s.repo.GetCaregiverByID(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	verr := &ValidationError{}

	assigned, err := s.repo.PatientAssignedToCaregiver(ctx, caregiverID, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !assigned {
		verr.add("patient_id", "You are not assigned to this patient.")
	}

	if !AvailableAtClock(caregiver.Availability, in.Date, in.Time) {
		verr.add("caregiver_id", "You are not available at the specified date and time.")
	}

	var created *Appointment

	err = s.locker.WithCaregiverLock(ctx, caregiverID, func(lockCtx context.Context) error {
		overlap, err := s.repo.OverlappingAppointments(lockCtx, caregiverID, in.Date, in.Time)
		if err != nil {
			return fmt.Errorf("check overlapping appointments: %w", err)
		}
		if overlap {
			verr.add("", "You already have an appointment scheduled at this time.")
		}

		if err := verr.orNil(); err != nil {
			return err
		}

		created, err = s.repo.CreateAppointment(lockCtx, &Appointment{
			CaregiverID: caregiverID,
			PatientID:   in.PatientID,
			Date:        in.Date,
			Time:        in.Time,
			Status:      in.Status,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBookingContended
		}
		return nil, err
	}

	return created, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, caregiverID, id uuid.UUID, in AppointmentInput) (*Appointment, error) {
	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CaregiverID != caregiverID {
		return nil, ErrCaregiverImmutable
	}

	caregiver, err := s.repo.GetCaregiverByID(ctx, caregiverID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}

	verr := &ValidationError{}

	assigned, err := s.repo.PatientAssignedToCaregiver(ctx, caregiverID, in.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !assigned {
		verr.add("patient_id", "You are not assigned to this patient.")
	}

	if !AvailableAtClock(caregiver.Availability, in.Date, in.Time) {
		verr.add("caregiver_id", "You are not available at the specified date and time.")
	}

	var updated *Appointment

	err = s.locker.WithCaregiverLock(ctx, caregiverID, func(lockCtx context.Context) error {
		// An edit that keeps the original date and time collides with its own
		// row here. That matches the stored-schedule behavior this service
		// replaces; callers move an appointment, they do not re-save it.
		overlap, err := s.repo.OverlappingAppointments(lockCtx, caregiverID, in.Date, in.Time)
		if err != nil {
			return fmt.Errorf("check overlapping appointments: %w", err)
		}
		if overlap {
			verr.add("", "You already have an appointment scheduled at this time.")
		}

		if err := verr.orNil(); err != nil {
			return err
		}

		existing.PatientID = in.PatientID
		existing.Date = in.Date
		existing.Time = in.Time
		existing.Status = in.Status

		updated, err = s.repo.UpdateAppointment(lockCtx, existing)
		if err != nil {
			if errors.Is(err, ErrStaleRecord) {
				return s.resolveAppointmentRace(lockCtx, id)
			}
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBookingContended
		}
		return nil, err
	}

	return updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAppointment(ctx, id)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

func (s *Service) ListAppointmentsForCaregiver(ctx context.Context, caregiverID uuid.UUID) ([]AppointmentDetail, error) {
	return s.repo.ListAppointmentsByCaregiver(ctx, caregiverID)
}

// Caregivers and patients

func (s *Service) ListCaregivers(ctx context.Context) ([]Caregiver, error) {
	return s.repo.ListCaregivers(ctx)
}

func (s *Service) GetCaregiver(ctx context.Context, id uuid.UUID) (*Caregiver, error) {
	return s.repo.GetCaregiverByID(ctx, id)
}

func (s *Service) CreateCaregiver(ctx context.Context, c *Caregiver) (*Caregiver, error) {
	return s.repo.CreateCaregiver(ctx, c)
}

func (s *Service) UpdateCaregiver(ctx context.Context, c *Caregiver) (*Caregiver, error) {
	return s.repo.UpdateCaregiver(ctx, c)
}

func (s *Service) DeleteCaregiver(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCaregiverCascade(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]Patient, error) {
	return s.repo.ListPatients(ctx)
}

func (s *Service) ListPatientsForCaregiver(ctx context.Context, caregiverID uuid.UUID) ([]Patient, error) {
	return s.repo.ListPatientsByCaregiver(ctx, caregiverID)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	return s.repo.CreatePatient(ctx, p)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	return s.repo.UpdatePatient(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePatientCascade(ctx, id)
}

// Helpers

func availabilityMessage(c *Caregiver) string {
	return fmt.Sprintf("%s is only available %s.", c.Name, SlotDisplay(c.Availability))
}

// resolveAssignmentRace maps a stale write to not-found when the record is
// gone, and escalates otherwise.
func (s *Service) resolveAssignmentRace(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.AssignmentExists(ctx, id)
	if err != nil {
		return fmt.Errorf("re-check assignment: %w", err)
	}
	if !exists {
		return ErrAssignmentNotFound
	}
	return ErrConcurrentModification
}

func (s *Service) resolveAppointmentRace(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.AppointmentExists(ctx, id)
	if err != nil {
		return fmt.Errorf("re-check appointment: %w", err)
	}
	if !exists {
		return ErrAppointmentNotFound
	}
	return ErrConcurrentModification
}

// notifyCaregiver is best effort: the record is already persisted, a failed
// broadcast only loses the toast.
func (s *Service) notifyCaregiver(ctx context.Context, caregiverID uuid.UUID, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyCaregiver(ctx, caregiverID, message); err != nil {
		s.log.Warn().Err(err).Stringer("caregiver_id", caregiverID).Msg("notify caregiver failed")
	}
}
