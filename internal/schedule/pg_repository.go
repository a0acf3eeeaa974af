package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker/v2"
)

// DB is the subset of pgxpool.Pool the repository uses. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PgRepository struct {
	db DB
	cb *gobreaker.CircuitBreaker[any]
}

// NewPgRepository wraps every call in a circuit breaker that opens after three
// consecutive infrastructure failures and stays open for thirty seconds.
// Domain misses (not-found, stale row) count as successes so they cannot trip
// the breaker.
func NewPgRepository(db DB) *PgRepository {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "postgres",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return errors.Is(err, ErrCaregiverNotFound) ||
				errors.Is(err, ErrPatientNotFound) ||
				errors.Is(err, ErrAssignmentNotFound) ||
				errors.Is(err, ErrAppointmentNotFound) ||
				errors.Is(err, ErrStaleRecord) ||
				errors.Is(err, pgx.ErrNoRows)
		},
	})
	return &PgRepository{db: db, cb: cb}
}

func guarded[T any](r *PgRepository, fn func() (T, error)) (T, error) {
	v, err := r.cb.Execute(func() (any, error) {
		return fn()
	})
	out, _ := v.(T)
	return out, err
}

// Helpers

func scanCaregiver(row pgx.Row) (*Caregiver, error) {
	var c Caregiver
	err := row.Scan(&c.ID, &c.Name, &c.Contact, &c.Qualifications, &c.Availability, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCaregiverNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.MedicalRecords, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	err := row.Scan(&a.ID, &a.CaregiverID, &a.PatientID, &a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.CaregiverID, &a.PatientID, &a.Date, &a.Time, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Caregivers

func (r *PgRepository) ListCaregivers(ctx context.Context) ([]Caregiver, error) {
	return guarded(r, func() ([]Caregiver, error) {
		rows, err := r.db.Query(ctx, `
			SELECT id, name, contact, qualifications, availability, created_at, updated_at
			FROM caregivers
			ORDER BY name
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []Caregiver
		for rows.Next() {
			c, err := scanCaregiver(rows)
			if err != nil {
				return nil, err
			}
			result = append(result, *c)
		}
		return result, rows.Err()
	})
}

func (r *PgRepository) GetCaregiverByID(ctx context.Context, id uuid.UUID) (*Caregiver, error) {
	return guarded(r, func() (*Caregiver, error) {
		row := r.db.QueryRow(ctx, `
			SELECT id, name, contact, qualifications, availability, created_at, updated_at
			FROM caregivers
			WHERE id = $1
		`, id)
		return scanCaregiver(row)
	})
}

func (r *PgRepository) CreateCaregiver(ctx context.Context, c *Caregiver) (*Caregiver, error) {
	return guarded(r, func() (*Caregiver, error) {
		row := r.db.QueryRow(ctx, `
			INSERT INTO caregivers (id, name, contact, qualifications, availability, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING id, name, contact, qualifications, availability, created_at, updated_at
		`, uuid.New(), c.Name, c.Contact, c.Qualifications, c.Availability)
		return scanCaregiver(row)
	})
}

func (r *PgRepository) UpdateCaregiver(ctx context.Context, c *Caregiver) (*Caregiver, error) {
	return guarded(r, func() (*Caregiver, error) {
		row := r.db.QueryRow(ctx, `
			UPDATE caregivers
			SET name = $2, contact = $3, qualifications = $4, availability = $5, updated_at = now()
			WHERE id = $1
			RETURNING id, name, contact, qualifications, availability, created_at, updated_at
		`, c.ID, c.Name, c.Contact, c.Qualifications, c.Availability)
		return scanCaregiver(row)
	})
}

func (r *PgRepository) DeleteCaregiverCascade(ctx context.Context, id uuid.UUID) error {
	_, err := guarded(r, func() (any, error) {
		return nil, r.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE caregiver_id = $1`, id); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM assignments WHERE caregiver_id = $1`, id); err != nil {
				return err
			}
			tag, err := tx.Exec(ctx, `DELETE FROM caregivers WHERE id = $1`, id)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrCaregiverNotFound
			}
			return nil
		})
	})
	return err
}

// Patients

func (r *PgRepository) ListPatients(ctx context.Context) ([]Patient, error) {
	return guarded(r, func() ([]Patient, error) {
		rows, err := r.db.Query(ctx, `
			SELECT id, name, address, medical_records, created_at, updated_at
			FROM patients
			ORDER BY name
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []Patient
		for rows.Next() {
			p, err := scanPatient(rows)
			if err != nil {
				return nil, err
			}
			result = append(result, *p)
		}
		return result, rows.Err()
	})
}

func (r *PgRepository) ListPatientsByCaregiver(ctx context.Context, caregiverID uuid.UUID) ([]Patient, error) {
	return guarded(r, func() ([]Patient, error) {
		rows, err := r.db.Query(ctx, `
			SELECT DISTINCT p.id, p.name, p.address, p.medical_records, p.created_at, p.updated_at
			FROM patients p
			JOIN assignments a ON a.patient_id = p.id
			WHERE a.caregiver_id = $1
			ORDER BY p.name
		`, caregiverID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []Patient
		for rows.Next() {
			p, err := scanPatient(rows)
			if err != nil {
				return nil, err
			}
			result = append(result, *p)
		}
		return result, rows.Err()
	})
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return guarded(r, func() (*Patient, error) {
		row := r.db.QueryRow(ctx, `
			SELECT id, name, address, medical_records, created_at, updated_at
			FROM patients
			WHERE id = $1
		`, id)
		return scanPatient(row)
	})
}

func (r *PgRepository) CreatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	return guarded(r, func() (*Patient, error) {
		row := r.db.QueryRow(ctx, `
			INSERT INTO patients (id, name, address, medical_records, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			RETURNING id, name, address, medical_records, created_at, updated_at
		`, uuid.New(), p.Name, p.Address, p.MedicalRecords)
		return scanPatient(row)
	})
}

func (r *PgRepository) UpdatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	return guarded(r, func() (*Patient, error) {
		row := r.db.QueryRow(ctx, `
			UPDATE patients
			SET name = $2, address = $3, medical_records = $4, updated_at = now()
			WHERE id = $1
			RETURNING id, name, address, medical_records, created_at, updated_at
		`, p.ID, p.Name, p.Address, p.MedicalRecords)
		return scanPatient(row)
	})
}

func (r *PgRepository) DeletePatientCascade(ctx context.Context, id uuid.UUID) error {
	_, err := guarded(r, func() (any, error) {
		return nil, r.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM appointments WHERE patient_id = $1`, id); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM assignments WHERE patient_id = $1`, id); err != nil {
				return err
			}
			tag, err := tx.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrPatientNotFound
			}
			return nil
		})
	})
	return err
}

// Assignments

func (r *PgRepository) ListAssignments(ctx context.Context) ([]AssignmentDetail, error) {
	return guarded(r, func() ([]AssignmentDetail, error) {
		rows, err := r.db.Query(ctx, `
			SELECT a.id, a.caregiver_id, a.patient_id, a.start_date, a.end_date,
			       a.created_at, a.updated_at, c.name, p.name
			FROM assignments a
			JOIN caregivers c ON c.id = a.caregiver_id
			JOIN patients p ON p.id = a.patient_id
			ORDER BY a.start_date
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []AssignmentDetail
		for rows.Next() {
			var d AssignmentDetail
			err := rows.Scan(&d.ID, &d.CaregiverID, &d.PatientID, &d.StartDate, &d.EndDate,
				&d.CreatedAt, &d.UpdatedAt, &d.CaregiverName, &d.PatientName)
			if err != nil {
				return nil, err
			}
			result = append(result, d)
		}
		return result, rows.Err()
	})
}

func (r *PgRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	return guarded(r, func() (*Assignment, error) {
		row := r.db.QueryRow(ctx, `
			SELECT id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at
			FROM assignments
			WHERE id = $1
		`, id)
		return scanAssignment(row)
	})
}

func (r *PgRepository) CreateAssignment(ctx context.Context, a *Assignment) (*Assignment, error) {
	return guarded(r, func() (*Assignment, error) {
		row := r.db.QueryRow(ctx, `
			INSERT INTO assignments (id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at
		`, uuid.New(), a.CaregiverID, a.PatientID, a.StartDate, a.EndDate)
		return scanAssignment(row)
	})
}

func (r *PgRepository) UpdateAssignment(ctx context.Context, a *Assignment) (*Assignment, error) {
	return guarded(r, func() (*Assignment, error) {
		row := r.db.QueryRow(ctx, `
			UPDATE assignments
			SET caregiver_id = $2, patient_id = $3, start_date = $4, end_date = $5, updated_at = now()
			WHERE id = $1 AND updated_at = $6
			RETURNING id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at
		`, a.ID, a.CaregiverID, a.PatientID, a.StartDate, a.EndDate, a.UpdatedAt)
		updated, err := scanAssignment(row)
		if errors.Is(err, ErrAssignmentNotFound) {
			return nil, ErrStaleRecord
		}
		return updated, err
	})
}

func (r *PgRepository) DeleteAssignmentCascade(ctx context.Context, id uuid.UUID) error {
	_, err := guarded(r, func() (any, error) {
		return nil, r.inTx(ctx, func(tx pgx.Tx) error {
			a, err := scanAssignment(tx.QueryRow(ctx, `
				SELECT id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at
				FROM assignments
				WHERE id = $1
			`, id))
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `
				DELETE FROM appointments WHERE caregiver_id = $1 AND patient_id = $2
			`, a.CaregiverID, a.PatientID)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
			return err
		})
	})
	return err
}

func (r *PgRepository) AssignmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return guarded(r, func() (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM assignments WHERE id = $1)
		`, id).Scan(&exists)
		return exists, err
	})
}

// Conflict checks

// PatientAssignedDuring uses inclusive-bound interval overlap: an existing
// assignment conflicts when existing.start <= end AND existing.end >= start.
func (r *PgRepository) PatientAssignedDuring(ctx context.Context, patientID uuid.UUID, start, end time.Time) (bool, error) {
	return guarded(r, func() (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM assignments
				WHERE patient_id = $1 AND start_date <= $3 AND end_date >= $2
			)
		`, patientID, start, end).Scan(&exists)
		return exists, err
	})
}

// PatientAssignedElsewhereDuring is the edit-time variant: the record being
// edited and any row keeping the patient with the same caregiver are excluded,
// so only an overlap against a different caregiver conflicts.
func (r *PgRepository) PatientAssignedElsewhereDuring(ctx context.Context, patientID, caregiverID, excludeID uuid.UUID, start, end time.Time) (bool, error) {
	return guarded(r, func() (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM assignments
				WHERE patient_id = $1
				  AND caregiver_id <> $2
				  AND id <> $3
				  AND start_date <= $5 AND end_date >= $4
			)
		`, patientID, caregiverID, excludeID, start, end).Scan(&exists)
		return exists, err
	})
}

func (r *PgRepository) PatientAssignedToCaregiver(ctx context.Context, caregiverID, patientID uuid.UUID) (bool, error) {
	return guarded(r, func() (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM assignments
				WHERE caregiver_id = $1 AND patient_id = $2
			)
		`, caregiverID, patientID).Scan(&exists)
		return exists, err
	})
}

// OverlappingAppointments compares the stored Date and Time strings for exact
// equality; appointments are instantaneous slots, not intervals.
func (r *PgRepository) OverlappingAppointments(ctx context.Context, caregiverID uuid.UUID, date, clock string) (bool, error) {
	return guarded(r, func() (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE caregiver_id = $1 AND date = $2 AND time = $3
			)
		`, caregiverID, date, clock).Scan(&exists)
		return exists, err
	})
}

// Appointments

func (r *PgRepository) ListAppointmentsByCaregiver(ctx context.Context, caregiverID uuid.UUID) ([]AppointmentDetail, error) {
	return guarded(r, func() ([]AppointmentDetail, error) {
		rows, err := r.db.Query(ctx, `
			SELECT a.id, a.caregiver_id, a.patient_id, a.date, a.time, a.status,
			       a.created_at, a.updated_at, c.name, p.name
			FROM appointments a
			JOIN caregivers c ON c.id = a.caregiver_id
			JOIN patients p ON p.id = a.patient_id
			WHERE a.caregiver_id = $1
			ORDER BY a.date, a.time
		`, caregiverID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []AppointmentDetail
		for rows.Next() {
			var d AppointmentDetail
			err := rows.Scan(&d.ID, &d.CaregiverID, &d.PatientID, &d.Date, &d.Time, &d.Status,
				&d.CreatedAt, &d.UpdatedAt, &d.CaregiverName, &d.PatientName)
			if err != nil {
				return nil, err
			}
			result = append(result, d)
		}
		return result, rows.Err()
	})
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return guarded(r, func() (*Appointment, error) {
		row := r.db.QueryRow(ctx, `
			SELECT id, caregiver_id, patient_id, date, time, status, created_at, updated_at
			FROM appointments
			WHERE id = $1
		`, id)
		return scanAppointment(row)
	})
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	return guarded(r, func() (*Appointment, error) {
		row := r.db.QueryRow(ctx, `
			INSERT INTO appointments (id, caregiver_id, patient_id, date, time, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			RETURNING id, caregiver_id, patient_id, date, time, status, created_at, updated_at
		`, uuid.New(), a.CaregiverID, a.PatientID, a.Date, a.Time, a.Status)
		return scanAppointment(row)
	})
}

func (r *PgRepository) UpdateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	return guarded(r, func() (*Appointment, error) {
		row := r.db.QueryRow(ctx, `
			UPDATE appointments
			SET patient_id = $2, date = $3, time = $4, status = $5, updated_at = now()
			WHERE id = $1 AND updated_at = $6
			RETURNING id, caregiver_id, patient_id, date, time, status, created_at, updated_at
		`, a.ID, a.PatientID, a.Date, a.Time, a.Status, a.UpdatedAt)
		updated, err := scanAppointment(row)
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrStaleRecord
		}
		return updated, err
	})
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	_, err := guarded(r, func() (any, error) {
		tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, ErrAppointmentNotFound
		}
		return nil, nil
	})
	return err
}

func (r *PgRepository) AppointmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return guarded(r, func() (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)
		`, id).Scan(&exists)
		return exists, err
	})
}

func (r *PgRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
