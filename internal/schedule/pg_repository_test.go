package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PgRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPgRepository(mock)
}

func caregiverRows(id uuid.UUID, name, availability string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "contact", "qualifications", "availability", "created_at", "updated_at"}).
		AddRow(id, name, "555-0101", "Registered Nurse", availability, now, now)
}

func TestGetCaregiverByID(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, contact, qualifications, availability, created_at, updated_at`).
		WithArgs(id).
		WillReturnRows(caregiverRows(id, "Nora Quinn", "MondayMorning"))

	c, err := repo.GetCaregiverByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "MondayMorning", c.Availability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCaregiverByID_NotFound(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT id, name, contact, qualifications, availability, created_at, updated_at`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetCaregiverByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrCaregiverNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCaregiver_GeneratesID(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO caregivers`).
		WithArgs(pgxmock.AnyArg(), "Nora Quinn", "555-0101", "Registered Nurse", "MondayMorning").
		WillReturnRows(caregiverRows(id, "Nora Quinn", "MondayMorning"))

	c, err := repo.CreateCaregiver(context.Background(), &Caregiver{
		Name:           "Nora Quinn",
		Contact:        "555-0101",
		Qualifications: "Registered Nurse",
		Availability:   "MondayMorning",
	})
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAssignedDuring_PassesIntervalBounds(t *testing.T) {
	mock, repo := newMockRepo(t)
	patientID := uuid.New()
	start := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(patientID, start, end).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	got, err := repo.PatientAssignedDuring(context.Background(), patientID, start, end)
	require.NoError(t, err)
	assert.True(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAssignedElsewhereDuring_ExcludesRecordAndCaregiver(t *testing.T) {
	mock, repo := newMockRepo(t)
	patientID := uuid.New()
	caregiverID := uuid.New()
	excludeID := uuid.New()
	start := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(patientID, caregiverID, excludeID, start, end).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	got, err := repo.PatientAssignedElsewhereDuring(context.Background(), patientID, caregiverID, excludeID, start, end)
	require.NoError(t, err)
	assert.False(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverlappingAppointments_MatchesExactDateAndTime(t *testing.T) {
	mock, repo := newMockRepo(t)
	caregiverID := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(caregiverID, "2026-01-05", "10:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	got, err := repo.OverlappingAppointments(context.Background(), caregiverID, "2026-01-05", "10:00")
	require.NoError(t, err)
	assert.True(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssignment_StaleWhenNoRowMatches(t *testing.T) {
	mock, repo := newMockRepo(t)

	a := &Assignment{
		ID:          uuid.New(),
		CaregiverID: uuid.New(),
		PatientID:   uuid.New(),
		StartDate:   time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, time.January, 12, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`UPDATE assignments`).
		WithArgs(a.ID, a.CaregiverID, a.PatientID, a.StartDate, a.EndDate, a.UpdatedAt).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateAssignment(context.Background(), a)
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointment_StaleWhenNoRowMatches(t *testing.T) {
	mock, repo := newMockRepo(t)

	a := &Appointment{
		ID:          uuid.New(),
		CaregiverID: uuid.New(),
		PatientID:   uuid.New(),
		Date:        "2026-01-05",
		Time:        "10:00",
		Status:      "Scheduled",
		UpdatedAt:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`UPDATE appointments`).
		WithArgs(a.ID, a.PatientID, a.Date, a.Time, a.Status, a.UpdatedAt).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateAppointment(context.Background(), a)
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssignmentCascade_ScopedToPair(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	caregiverID := uuid.New()
	patientID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "caregiver_id", "patient_id", "start_date", "end_date", "created_at", "updated_at"}).
			AddRow(id, caregiverID, patientID, now, now.AddDate(0, 0, 14), now, now))
	mock.ExpectExec(`DELETE FROM appointments WHERE caregiver_id = \$1 AND patient_id = \$2`).
		WithArgs(caregiverID, patientID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM assignments WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteAssignmentCascade(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCaregiverCascade_RollsBackWhenCaregiverMissing(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM appointments WHERE caregiver_id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM assignments WHERE caregiver_id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM caregivers WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.DeleteCaregiverCascade(context.Background(), id)
	assert.ErrorIs(t, err, ErrCaregiverNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreaker_OpensAfterConsecutiveInfrastructureFailures(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`SELECT id, name, contact`).
			WithArgs(id).
			WillReturnError(errors.New("connection refused"))
	}

	for i := 0; i < 3; i++ {
		_, err := repo.GetCaregiverByID(context.Background(), id)
		require.Error(t, err)
	}

	// fourth call is rejected without reaching the pool
	_, err := repo.GetCaregiverByID(context.Background(), id)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreaker_DomainMissesDoNotTrip(t *testing.T) {
	mock, repo := newMockRepo(t)
	id := uuid.New()

	for i := 0; i < 5; i++ {
		mock.ExpectQuery(`SELECT id, name, contact`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)
	}

	for i := 0; i < 5; i++ {
		_, err := repo.GetCaregiverByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrCaregiverNotFound)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
