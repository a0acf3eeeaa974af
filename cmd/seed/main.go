package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jklhealth/caregiver-scheduling/internal/db"
	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Str("service", "seed").Logger()

func main() {
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	caregiverIDs, err := seedCaregivers(context.Background(), pool, 20)
	if err != nil {
		log.Fatal().Err(err).Msg("seed caregivers")
	}
	patientIDs, err := seedPatients(context.Background(), pool, 100)
	if err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedAssignments(context.Background(), pool, caregiverIDs, patientIDs); err != nil {
		log.Fatal().Err(err).Msg("seed assignments")
	}

	log.Info().Msg("seed complete")
}

func seedCaregivers(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding caregivers")

	qualifications := []string{
		"Registered Nurse",
		"Licensed Practical Nurse",
		"Certified Nursing Assistant",
		"Home Health Aide",
		"Physical Therapist",
		"Occupational Therapist",
	}
	slots := schedule.AllSlots()

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		slot := slots[gofakeit.Number(0, len(slots)-1)]

		_, err := pool.Exec(ctx, `
			INSERT INTO caregivers (id, name, contact, qualifications, availability, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, gofakeit.Name(), gofakeit.Phone(), qualifications[gofakeit.Number(0, len(qualifications)-1)], slot.Name())
		if err != nil {
			return nil, fmt.Errorf("insert caregiver: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding patients")

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		addr := gofakeit.Address()

		_, err := pool.Exec(ctx, `
			INSERT INTO patients (id, name, address, medical_records, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, gofakeit.Name(), addr.Address, gofakeit.Sentence(8))
		if err != nil {
			return nil, fmt.Errorf("insert patient: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// seedAssignments gives each patient one caregiver over a two week window.
func seedAssignments(ctx context.Context, pool *pgxpool.Pool, caregiverIDs, patientIDs []uuid.UUID) error {
	log.Info().Int("count", len(patientIDs)).Msg("seeding assignments")

	for _, patientID := range patientIDs {
		caregiverID := caregiverIDs[gofakeit.Number(0, len(caregiverIDs)-1)]
		start := time.Now().AddDate(0, 0, gofakeit.Number(0, 30))
		end := start.AddDate(0, 0, 14)

		_, err := pool.Exec(ctx, `
			INSERT INTO assignments (id, caregiver_id, patient_id, start_date, end_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, uuid.New(), caregiverID, patientID, start, end)
		if err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}
