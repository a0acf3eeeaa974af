package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jklhealth/caregiver-scheduling/internal/notify"
	"github.com/jklhealth/caregiver-scheduling/internal/schedule"
)

type RouterConfig struct {
	Service *schedule.Service
	Hub     *notify.Hub
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Log     zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/caregivers", func(r chi.Router) {
		r.Get("/", listCaregiversHandler(cfg.Service))
		r.Post("/", createCaregiverHandler(cfg.Service))
		r.Get("/{id}", getCaregiverHandler(cfg.Service))
		r.Put("/{id}", updateCaregiverHandler(cfg.Service))
		r.Delete("/{id}", deleteCaregiverHandler(cfg.Service))
	})

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", listPatientsHandler(cfg.Service))
		r.Post("/", createPatientHandler(cfg.Service))
		r.Get("/{id}", getPatientHandler(cfg.Service))
		r.Put("/{id}", updatePatientHandler(cfg.Service))
		r.Delete("/{id}", deletePatientHandler(cfg.Service))
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", listAssignmentsHandler(cfg.Service))
		r.Post("/", createAssignmentHandler(cfg.Service))
		r.Get("/{id}", getAssignmentHandler(cfg.Service))
		r.Put("/{id}", updateAssignmentHandler(cfg.Service))
		r.Delete("/{id}", deleteAssignmentHandler(cfg.Service))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Service))
		r.Post("/", createAppointmentHandler(cfg.Service))
		r.Get("/patients", listAssignedPatientsHandler(cfg.Service))
		r.Get("/{id}", getAppointmentHandler(cfg.Service))
		r.Put("/{id}", updateAppointmentHandler(cfg.Service))
		r.Delete("/{id}", deleteAppointmentHandler(cfg.Service))
	})

	r.Get("/ws/notifications", cfg.Hub.HandleWS)

	return r
}
