package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/booking"
	"github.com/hackgods/clinic-scheduling/internal/validation"
)

// BookingService is what the handlers need from the booking workflow.
type BookingService interface {
	Check(ctx context.Context, req booking.Request) (validation.Result, error)
	Create(ctx context.Context, req booking.Request) (*appointment.Appointment, validation.Result, error)
	Reschedule(ctx context.Context, id uuid.UUID, req booking.Request) (*appointment.Appointment, validation.Result, error)
	Cancel(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	ListDay(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]appointment.Appointment, error)
	SetWorkingHours(ctx context.Context, professionalID uuid.UUID, entries []appointment.WorkingHours) error
}

type RouterConfig struct {
	Service BookingService
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Appointment endpoints
	r.Post("/appointments", bookAppointmentHandler(cfg.Service))
	r.Post("/appointments/check", checkAppointmentHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Put("/appointments/{id}", rescheduleAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Service))

	// Professional schedule endpoints
	r.Get("/professionals/{id}/appointments", listDayHandler(cfg.Service))
	r.Put("/professionals/{id}/working-hours", setWorkingHoursHandler(cfg.Service))

	return r
}
