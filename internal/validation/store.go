package validation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
)

// Store is the read surface the validators need. Satisfied by
// appointment.PgRepository. Every query skips cancelled appointments, and
// skips excludeID when non-nil so an appointment being edited never
// counts against itself.
type Store interface {
	OverlappingAppointments(ctx context.Context, professionalID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]appointment.Appointment, error)
	WorkingHoursForDay(ctx context.Context, professionalID uuid.UUID, day time.Weekday) ([]appointment.WorkingHours, error)
	CountAppointmentsOnDay(ctx context.Context, professionalID uuid.UUID, day time.Time, excludeID *uuid.UUID) (int, error)
	AppointmentsOnDay(ctx context.Context, professionalID uuid.UUID, day time.Time, excludeID *uuid.UUID) ([]appointment.Appointment, error)
	PatientAppointmentsNear(ctx context.Context, professionalID, patientID uuid.UUID, around time.Time, window time.Duration, excludeID *uuid.UUID) ([]appointment.Appointment, error)
}
