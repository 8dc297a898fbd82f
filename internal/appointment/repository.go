package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrProfessionalNotFound = errors.New("professional not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the validation engine
// and the booking workflow.
type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetProfessionalByID(ctx context.Context, id uuid.UUID) (*Professional, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Read surface for the validation engine. All of these ignore
	// cancelled appointments, and skip excludeID when it is non-nil so an
	// appointment being edited never counts against itself.
	OverlappingAppointments(ctx context.Context, professionalID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Appointment, error)
	WorkingHoursForDay(ctx context.Context, professionalID uuid.UUID, day time.Weekday) ([]WorkingHours, error)
	CountAppointmentsOnDay(ctx context.Context, professionalID uuid.UUID, day time.Time, excludeID *uuid.UUID) (int, error)
	AppointmentsOnDay(ctx context.Context, professionalID uuid.UUID, day time.Time, excludeID *uuid.UUID) ([]Appointment, error)
	PatientAppointmentsNear(ctx context.Context, professionalID, patientID uuid.UUID, around time.Time, window time.Duration, excludeID *uuid.UUID) ([]Appointment, error)

	// Booking workflow writes
	CreateAppointment(ctx context.Context, params CreateParams) (*Appointment, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, start, end time.Time, squeezeIn bool) (*Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Schedule management
	ReplaceWorkingHours(ctx context.Context, professionalID uuid.UUID, entries []WorkingHours) error

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}

// CreateParams carries everything needed to insert a booked appointment.
type CreateParams struct {
	ProfessionalID uuid.UUID
	PatientID      uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	SqueezeIn      bool
	Notes          string
}
