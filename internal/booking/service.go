package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	redisclient "github.com/hackgods/clinic-scheduling/internal/redis"
	"github.com/hackgods/clinic-scheduling/internal/validation"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentSqueezedIn  = "APPOINTMENT_SQUEEZED_IN"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
)

var (
	ErrProfessionalBusy     = errors.New("professional's schedule is being updated, please retry")
	ErrAppointmentCancelled = errors.New("appointment is already cancelled")
	ErrInvalidWorkingHours  = errors.New("invalid working hours entry")
)

// ValidationError carries the engine verdict for a booking that was
// blocked because the operator did not force it through.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return "appointment failed validation: " + strings.Join(e.Result.Errors, "; ")
}

// Request is one booking or reschedule attempt. SqueezeIn is the
// operator's override flag; it never reaches the validation engine, the
// engine states facts and this service decides what happens next.
type Request struct {
	ProfessionalID uuid.UUID
	PatientID      uuid.UUID
	Start          time.Time
	End            time.Time
	Notes          string
	SqueezeIn      bool
}

type Service struct {
	repo   appointment.Repository
	engine *validation.Engine
	locker redisclient.Locker
}

func NewService(repo appointment.Repository, engine *validation.Engine, locker redisclient.Locker) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		locker: locker,
	}
}

// Check runs validation without persisting anything. Used by the booking
// form to preview the verdict.
func (s *Service) Check(ctx context.Context, req Request) (validation.Result, error) {
	if err := s.verifyRefs(ctx, req); err != nil {
		return validation.Result{}, err
	}
	return s.engine.Validate(ctx, proposedFrom(req, nil)), nil
}

// Create validates and persists a new appointment. With a valid verdict
// the appointment is booked normally; with errors and SqueezeIn set it is
// persisted flagged as a forced exception; with errors and no override a
// ValidationError is returned and nothing is written. Validation and the
// insert run under the professional's lock so a second booking cannot
// slip in between them.
func (s *Service) Create(ctx context.Context, req Request) (*appointment.Appointment, validation.Result, error) {
	if err := s.verifyRefs(ctx, req); err != nil {
		return nil, validation.Result{}, err
	}

	var created *appointment.Appointment
	var verdict validation.Result

	err := s.locker.WithProfessionalLock(ctx, req.ProfessionalID, func(lockCtx context.Context) error {
		verdict = s.engine.Validate(lockCtx, proposedFrom(req, nil))

		if !verdict.Valid && !req.SqueezeIn {
			return &ValidationError{Result: verdict}
		}

		squeezed := !verdict.Valid

		appt, err := s.repo.CreateAppointment(lockCtx, appointment.CreateParams{
			ProfessionalID: req.ProfessionalID,
			PatientID:      req.PatientID,
			StartTime:      req.Start,
			EndTime:        req.End,
			SqueezeIn:      squeezed,
			Notes:          req.Notes,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		eventType := EventAppointmentBooked
		payload := map[string]any{
			"professional_id": req.ProfessionalID.String(),
			"patient_id":      req.PatientID.String(),
			"start_time":      req.Start,
			"end_time":        req.End,
		}
		if squeezed {
			eventType = EventAppointmentSqueezedIn
			payload["overridden_errors"] = verdict.Errors
		}
		s.logEvent(lockCtx, appt.ID, eventType, payload)

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, verdict, ErrProfessionalBusy
		}
		return nil, verdict, err
	}

	return created, verdict, nil
}

// Reschedule moves an existing appointment to new times, revalidating
// against the rest of the schedule. The appointment being edited is
// excluded from every check so it cannot conflict with itself.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req Request) (*appointment.Appointment, validation.Result, error) {
	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, validation.Result{}, fmt.Errorf("load appointment: %w", err)
	}
	if existing.Status == appointment.StatusCancelled {
		return nil, validation.Result{}, ErrAppointmentCancelled
	}

	// Reschedules keep the original professional and patient.
	req.ProfessionalID = existing.ProfessionalID
	req.PatientID = existing.PatientID

	var updated *appointment.Appointment
	var verdict validation.Result

	err = s.locker.WithProfessionalLock(ctx, existing.ProfessionalID, func(lockCtx context.Context) error {
		verdict = s.engine.Validate(lockCtx, proposedFrom(req, &existing.ID))

		if !verdict.Valid && !req.SqueezeIn {
			return &ValidationError{Result: verdict}
		}

		squeezed := !verdict.Valid

		appt, err := s.repo.RescheduleAppointment(lockCtx, existing.ID, req.Start, req.End, squeezed)
		if err != nil {
			return fmt.Errorf("reschedule appointment: %w", err)
		}

		updated = appt

		payload := map[string]any{
			"previous_start": existing.StartTime,
			"previous_end":   existing.EndTime,
			"start_time":     req.Start,
			"end_time":       req.End,
			"squeeze_in":     squeezed,
		}
		if squeezed {
			payload["overridden_errors"] = verdict.Errors
		}
		s.logEvent(lockCtx, appt.ID, EventAppointmentRescheduled, payload)

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, verdict, ErrProfessionalBusy
		}
		return nil, verdict, err
	}

	return updated, verdict, nil
}

// Cancel marks an appointment cancelled. Cancelled appointments drop out
// of every validation query.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	existing, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if existing.Status == appointment.StatusCancelled {
		return nil, ErrAppointmentCancelled
	}

	cancelled, err := s.repo.CancelAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logEvent(ctx, cancelled.ID, EventAppointmentCancelled, map[string]any{
		"start_time": cancelled.StartTime,
		"end_time":   cancelled.EndTime,
	})

	return cancelled, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// ListDay returns a professional's non-cancelled appointments for one
// calendar day.
func (s *Service) ListDay(ctx context.Context, professionalID uuid.UUID, day time.Time) ([]appointment.Appointment, error) {
	if _, err := s.repo.GetProfessionalByID(ctx, professionalID); err != nil {
		return nil, err
	}

	appts, err := s.repo.AppointmentsOnDay(ctx, professionalID, day, nil)
	if err != nil {
		return nil, fmt.Errorf("list appointments for day: %w", err)
	}
	return appts, nil
}

// SetWorkingHours replaces a professional's weekly schedule. Entries are
// checked for shape here; whether appointments fit them is the working
// hours validator's job.
func (s *Service) SetWorkingHours(ctx context.Context, professionalID uuid.UUID, entries []appointment.WorkingHours) error {
	if _, err := s.repo.GetProfessionalByID(ctx, professionalID); err != nil {
		return err
	}

	for _, e := range entries {
		if e.DayOfWeek < time.Sunday || e.DayOfWeek > time.Saturday {
			return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidWorkingHours, e.DayOfWeek)
		}
		if e.StartMinute < 0 || e.EndMinute > 24*60 || e.StartMinute >= e.EndMinute {
			return fmt.Errorf("%w: window %d-%d is not a valid minute range", ErrInvalidWorkingHours, e.StartMinute, e.EndMinute)
		}
	}

	if err := s.repo.ReplaceWorkingHours(ctx, professionalID, entries); err != nil {
		return fmt.Errorf("replace working hours: %w", err)
	}

	return nil
}

func (s *Service) verifyRefs(ctx context.Context, req Request) error {
	if _, err := s.repo.GetPatientByID(ctx, req.PatientID); err != nil {
		if errors.Is(err, appointment.ErrPatientNotFound) {
			return err
		}
		return fmt.Errorf("load patient: %w", err)
	}
	if _, err := s.repo.GetProfessionalByID(ctx, req.ProfessionalID); err != nil {
		if errors.Is(err, appointment.ErrProfessionalNotFound) {
			return err
		}
		return fmt.Errorf("load professional: %w", err)
	}
	return nil
}

func proposedFrom(req Request, excludeID *uuid.UUID) validation.Proposed {
	return validation.Proposed{
		ProfessionalID:       req.ProfessionalID,
		PatientID:            req.PatientID,
		Start:                req.Start,
		End:                  req.End,
		ExcludeAppointmentID: excludeID,
	}
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := appointment.EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
