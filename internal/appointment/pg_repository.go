package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository needs. Kept narrow so
// tests can substitute a pgxmock pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

// NewPgRepositoryWithDB allows injecting a mock for tests.
func NewPgRepositoryWithDB(db DB) *PgRepository {
	return &PgRepository{db: db}
}

const appointmentColumns = `id, professional_id, patient_id, start_time, end_time, status, squeeze_in, notes, created_at, updated_at`

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var phone *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&phone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.Phone = phone
	return &p, nil
}

func scanProfessional(row pgx.Row) (*Professional, error) {
	var p Professional
	var specialty *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&specialty,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfessionalNotFound
		}
		return nil, err
	}

	p.Specialty = specialty
	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.ProfessionalID,
		&a.PatientID,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.SqueezeIn,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanWorkingHours(row pgx.Row) (*WorkingHours, error) {
	var wh WorkingHours
	var day int

	err := row.Scan(
		&wh.ID,
		&wh.ProfessionalID,
		&day,
		&wh.StartMinute,
		&wh.EndMinute,
		&wh.CreatedAt,
		&wh.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	wh.DayOfWeek = time.Weekday(day)
	return &wh, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// dayBounds returns the half-open [start, end) of the calendar day
// containing t, in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Interface methods

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, phone, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetProfessionalByID(ctx context.Context, id uuid.UUID) (*Professional, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM professionals
		WHERE id = $1
	`, id)
	return scanProfessional(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

// OverlappingAppointments returns the non-cancelled appointments for the
// professional whose interval overlaps the half-open [start, end).
// Appointments that merely touch an endpoint do not match.
func (r *PgRepository) OverlappingAppointments(ctx context.Context, professionalID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
		  AND status <> 'cancelled'
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time
	`, professionalID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) WorkingHoursForDay(ctx context.Context, professionalID uuid.UUID, day time.Weekday) ([]WorkingHours, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, professional_id, day_of_week, start_minute, end_minute, created_at, updated_at
		FROM working_hours
		WHERE professional_id = $1
		  AND day_of_week = $2
		ORDER BY start_minute
	`, professionalID, int(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []WorkingHours
	for rows.Next() {
		wh, err := scanWorkingHours(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *wh)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) CountAppointmentsOnDay(ctx context.Context, professionalID uuid.UUID, day time.Time, excludeID *uuid.UUID) (int, error) {
	dayStart, dayEnd := dayBounds(day)

	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE professional_id = $1
		  AND status <> 'cancelled'
		  AND start_time >= $2
		  AND start_time < $3
		  AND ($4::uuid IS NULL OR id <> $4)
	`, professionalID, dayStart, dayEnd, excludeID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PgRepository) AppointmentsOnDay(ctx context.Context, professionalID uuid.UUID, day time.Time, excludeID *uuid.UUID) ([]Appointment, error) {
	dayStart, dayEnd := dayBounds(day)

	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
		  AND status <> 'cancelled'
		  AND start_time >= $2
		  AND start_time < $3
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time
	`, professionalID, dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

// PatientAppointmentsNear returns the patient's non-cancelled appointments
// with the professional starting within +/- window of around. The window is
// deliberately wider than the spacing rule; the validator applies the exact
// threshold in memory.
func (r *PgRepository) PatientAppointmentsNear(ctx context.Context, professionalID, patientID uuid.UUID, around time.Time, window time.Duration, excludeID *uuid.UUID) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE professional_id = $1
		  AND patient_id = $2
		  AND status <> 'cancelled'
		  AND start_time >= $3
		  AND start_time <= $4
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY start_time
	`, professionalID, patientID, around.Add(-window), around.Add(window), excludeID)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, params CreateParams) (*Appointment, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, professional_id, patient_id, start_time, end_time, status, squeeze_in, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'booked', $6, $7, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, params.ProfessionalID, params.PatientID, params.StartTime, params.EndTime, params.SqueezeIn, params.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) RescheduleAppointment(ctx context.Context, id uuid.UUID, start, end time.Time, squeezeIn bool) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET start_time = $2,
		    end_time = $3,
		    squeeze_in = $4,
		    updated_at = now()
		WHERE id = $1
		  AND status <> 'cancelled'
		RETURNING `+appointmentColumns+`
	`, id, start, end, squeezeIn)

	return scanAppointment(row)
}

func (r *PgRepository) CancelAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
		    updated_at = now()
		WHERE id = $1
		  AND status = 'booked'
		RETURNING `+appointmentColumns+`
	`, id)

	return scanAppointment(row)
}

// ReplaceWorkingHours swaps out a professional's full weekly schedule in
// one transaction.
func (r *PgRepository) ReplaceWorkingHours(ctx context.Context, professionalID uuid.UUID, entries []WorkingHours) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace working hours: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `
		DELETE FROM working_hours
		WHERE professional_id = $1
	`, professionalID); err != nil {
		return fmt.Errorf("clear working hours: %w", err)
	}

	for _, e := range entries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO working_hours (professional_id, day_of_week, start_minute, end_minute, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, professionalID, int(e.DayOfWeek), e.StartMinute, e.EndMinute); err != nil {
			return fmt.Errorf("insert working hours: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace working hours: %w", err)
	}

	return nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
