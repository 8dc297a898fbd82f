package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appointmentCols = []string{
	"id", "professional_id", "patient_id", "start_time", "end_time",
	"status", "squeeze_in", "notes", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PgRepository) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewPgRepositoryWithDB(mock)
}

func appointmentRow(a Appointment) []any {
	return []any{
		a.ID, a.ProfessionalID, a.PatientID, a.StartTime, a.EndTime,
		a.Status, a.SqueezeIn, a.Notes, a.CreatedAt, a.UpdatedAt,
	}
}

func TestOverlappingAppointmentsQuery(t *testing.T) {
	mock, repo := newMockRepo(t)

	professionalID := uuid.New()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	existing := Appointment{
		ID:             uuid.New(),
		ProfessionalID: professionalID,
		PatientID:      uuid.New(),
		StartTime:      start.Add(-30 * time.Minute),
		EndTime:        start.Add(30 * time.Minute),
		Status:         StatusBooked,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	mock.ExpectQuery(`FROM appointments`).
		WithArgs(professionalID, start, end, (*uuid.UUID)(nil)).
		WillReturnRows(pgxmock.NewRows(appointmentCols).AddRow(appointmentRow(existing)...))

	got, err := repo.OverlappingAppointments(context.Background(), professionalID, start, end, nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, existing.ID, got[0].ID)
	assert.Equal(t, existing.PatientID, got[0].PatientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverlappingAppointmentsPassesExcludeID(t *testing.T) {
	mock, repo := newMockRepo(t)

	professionalID := uuid.New()
	excludeID := uuid.New()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery(`FROM appointments`).
		WithArgs(professionalID, start, end, &excludeID).
		WillReturnRows(pgxmock.NewRows(appointmentCols))

	got, err := repo.OverlappingAppointments(context.Background(), professionalID, start, end, &excludeID)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountAppointmentsOnDayUsesDayBounds(t *testing.T) {
	mock, repo := newMockRepo(t)

	professionalID := uuid.New()
	day := time.Date(2026, 3, 2, 14, 37, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(professionalID, dayStart, dayEnd, (*uuid.UUID)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountAppointmentsOnDay(context.Background(), professionalID, day, nil)

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHoursForDay(t *testing.T) {
	mock, repo := newMockRepo(t)

	professionalID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM working_hours`).
		WithArgs(professionalID, int(time.Monday)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "professional_id", "day_of_week", "start_minute", "end_minute", "created_at", "updated_at",
		}).
			AddRow(int64(1), professionalID, 1, 540, 720, now, now).
			AddRow(int64(2), professionalID, 1, 780, 1020, now, now))

	got, err := repo.WorkingHoursForDay(context.Background(), professionalID, time.Monday)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, time.Monday, got[0].DayOfWeek)
	assert.Equal(t, 540, got[0].StartMinute)
	assert.Equal(t, 1020, got[1].EndMinute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointmentByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`FROM appointments`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetAppointmentByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAppointmentAlreadyCancelled(t *testing.T) {
	mock, repo := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`UPDATE appointments`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.CancelAppointment(context.Background(), id)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentReturnsInsertedRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	params := CreateParams{
		ProfessionalID: uuid.New(),
		PatientID:      uuid.New(),
		StartTime:      time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		SqueezeIn:      true,
		Notes:          "forced in by operator",
	}

	inserted := Appointment{
		ID:             uuid.New(),
		ProfessionalID: params.ProfessionalID,
		PatientID:      params.PatientID,
		StartTime:      params.StartTime,
		EndTime:        params.EndTime,
		Status:         StatusBooked,
		SqueezeIn:      true,
		Notes:          params.Notes,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	mock.ExpectQuery(`INSERT INTO appointments`).
		WithArgs(pgxmock.AnyArg(), params.ProfessionalID, params.PatientID, params.StartTime, params.EndTime, true, params.Notes).
		WillReturnRows(pgxmock.NewRows(appointmentCols).AddRow(appointmentRow(inserted)...))

	got, err := repo.CreateAppointment(context.Background(), params)

	require.NoError(t, err)
	assert.True(t, got.SqueezeIn)
	assert.Equal(t, StatusBooked, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceWorkingHoursRunsInTransaction(t *testing.T) {
	mock, repo := newMockRepo(t)

	professionalID := uuid.New()
	entries := []WorkingHours{
		{DayOfWeek: time.Monday, StartMinute: 540, EndMinute: 720},
		{DayOfWeek: time.Monday, StartMinute: 780, EndMinute: 1020},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM working_hours`).
		WithArgs(professionalID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	for _, e := range entries {
		mock.ExpectExec(`INSERT INTO working_hours`).
			WithArgs(professionalID, int(e.DayOfWeek), e.StartMinute, e.EndMinute).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()
	mock.ExpectRollback()

	err := repo.ReplaceWorkingHours(context.Background(), professionalID, entries)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEvent(t *testing.T) {
	mock, repo := newMockRepo(t)

	apptID := uuid.New()
	ev := EventLog{
		EventType:     "APPOINTMENT_BOOKED",
		AppointmentID: &apptID,
		Payload:       []byte(`{"k":"v"}`),
	}

	mock.ExpectExec(`INSERT INTO event_logs`).
		WithArgs(ev.EventType, ev.AppointmentID, ev.Payload, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.InsertEvent(context.Background(), ev)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
