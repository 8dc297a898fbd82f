package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/booking"
	"github.com/hackgods/clinic-scheduling/internal/validation"
)

type stubService struct {
	createAppt   *appointment.Appointment
	createResult validation.Result
	createErr    error

	checkResult validation.Result
	checkErr    error

	cancelAppt *appointment.Appointment
	cancelErr  error

	lastCreate booking.Request
}

func (s *stubService) Check(_ context.Context, _ booking.Request) (validation.Result, error) {
	return s.checkResult, s.checkErr
}

func (s *stubService) Create(_ context.Context, req booking.Request) (*appointment.Appointment, validation.Result, error) {
	s.lastCreate = req
	return s.createAppt, s.createResult, s.createErr
}

func (s *stubService) Reschedule(_ context.Context, _ uuid.UUID, _ booking.Request) (*appointment.Appointment, validation.Result, error) {
	return s.createAppt, s.createResult, s.createErr
}

func (s *stubService) Cancel(_ context.Context, _ uuid.UUID) (*appointment.Appointment, error) {
	return s.cancelAppt, s.cancelErr
}

func (s *stubService) Get(_ context.Context, _ uuid.UUID) (*appointment.Appointment, error) {
	return s.createAppt, s.createErr
}

func (s *stubService) ListDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]appointment.Appointment, error) {
	return nil, nil
}

func (s *stubService) SetWorkingHours(_ context.Context, _ uuid.UUID, _ []appointment.WorkingHours) error {
	return nil
}

func testRouter(svc BookingService) http.Handler {
	r := chi.NewRouter()
	r.Post("/appointments", bookAppointmentHandler(svc))
	r.Post("/appointments/check", checkAppointmentHandler(svc))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(svc))
	return r
}

func bookBody(t *testing.T, squeezeIn bool) *bytes.Buffer {
	t.Helper()

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	body, err := json.Marshal(BookAppointmentRequest{
		ProfessionalID: uuid.NewString(),
		PatientID:      uuid.NewString(),
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		SqueezeIn:      squeezeIn,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestBookAppointmentCreated(t *testing.T) {
	svc := &stubService{
		createAppt: &appointment.Appointment{
			ID:     uuid.New(),
			Status: appointment.StatusBooked,
		},
		createResult: validation.Result{Valid: true},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", bookBody(t, false))
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp BookAppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Verdict.Valid)
	assert.NotNil(t, resp.Verdict.Errors, "errors must encode as [], not null")
	assert.Equal(t, "booked", resp.Appointment.Status)
	assert.False(t, svc.lastCreate.SqueezeIn)
}

func TestBookAppointmentBlocked(t *testing.T) {
	verdict := validation.Result{
		Valid:  false,
		Errors: []string{"conflicts with an existing appointment"},
	}
	svc := &stubService{
		createErr: &booking.ValidationError{Result: verdict},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", bookBody(t, false))
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "validation_failed", resp.Error)
	require.NotNil(t, resp.Verdict)
	assert.False(t, resp.Verdict.Valid)
	assert.Equal(t, verdict.Errors, resp.Verdict.Errors)
}

func TestBookAppointmentBadIDs(t *testing.T) {
	svc := &stubService{}

	body, err := json.Marshal(BookAppointmentRequest{
		ProfessionalID: "not-a-uuid",
		PatientID:      uuid.NewString(),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBuffer(body))
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAppointmentReturnsVerdict(t *testing.T) {
	svc := &stubService{
		checkResult: validation.Result{
			Valid:    true,
			Warnings: []string{"professional is approaching the daily limit with 4 of 6 appointments booked"},
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments/check", bookBody(t, false))
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp VerdictResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Valid)
	assert.Len(t, resp.Warnings, 1)
	assert.Empty(t, resp.Errors)
}

func TestCancelAppointmentConflicts(t *testing.T) {
	svc := &stubService{cancelErr: booking.ErrAppointmentCancelled}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/appointments/"+uuid.NewString()+"/cancel", nil)
	testRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "appointment_cancelled", resp.Error)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"17:30", 1050, false},
		{"00:00", 0, false},
		{"25:00", 0, true},
		{"9am", 0, true},
	}

	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
