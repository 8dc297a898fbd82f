package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/validation"
)

type BookAppointmentRequest struct {
	ProfessionalID string    `json:"professional_id"`
	PatientID      string    `json:"patient_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Notes          string    `json:"notes,omitempty"`
	SqueezeIn      bool      `json:"squeeze_in,omitempty"`
}

type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	SqueezeIn bool      `json:"squeeze_in,omitempty"`
}

// WorkingHoursEntry uses "HH:MM" clock strings on the wire.
type WorkingHoursEntry struct {
	DayOfWeek int    `json:"day_of_week"` // 0 = Sunday
	Start     string `json:"start"`
	End       string `json:"end"`
}

type SetWorkingHoursRequest struct {
	Entries []WorkingHoursEntry `json:"entries"`
}

type AppointmentResponse struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	PatientID      uuid.UUID `json:"patient_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	SqueezeIn      bool      `json:"squeeze_in"`
	Notes          string    `json:"notes,omitempty"`
}

type VerdictResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type BookAppointmentResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Verdict     VerdictResponse     `json:"verdict"`
}

type ErrorResponse struct {
	Error   string           `json:"error"`
	Details string           `json:"details,omitempty"`
	Verdict *VerdictResponse `json:"verdict,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:             a.ID,
		ProfessionalID: a.ProfessionalID,
		PatientID:      a.PatientID,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         string(a.Status),
		SqueezeIn:      a.SqueezeIn,
		Notes:          a.Notes,
	}
}

// toVerdictResponse keeps errors and warnings as [] rather than null in
// the JSON body.
func toVerdictResponse(r validation.Result) VerdictResponse {
	v := VerdictResponse{
		Valid:    r.Valid,
		Errors:   r.Errors,
		Warnings: r.Warnings,
	}
	if v.Errors == nil {
		v.Errors = []string{}
	}
	if v.Warnings == nil {
		v.Warnings = []string{}
	}
	return v
}
