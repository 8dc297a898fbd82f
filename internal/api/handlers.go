package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/booking"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func bookAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeBookingRequest(w, r)
		if !ok {
			return
		}

		appt, verdict, err := svc.Create(r.Context(), req)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookAppointmentResponse{
			Appointment: toAppointmentResponse(appt),
			Verdict:     toVerdictResponse(verdict),
		})
	}
}

func checkAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeBookingRequest(w, r)
		if !ok {
			return
		}

		verdict, err := svc.Check(r.Context(), req)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVerdictResponse(verdict))
	}
}

func rescheduleAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var body RescheduleAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, verdict, err := svc.Reschedule(r.Context(), id, booking.Request{
			Start:     body.StartTime,
			End:       body.EndTime,
			SqueezeIn: body.SqueezeIn,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, BookAppointmentResponse{
			Appointment: toAppointmentResponse(appt),
			Verdict:     toVerdictResponse(verdict),
		})
	}
}

func cancelAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		appt, err := svc.Cancel(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func listDayHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		professionalID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		appts, err := svc.ListDay(r.Context(), professionalID, day)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func setWorkingHoursHandler(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		professionalID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var body SetWorkingHoursRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		entries := make([]appointment.WorkingHours, 0, len(body.Entries))
		for _, e := range body.Entries {
			startMin, err := parseClock(e.Start)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_working_hours", err.Error())
				return
			}
			endMin, err := parseClock(e.End)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_working_hours", err.Error())
				return
			}
			entries = append(entries, appointment.WorkingHours{
				ProfessionalID: professionalID,
				DayOfWeek:      time.Weekday(e.DayOfWeek),
				StartMinute:    startMin,
				EndMinute:      endMin,
			})
		}

		if err := svc.SetWorkingHours(r.Context(), professionalID, entries); err != nil {
			handleBookingError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeBookingRequest(w http.ResponseWriter, r *http.Request) (booking.Request, bool) {
	var body BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return booking.Request{}, false
	}

	professionalID, err := uuid.Parse(body.ProfessionalID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_professional_id", "professional_id must be a valid UUID")
		return booking.Request{}, false
	}

	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return booking.Request{}, false
	}

	return booking.Request{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		Start:          body.StartTime,
		End:            body.EndTime,
		Notes:          body.Notes,
		SqueezeIn:      body.SqueezeIn,
	}, true
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", param+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("time %q must be in HH:MM format", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func handleBookingError(w http.ResponseWriter, err error) {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		verdict := toVerdictResponse(vErr.Result)
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Details: "appointment violates one or more booking rules",
			Verdict: &verdict,
		})
		return
	}

	switch {
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, appointment.ErrProfessionalNotFound):
		writeError(w, http.StatusNotFound, "professional_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentCancelled):
		writeError(w, http.StatusConflict, "appointment_cancelled", err.Error())
	case errors.Is(err, booking.ErrProfessionalBusy):
		writeError(w, http.StatusConflict, "professional_busy", "another booking for this professional is in progress, please retry shortly")
	case errors.Is(err, booking.ErrInvalidWorkingHours):
		writeError(w, http.StatusBadRequest, "invalid_working_hours", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
