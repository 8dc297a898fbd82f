package validation

import (
	"context"
	"fmt"
	"time"
)

// spacingQueryWindow is how far around the proposed start the spacing
// validator looks for the patient's other visits. Wider than any sane
// spacing rule; the exact threshold is applied in memory.
const spacingQueryWindow = 24 * time.Hour

const timeFormat = "2006-01-02 15:04"

func (e *Engine) checkDuration(p Proposed) Result {
	if !p.End.After(p.Start) {
		return invalid("appointment end time must be after its start time")
	}

	minutes := DurationMinutes(p.Start, p.End)
	if minutes < e.rules.MinAppointmentDurationMinutes {
		return invalid(fmt.Sprintf("appointment duration of %d minutes is below the %d minute minimum", minutes, e.rules.MinAppointmentDurationMinutes))
	}
	if minutes > e.rules.MaxAppointmentDurationMinutes {
		return invalid(fmt.Sprintf("appointment duration of %d minutes exceeds the %d minute maximum", minutes, e.rules.MaxAppointmentDurationMinutes))
	}

	return ok()
}

func (e *Engine) checkNotInPast(p Proposed) Result {
	// Starting exactly at "now" is allowed; only strictly-before is
	// rejected.
	if p.Start.Before(e.now()) {
		return invalid("appointment start time is in the past")
	}
	return ok()
}

// checkConflicts looks for existing appointments of the professional that
// overlap the proposed interval. A store failure here is a hard error: a
// missed conflict is worse than a false block.
func (e *Engine) checkConflicts(ctx context.Context, p Proposed) Result {
	existing, err := e.store.OverlappingAppointments(ctx, p.ProfessionalID, p.Start, p.End, p.ExcludeAppointmentID)
	if err != nil {
		return invalid(fmt.Sprintf("could not check for schedule conflicts: %v", err))
	}

	if len(existing) == 0 {
		return ok()
	}

	msgs := make([]string, 0, len(existing))
	for _, a := range existing {
		msgs = append(msgs, fmt.Sprintf(
			"conflicts with an existing appointment for patient %s from %s to %s",
			a.PatientID,
			a.StartTime.Format(timeFormat),
			a.EndTime.Format(timeFormat),
		))
	}
	return invalid(msgs...)
}

// checkWorkingHours requires the proposed interval to fit inside a single
// configured shift for that weekday; a booking may not span two separate
// shifts. A store failure downgrades to a warning since the schedule
// lookup is advisory when unavailable.
func (e *Engine) checkWorkingHours(ctx context.Context, p Proposed) Result {
	entries, err := e.store.WorkingHoursForDay(ctx, p.ProfessionalID, p.Start.Weekday())
	if err != nil {
		return advisory(fmt.Sprintf("could not verify working hours: %v", err))
	}

	if len(entries) == 0 {
		return invalid(fmt.Sprintf("no working hours configured for %s", p.Start.Weekday()))
	}

	startMinute := p.Start.Hour()*60 + p.Start.Minute()
	endMinute := startMinute + DurationMinutes(p.Start, p.End)

	for _, wh := range entries {
		if startMinute >= wh.StartMinute && endMinute <= wh.EndMinute {
			return ok()
		}
	}

	return invalid(fmt.Sprintf(
		"%s to %s falls outside the professional's working hours on %s",
		p.Start.Format("15:04"),
		p.End.Format("15:04"),
		p.Start.Weekday(),
	))
}

// checkDailyCapacity counts the professional's existing appointments on
// the proposed day; the proposed appointment itself is not counted. The
// last two slots before the cap produce an early warning.
func (e *Engine) checkDailyCapacity(ctx context.Context, p Proposed) Result {
	count, err := e.store.CountAppointmentsOnDay(ctx, p.ProfessionalID, p.Start, p.ExcludeAppointmentID)
	if err != nil {
		// Guards a blocking rule, so a failed lookup blocks too.
		return invalid(fmt.Sprintf("could not check daily appointment capacity: %v", err))
	}

	limit := e.rules.MaxAppointmentsPerDay
	switch {
	case count >= limit:
		return invalid(fmt.Sprintf("professional already has %d appointments on %s (limit %d)", count, p.Start.Format("2006-01-02"), limit))
	case count >= limit-2:
		return advisory(fmt.Sprintf("professional is approaching the daily limit with %d of %d appointments booked", count, limit))
	default:
		return ok()
	}
}

func (e *Engine) checkDailyWorkload(ctx context.Context, p Proposed) Result {
	appts, err := e.store.AppointmentsOnDay(ctx, p.ProfessionalID, p.Start, p.ExcludeAppointmentID)
	if err != nil {
		return advisory(fmt.Sprintf("could not check daily workload: %v", err))
	}

	totalMinutes := DurationMinutes(p.Start, p.End)
	for _, a := range appts {
		totalMinutes += DurationMinutes(a.StartTime, a.EndTime)
	}

	if totalMinutes > e.rules.MaxDailyWorkHours*60 {
		return advisory(fmt.Sprintf(
			"booking this would put the professional at %.1f hours for the day, above the %d hour limit",
			float64(totalMinutes)/60,
			e.rules.MaxDailyWorkHours,
		))
	}

	return ok()
}

// checkPatientSpacing warns, one message per prior visit, when the same
// patient already sees the same professional too close to the proposed
// start. Never blocks.
func (e *Engine) checkPatientSpacing(ctx context.Context, p Proposed) Result {
	visits, err := e.store.PatientAppointmentsNear(ctx, p.ProfessionalID, p.PatientID, p.Start, spacingQueryWindow, p.ExcludeAppointmentID)
	if err != nil {
		return advisory(fmt.Sprintf("could not check spacing between the patient's visits: %v", err))
	}

	minGap := time.Duration(e.rules.MinHoursBetweenSamePatientVisits) * time.Hour

	var msgs []string
	for _, v := range visits {
		gap := p.Start.Sub(v.StartTime)
		if gap < 0 {
			gap = -gap
		}
		if gap < minGap {
			msgs = append(msgs, fmt.Sprintf(
				"patient already has a visit with this professional at %s, only %.1f hours from the proposed time (recommended minimum %d hours)",
				v.StartTime.Format(timeFormat),
				gap.Hours(),
				e.rules.MinHoursBetweenSamePatientVisits,
			))
		}
	}

	if len(msgs) > 0 {
		return advisory(msgs...)
	}
	return ok()
}
