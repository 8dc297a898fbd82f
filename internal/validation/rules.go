package validation

// Rules holds the business constants the validators enforce. They are
// passed in explicitly so each clinic deployment can tune them and tests
// can pin them down.
type Rules struct {
	// MaxAppointmentsPerDay is the hard cap on non-cancelled
	// appointments a professional may hold in one calendar day.
	MaxAppointmentsPerDay int
	// MinHoursBetweenSamePatientVisits is the recommended minimum gap
	// between two visits of the same patient with the same professional.
	MinHoursBetweenSamePatientVisits int
	// MaxDailyWorkHours is the advisory ceiling on a professional's
	// total booked hours in a day.
	MaxDailyWorkHours int

	MinAppointmentDurationMinutes int
	MaxAppointmentDurationMinutes int
}

// DefaultRules returns the stock clinic configuration.
func DefaultRules() Rules {
	return Rules{
		MaxAppointmentsPerDay:            12,
		MinHoursBetweenSamePatientVisits: 12,
		MaxDailyWorkHours:                8,
		MinAppointmentDurationMinutes:    15,
		MaxAppointmentDurationMinutes:    240,
	}
}
