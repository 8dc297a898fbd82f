package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

type Patient struct {
	ID        uuid.UUID
	Name      string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Professional struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkingHours is one availability window for a professional on a given
// weekday. A professional may have several windows on the same day, one
// per shift. StartMinute and EndMinute are minutes since midnight.
type WorkingHours struct {
	ID             int64
	ProfessionalID uuid.UUID
	DayOfWeek      time.Weekday
	StartMinute    int
	EndMinute      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Appointment struct {
	ID             uuid.UUID
	ProfessionalID uuid.UUID
	PatientID      uuid.UUID
	StartTime      time.Time
	EndTime        time.Time
	Status         Status
	// SqueezeIn marks an appointment the operator forced through
	// despite validation errors.
	SqueezeIn bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
