package domain

import "time"

// Attendance confirms that a volunteer attended a booked shift and logs hours.
// One-to-one with a ShiftEnrollment; never outlives its booking.
type Attendance struct {
	ID                int64
	ShiftEnrollmentID int64
	Present           bool
	Hours             *float64
	Notes             *string
	RecordedByID      *int64

	Active bool

	RecordedAt time.Time
}
