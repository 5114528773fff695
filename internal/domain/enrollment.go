package domain

import "time"

// ProgramEnrollmentState represents a volunteer's application status for a program
type ProgramEnrollmentState string

const (
	ApplicationApplied   ProgramEnrollmentState = "APPLIED"
	ApplicationCancelled ProgramEnrollmentState = "CANCELLED"
	ApplicationAccepted  ProgramEnrollmentState = "ACCEPTED"
	ApplicationRejected  ProgramEnrollmentState = "REJECTED"
)

// ProgramEnrollment represents a volunteer's application/acceptance status for
// a program. At most one active, non-cancelled row exists per (program,
// volunteer) pair; cancelled rows are reactivated instead of duplicated.
type ProgramEnrollment struct {
	ID          int64
	ProgramID   int64
	VolunteerID int64
	State       ProgramEnrollmentState

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the application was cancelled by the volunteer
func (e *ProgramEnrollment) IsCancelled() bool {
	return e.State == ApplicationCancelled
}

// IsPending returns true while the application awaits manager review
func (e *ProgramEnrollment) IsPending() bool {
	return e.State == ApplicationApplied
}

// QualifiesForBooking returns true if this enrollment lets the volunteer book
// shifts of the program
func (e *ProgramEnrollment) QualifiesForBooking() bool {
	return e.State == ApplicationApplied || e.State == ApplicationAccepted
}

// ShiftEnrollmentState represents a volunteer's booking status for a shift
type ShiftEnrollmentState string

const (
	BookingBooked    ShiftEnrollmentState = "BOOKED"
	BookingCancelled ShiftEnrollmentState = "CANCELLED"
	BookingAttended  ShiftEnrollmentState = "ATTENDED"
)

// CapacityStates are the booking states that occupy a seat.
// The count of rows in these states never exceeds the shift's capacity.
var CapacityStates = []ShiftEnrollmentState{BookingBooked, BookingAttended}

// ShiftEnrollment represents a volunteer's booking into a specific shift.
// A volunteer has at most one non-cancelled row per shift; cancelled rows are
// reactivated instead of duplicated.
type ShiftEnrollment struct {
	ID          int64
	ShiftID     int64
	VolunteerID int64
	State       ShiftEnrollmentState
	EnrolledAt  time.Time

	Active bool

	UpdatedAt time.Time
}

// CountsTowardCapacity returns true if this booking occupies a seat
func (e *ShiftEnrollment) CountsTowardCapacity() bool {
	return e.State == BookingBooked || e.State == BookingAttended
}

// IsCancelled returns true if the booking was cancelled
func (e *ShiftEnrollment) IsCancelled() bool {
	return e.State == BookingCancelled
}
