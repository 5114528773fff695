package domain

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

// Shift represents a dated, capacity-limited time slot under a program
type Shift struct {
	ID        int64
	ProgramID int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
	Location  *string

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the shift's own invariants.
// The shift date is deliberately NOT checked against the program's execution
// window here; out-of-window shifts are pruned at program-edit time instead.
func (s *Shift) Validate() error {
	if s.Date.IsZero() {
		return ErrShiftDateRequired
	}
	if s.Capacity < MinShiftCapacity {
		return ErrInvalidCapacity
	}
	if err := s.StartTime.Validate(); err != nil {
		return ErrInvalidShiftTimes
	}
	if err := s.EndTime.Validate(); err != nil {
		return ErrInvalidShiftTimes
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return ErrInvalidShiftTimes
	}
	return nil
}

// IsFinished returns true once the shift's date has passed, or its end time
// has been reached on the shift's own day
func (s *Shift) IsFinished(today time.Time, now types.TimeString) bool {
	shiftDay := dateOnly(s.Date)
	day := dateOnly(today)

	if shiftDay.Before(day) {
		return true
	}
	if shiftDay.Equal(day) && !s.EndTime.IsAfter(now) {
		return true
	}
	return false
}
