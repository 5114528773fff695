package domain

import (
	"time"
)

// Stage represents the derived lifecycle stage of a program.
// It is never stored; it is recomputed from the program's dates on every read.
type Stage string

const (
	StageUpcoming   Stage = "UPCOMING"
	StageRecruiting Stage = "RECRUITING"
	StagePreparing  Stage = "PREPARING"
	StageActive     Stage = "ACTIVE"
	StageFinished   Stage = "FINISHED"
	StageUnknown    Stage = "UNKNOWN"
)

// Program represents a volunteering opportunity published by an organization.
// An optional recruitment window precedes a mandatory execution window that is
// subdivided into dated shifts.
type Program struct {
	ID                  int64
	Name                string
	OrganizationID      *int64
	RequiresApplication bool

	// Recruitment window; nullable pair, required together
	RecruitStart *time.Time
	RecruitEnd   *time.Time

	// Execution window
	ExecStart *time.Time
	ExecEnd   *time.Time

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRecruitmentWindow returns true if both recruitment dates are set
func (p *Program) HasRecruitmentWindow() bool {
	return p.RecruitStart != nil && p.RecruitEnd != nil
}

// HasExecutionWindow returns true if both execution dates are set
func (p *Program) HasExecutionWindow() bool {
	return p.ExecStart != nil && p.ExecEnd != nil
}

// ValidateWindows checks the date-range invariants:
// recruitment dates come in pairs, each window is ordered, and the
// recruitment window must end strictly before the execution window starts.
func (p *Program) ValidateWindows() error {
	if (p.RecruitStart == nil) != (p.RecruitEnd == nil) {
		return ErrRecruitmentDatesIncomplete
	}

	if p.HasRecruitmentWindow() && dateOnly(*p.RecruitStart).After(dateOnly(*p.RecruitEnd)) {
		return ErrRecruitmentWindowInverted
	}

	if (p.ExecStart == nil) != (p.ExecEnd == nil) {
		return ErrExecutionDatesIncomplete
	}

	if p.HasExecutionWindow() && dateOnly(*p.ExecStart).After(dateOnly(*p.ExecEnd)) {
		return ErrExecutionWindowInverted
	}

	if p.HasRecruitmentWindow() && p.HasExecutionWindow() &&
		!dateOnly(*p.RecruitEnd).Before(dateOnly(*p.ExecStart)) {
		return ErrWindowsOverlap
	}

	return nil
}

// ContainsDate returns true if the given date falls inside the execution window
func (p *Program) ContainsDate(date time.Time) bool {
	if !p.HasExecutionWindow() {
		return false
	}
	d := dateOnly(date)
	return !d.Before(dateOnly(*p.ExecStart)) && !d.After(dateOnly(*p.ExecEnd))
}

// dateOnly truncates a timestamp to day granularity
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
