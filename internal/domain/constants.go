package domain

import "errors"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinShiftCapacity = 1
	MaxProgramName   = 250
	MaxLocationLen   = 255
)

// Validation errors shared by the entities
var (
	ErrRecruitmentDatesIncomplete = errors.New("recruitment dates must be set together")
	ErrRecruitmentWindowInverted  = errors.New("recruitment start must not be after recruitment end")
	ErrExecutionDatesIncomplete   = errors.New("execution dates must be set together")
	ErrExecutionWindowInverted    = errors.New("execution start must not be after execution end")
	ErrWindowsOverlap             = errors.New("recruitment window must end before execution window starts")
	ErrShiftDateRequired          = errors.New("shift date is required")
	ErrInvalidCapacity            = errors.New("shift capacity must be at least 1")
	ErrInvalidShiftTimes          = errors.New("shift start time must be before end time")
)
