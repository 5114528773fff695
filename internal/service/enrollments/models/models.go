package models

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
)

// ApplicationResponse заявка волонтера на программу
type ApplicationResponse struct {
	ID          int64  `json:"id"`
	ProgramID   int64  `json:"program_id"`
	VolunteerID int64  `json:"volunteer_id"`
	State       string `json:"state"`
}

// FromDomainApplication конвертирует доменную заявку в ответ
func FromDomainApplication(e *domain.ProgramEnrollment) *ApplicationResponse {
	return &ApplicationResponse{
		ID:          e.ID,
		ProgramID:   e.ProgramID,
		VolunteerID: e.VolunteerID,
		State:       string(e.State),
	}
}

// BookingResponse бронирование смены волонтером
type BookingResponse struct {
	ID          int64     `json:"id"`
	ShiftID     int64     `json:"shift_id"`
	VolunteerID int64     `json:"volunteer_id"`
	State       string    `json:"state"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// FromDomainBooking конвертирует доменное бронирование в ответ
func FromDomainBooking(e *domain.ShiftEnrollment) *BookingResponse {
	return &BookingResponse{
		ID:          e.ID,
		ShiftID:     e.ShiftID,
		VolunteerID: e.VolunteerID,
		State:       string(e.State),
		EnrolledAt:  e.EnrolledAt,
	}
}

// MarkAttendanceParams параметры отметки посещаемости
type MarkAttendanceParams struct {
	VolunteerID int64
	Present     bool
	Hours       *float64
	Notes       *string
}

// AttendanceRecord запись посещаемости вместе с бронированием
type AttendanceRecord struct {
	ID         int64            `json:"id"`
	Booking    *BookingResponse `json:"booking"`
	Present    bool             `json:"present"`
	Hours      *float64         `json:"hours,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	RecordedAt time.Time        `json:"recorded_at"`
}

// FromDomainAttendance конвертирует запись посещаемости в ответ
func FromDomainAttendance(a *domain.Attendance, booking *domain.ShiftEnrollment) *AttendanceRecord {
	return &AttendanceRecord{
		ID:         a.ID,
		Booking:    FromDomainBooking(booking),
		Present:    a.Present,
		Hours:      a.Hours,
		Notes:      a.Notes,
		RecordedAt: a.RecordedAt,
	}
}
