package mark_attendance

import "github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"

// MarkAttendanceRequest HTTP request model
type MarkAttendanceRequest struct {
	VolunteerID int64    `json:"volunteerId"`
	Present     bool     `json:"present"`
	Hours       *float64 `json:"hours,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// ToServiceParams конвертирует HTTP запрос в параметры сервиса
func (r *MarkAttendanceRequest) ToServiceParams() *models.MarkAttendanceParams {
	return &models.MarkAttendanceParams{
		VolunteerID: r.VolunteerID,
		Present:     r.Present,
		Hours:       r.Hours,
		Notes:       r.Notes,
	}
}
