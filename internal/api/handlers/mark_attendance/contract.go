package mark_attendance

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"
)

type EnrollmentService interface {
	MarkAttendance(ctx context.Context, userID int64, shiftID int64, params *models.MarkAttendanceParams) (*models.AttendanceRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
