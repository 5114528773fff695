package get_program

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

type ProgramService interface {
	GetByID(ctx context.Context, id int64) (*models.ProgramView, error)
	Progress(ctx context.Context, programID int64) (*models.ProgressReport, error)
	AttendanceCompleteness(ctx context.Context, programID int64) (*models.AttendanceReport, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
