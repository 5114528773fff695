package apply_to_program

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"
)

type EnrollmentService interface {
	Apply(ctx context.Context, userID int64, programID int64) (*models.ApplicationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
