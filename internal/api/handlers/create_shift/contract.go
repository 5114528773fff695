package create_shift

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

type ProgramService interface {
	CreateShift(ctx context.Context, userID int64, params *models.CreateShiftParams) (*domain.Shift, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
