package create_program

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

type ProgramService interface {
	Create(ctx context.Context, userID int64, params *models.CreateProgramParams) (*domain.Program, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
