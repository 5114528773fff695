package update_program

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

type ProgramService interface {
	Update(ctx context.Context, userID int64, programID int64, params *models.UpdateProgramParams) (*models.UpdateProgramResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
