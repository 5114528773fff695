package review_application

import (
	"context"

	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"
)

type EnrollmentService interface {
	Review(ctx context.Context, userID int64, applicationID int64, accept bool) (*models.ApplicationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
