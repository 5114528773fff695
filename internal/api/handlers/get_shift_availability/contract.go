package get_shift_availability

import (
	"context"

	getShiftAvailability "github.com/campusvol/UVP-EnrollmentService/internal/usecase/get_shift_availability"
)

type GetShiftAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getShiftAvailability.Request) (*getShiftAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
