package cancel_shift_booking

import "context"

type EnrollmentService interface {
	CancelShiftBooking(ctx context.Context, userID int64, shiftID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
