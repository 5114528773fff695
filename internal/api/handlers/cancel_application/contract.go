package cancel_application

import "context"

type EnrollmentService interface {
	CancelApplication(ctx context.Context, userID int64, programID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
