package cascade

import (
	"context"
	"time"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	SoftDeleteByProgram(ctx context.Context, programID int64) ([]int64, error)
	SoftDeleteOutsideWindow(ctx context.Context, programID int64, execStart, execEnd time.Time) ([]int64, error)
}

// EnrollmentRepository интерфейс репозитория записей
type EnrollmentRepository interface {
	SoftDeleteApplicationsByProgram(ctx context.Context, programID int64) error
	SoftDeleteBookingsByShifts(ctx context.Context, shiftIDs []int64) ([]int64, error)
}

// AttendanceRepository интерфейс репозитория посещаемости
type AttendanceRepository interface {
	Exists(ctx context.Context, shiftEnrollmentID int64) (bool, error)
	SoftDeleteByEnrollment(ctx context.Context, shiftEnrollmentID int64) error
	SoftDeleteByEnrollments(ctx context.Context, shiftEnrollmentIDs []int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
