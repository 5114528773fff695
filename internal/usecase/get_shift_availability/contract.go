package get_shift_availability

import (
	"context"
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
)

// ProgramRepository интерфейс репозитория программ
type ProgramRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Program, error)
}

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	ListByProgram(ctx context.Context, programID int64) ([]*domain.Shift, error)
}

// EnrollmentRepository интерфейс репозитория заявок и бронирований
type EnrollmentRepository interface {
	HasPendingApplications(ctx context.Context, programID int64) (bool, error)
	CountSeatsTakenByShifts(ctx context.Context, shiftIDs []int64) (map[int64]int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
