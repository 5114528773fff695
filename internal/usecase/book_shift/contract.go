package book_shift

import (
	"context"
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
}

// ProgramRepository интерфейс репозитория программ
type ProgramRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Program, error)
}

// EnrollmentRepository интерфейс репозитория заявок и бронирований
type EnrollmentRepository interface {
	CreateApplication(ctx context.Context, e *domain.ProgramEnrollment) (*domain.ProgramEnrollment, error)
	GetApplication(ctx context.Context, programID, volunteerID int64) (*domain.ProgramEnrollment, error)
	UpdateApplicationState(ctx context.Context, id int64, state domain.ProgramEnrollmentState) error
	CreateBooking(ctx context.Context, e *domain.ShiftEnrollment) (*domain.ShiftEnrollment, error)
	GetBooking(ctx context.Context, shiftID, volunteerID int64) (*domain.ShiftEnrollment, error)
	CountSeatsTaken(ctx context.Context, shiftID int64) (int, error)
	UpdateBookingState(ctx context.Context, id int64, state domain.ShiftEnrollmentState) error
}

// IdentityServiceClient интерфейс клиента IdentityService
type IdentityServiceClient interface {
	GetVolunteer(ctx context.Context, userID int64) (*identityservice.Volunteer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
