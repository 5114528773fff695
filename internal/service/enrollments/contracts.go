package enrollments

import (
	"context"
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
)

// ProgramRepository интерфейс репозитория программ
type ProgramRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Program, error)
}

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
}

// AttendanceRepository интерфейс репозитория посещаемости
type AttendanceRepository interface {
	Create(ctx context.Context, a *domain.Attendance) (*domain.Attendance, error)
	Exists(ctx context.Context, shiftEnrollmentID int64) (bool, error)
}

// EnrollmentRepository интерфейс репозитория заявок и бронирований
type EnrollmentRepository interface {
	CreateApplication(ctx context.Context, e *domain.ProgramEnrollment) (*domain.ProgramEnrollment, error)
	GetApplicationByID(ctx context.Context, id int64) (*domain.ProgramEnrollment, error)
	GetApplication(ctx context.Context, programID, volunteerID int64) (*domain.ProgramEnrollment, error)
	UpdateApplicationState(ctx context.Context, id int64, state domain.ProgramEnrollmentState) error
	HasPendingApplications(ctx context.Context, programID int64) (bool, error)
	GetBooking(ctx context.Context, shiftID, volunteerID int64) (*domain.ShiftEnrollment, error)
	UpdateBookingState(ctx context.Context, id int64, state domain.ShiftEnrollmentState) error
}

// CascadeManager интерфейс каскадного удаления потомков
type CascadeManager interface {
	DeleteBookingAttendance(ctx context.Context, shiftEnrollmentID int64) error
}

// IdentityServiceClient интерфейс клиента IdentityService
type IdentityServiceClient interface {
	GetVolunteer(ctx context.Context, userID int64) (*identityservice.Volunteer, error)
	GetOrganization(ctx context.Context, organizationID int64) (*identityservice.Organization, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
