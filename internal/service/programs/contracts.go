package programs

import (
	"context"
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
)

// ProgramRepository интерфейс репозитория программ
type ProgramRepository interface {
	Create(ctx context.Context, p *domain.Program) (*domain.Program, error)
	GetByID(ctx context.Context, id int64) (*domain.Program, error)
	Update(ctx context.Context, p *domain.Program) error
	Delete(ctx context.Context, id int64) error
}

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error)
	GetByID(ctx context.Context, id int64) (*domain.Shift, error)
	ListByProgram(ctx context.Context, programID int64) ([]*domain.Shift, error)
	Delete(ctx context.Context, id int64) error
}

// EnrollmentRepository интерфейс репозитория записей
type EnrollmentRepository interface {
	HasPendingApplications(ctx context.Context, programID int64) (bool, error)
	CountSeatsTakenByShifts(ctx context.Context, shiftIDs []int64) (map[int64]int, error)
}

// AttendanceRepository интерфейс репозитория посещаемости
type AttendanceRepository interface {
	CountByShifts(ctx context.Context, shiftIDs []int64) (int, error)
}

// CascadeManager интерфейс каскадного удаления потомков
type CascadeManager interface {
	DeleteProgramChildren(ctx context.Context, programID int64) ([]int64, error)
	DeleteShiftChildren(ctx context.Context, shiftID int64) error
	PruneShiftsOutsideWindow(ctx context.Context, programID int64, execStart, execEnd time.Time) ([]int64, error)
}

// IdentityServiceClient интерфейс клиента IdentityService
type IdentityServiceClient interface {
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
