package book_shift

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	enrollmentRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/enrollment"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	shiftRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/shift"
	identityClient "github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
)

// UseCase use case для бронирования места на смене
type UseCase struct {
	shiftRepo      ShiftRepository
	programRepo    ProgramRepository
	enrollmentRepo EnrollmentRepository
	identityClient IdentityServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shiftRepo ShiftRepository,
	programRepo ProgramRepository,
	enrollmentRepo EnrollmentRepository,
	identityClient IdentityServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		shiftRepo:      shiftRepo,
		programRepo:    programRepo,
		enrollmentRepo: enrollmentRepo,
		identityClient: identityClient,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case бронирования смены
// Использует сериализуемую транзакцию с блокировкой строки смены
// для предотвращения овербукинга при конкурентных запросах
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookShift: user=%d, shift=%d", req.UserID, req.ShiftID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookShift: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем профиль волонтера (вне транзакции)
	volunteer, err := uc.identityClient.GetVolunteer(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, identityClient.ErrVolunteerNotFound) {
			uc.logger.Warn("BookShift: user id=%d has no volunteer profile", req.UserID)
			return nil, ErrVolunteerNotFound
		}
		uc.logger.Error("BookShift: failed to get volunteer for user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get volunteer: %v", ErrInternal, err)
	}

	var result *Response

	// 3. Все проверки и запись выполняются в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем смену с блокировкой строки (FOR UPDATE).
		// Пока транзакция держит блокировку, конкурирующие бронирования
		// этой смены ждут на этом же чтении.
		shift, err := uc.shiftRepo.GetByID(txCtx, req.ShiftID)
		if err != nil {
			if errors.Is(err, shiftRepo.ErrShiftNotFound) {
				uc.logger.Warn("BookShift: shift id=%d not found", req.ShiftID)
				return ErrShiftNotFound
			}
			uc.logger.Error("BookShift: failed to get shift id=%d: %v", req.ShiftID, err)
			return fmt.Errorf("%w: failed to get shift: %v", ErrInternal, err)
		}

		// 3.2. Получаем программу смены
		program, err := uc.programRepo.GetByID(txCtx, shift.ProgramID)
		if err != nil {
			if errors.Is(err, programRepo.ErrProgramNotFound) {
				uc.logger.Warn("BookShift: program id=%d not found", shift.ProgramID)
				return ErrProgramNotFound
			}
			uc.logger.Error("BookShift: failed to get program id=%d: %v", shift.ProgramID, err)
			return fmt.Errorf("%w: failed to get program: %v", ErrInternal, err)
		}

		// 3.3. Проверяем запись волонтера на программу
		if err := uc.ensureProgramEnrollment(txCtx, program, volunteer.ID); err != nil {
			return err
		}

		// 3.4. Считаем занятые места
		seatsTaken, err := uc.enrollmentRepo.CountSeatsTaken(txCtx, shift.ID)
		if err != nil {
			uc.logger.Error("BookShift: failed to count seats for shift id=%d: %v", shift.ID, err)
			return fmt.Errorf("%w: failed to count seats: %v", ErrInternal, err)
		}
		if seatsTaken >= shift.Capacity {
			uc.logger.Warn("BookShift: shift id=%d is full, %d/%d seats taken", shift.ID, seatsTaken, shift.Capacity)
			return ErrShiftFull
		}

		// 3.5. Ищем существующее бронирование пары (смена, волонтер)
		existing, err := uc.enrollmentRepo.GetBooking(txCtx, shift.ID, volunteer.ID)
		if err != nil && !errors.Is(err, enrollmentRepo.ErrBookingNotFound) {
			uc.logger.Error("BookShift: failed to get booking for shift id=%d volunteer=%d: %v", shift.ID, volunteer.ID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if existing != nil {
			if existing.CountsTowardCapacity() {
				uc.logger.Warn("BookShift: volunteer=%d already booked shift id=%d, state=%s", volunteer.ID, shift.ID, existing.State)
				return ErrAlreadyBooked
			}

			// Отмененное бронирование реактивируется, не дублируется
			if err := uc.enrollmentRepo.UpdateBookingState(txCtx, existing.ID, domain.BookingBooked); err != nil {
				uc.logger.Error("BookShift: failed to reactivate booking id=%d: %v", existing.ID, err)
				return fmt.Errorf("%w: failed to reactivate booking: %v", ErrInternal, err)
			}
			existing.State = domain.BookingBooked

			uc.logger.Info("BookShift: reactivated booking id=%d, %d/%d seats taken", existing.ID, seatsTaken+1, shift.Capacity)
			result = buildResponse(existing, shift, seatsTaken+1)
			return nil
		}

		created, err := uc.enrollmentRepo.CreateBooking(txCtx, &domain.ShiftEnrollment{
			ShiftID:     shift.ID,
			VolunteerID: volunteer.ID,
			State:       domain.BookingBooked,
			EnrolledAt:  uc.timeProvider.Now(),
		})
		if err != nil {
			uc.logger.Error("BookShift: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		uc.logger.Info("BookShift: created booking id=%d, %d/%d seats taken", created.ID, seatsTaken+1, shift.Capacity)
		result = buildResponse(created, shift, seatsTaken+1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ensureProgramEnrollment проверяет, что волонтер вправе бронировать смены программы.
// Для самозаписных программ недостающая запись создается автоматически в
// состоянии ACCEPTED, отмененная - реактивируется. Для программ с отбором
// требуется активная заявка в состоянии APPLIED или ACCEPTED.
func (uc *UseCase) ensureProgramEnrollment(ctx context.Context, program *domain.Program, volunteerID int64) error {
	enrollment, err := uc.enrollmentRepo.GetApplication(ctx, program.ID, volunteerID)
	if err != nil && !errors.Is(err, enrollmentRepo.ErrApplicationNotFound) {
		uc.logger.Error("BookShift: failed to get enrollment for program id=%d volunteer=%d: %v", program.ID, volunteerID, err)
		return fmt.Errorf("%w: failed to get enrollment: %v", ErrInternal, err)
	}

	if program.RequiresApplication {
		if enrollment == nil || !enrollment.QualifiesForBooking() {
			uc.logger.Warn("BookShift: volunteer=%d is not enrolled in program id=%d", volunteerID, program.ID)
			return ErrNotEnrolled
		}
		return nil
	}

	if enrollment == nil {
		if _, err := uc.enrollmentRepo.CreateApplication(ctx, &domain.ProgramEnrollment{
			ProgramID:   program.ID,
			VolunteerID: volunteerID,
			State:       domain.ApplicationAccepted,
		}); err != nil {
			uc.logger.Error("BookShift: failed to auto-enroll volunteer=%d in program id=%d: %v", volunteerID, program.ID, err)
			return fmt.Errorf("%w: failed to auto-enroll: %v", ErrInternal, err)
		}
		uc.logger.Info("BookShift: auto-enrolled volunteer=%d in self-service program id=%d", volunteerID, program.ID)
		return nil
	}

	if enrollment.IsCancelled() {
		if err := uc.enrollmentRepo.UpdateApplicationState(ctx, enrollment.ID, domain.ApplicationAccepted); err != nil {
			uc.logger.Error("BookShift: failed to reactivate enrollment id=%d: %v", enrollment.ID, err)
			return fmt.Errorf("%w: failed to reactivate enrollment: %v", ErrInternal, err)
		}
		uc.logger.Info("BookShift: reactivated enrollment id=%d for volunteer=%d", enrollment.ID, volunteerID)
		return nil
	}

	if !enrollment.QualifiesForBooking() {
		uc.logger.Warn("BookShift: volunteer=%d has rejected enrollment in program id=%d", volunteerID, program.ID)
		return ErrNotEnrolled
	}

	return nil
}
