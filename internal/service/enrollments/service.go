package enrollments

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	enrollmentRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/enrollment"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	shiftRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/shift"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"
)

// Service сервис для работы с заявками на программы, бронированиями
// и учетом посещаемости
type Service struct {
	programRepo    ProgramRepository
	shiftRepo      ShiftRepository
	enrollmentRepo EnrollmentRepository
	attendanceRepo AttendanceRepository
	cascade        CascadeManager
	identityClient IdentityServiceClient
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	programRepo ProgramRepository,
	shiftRepo ShiftRepository,
	enrollmentRepo EnrollmentRepository,
	attendanceRepo AttendanceRepository,
	cascade CascadeManager,
	identityClient IdentityServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		programRepo:    programRepo,
		shiftRepo:      shiftRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
		cascade:        cascade,
		identityClient: identityClient,
		txManager:      txManager,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

// Apply подает заявку волонтера на программу.
// Заявки принимаются только на этапе набора. Отмененная ранее заявка
// реактивируется вместо создания дубликата.
func (s *Service) Apply(ctx context.Context, userID int64, programID int64) (*models.ApplicationResponse, error) {
	s.logger.Info("Apply: user=%d applying to program id=%d", userID, programID)

	volunteer, err := s.getVolunteer(ctx, userID)
	if err != nil {
		return nil, err
	}

	program, err := s.getProgram(ctx, programID, "Apply")
	if err != nil {
		return nil, err
	}

	stage, err := s.resolveStage(ctx, program)
	if err != nil {
		return nil, err
	}
	if stage != domain.StageRecruiting {
		s.logger.Warn("Apply: program id=%d is not recruiting, stage=%s", programID, stage)
		return nil, ErrNotRecruiting
	}

	// Проверка уникальности и вставка выполняются в одной транзакции,
	// конкурентная двойная подача дубликат не создает
	var application *domain.ProgramEnrollment
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.enrollmentRepo.GetApplication(ctx, programID, volunteer.ID)
		if err != nil && !errors.Is(err, enrollmentRepo.ErrApplicationNotFound) {
			s.logger.Error("Apply: repository error for program id=%d volunteer=%d: %v", programID, volunteer.ID, err)
			return fmt.Errorf("%w: Apply - repository error: %v", ErrInternal, err)
		}

		if existing != nil {
			if !existing.IsCancelled() {
				s.logger.Warn("Apply: volunteer=%d already has application id=%d in state=%s", volunteer.ID, existing.ID, existing.State)
				return ErrAlreadyApplied
			}

			if err := s.enrollmentRepo.UpdateApplicationState(ctx, existing.ID, domain.ApplicationApplied); err != nil {
				s.logger.Error("Apply: reactivate application id=%d: %v", existing.ID, err)
				return fmt.Errorf("%w: Apply - reactivate application: %v", ErrInternal, err)
			}
			existing.State = domain.ApplicationApplied
			application = existing

			s.logger.Info("Apply: reactivated application id=%d for volunteer=%d", existing.ID, volunteer.ID)
			return nil
		}

		created, err := s.enrollmentRepo.CreateApplication(ctx, &domain.ProgramEnrollment{
			ProgramID:   programID,
			VolunteerID: volunteer.ID,
			State:       domain.ApplicationApplied,
		})
		if err != nil {
			if errors.Is(err, enrollmentRepo.ErrDuplicateApplication) {
				s.logger.Warn("Apply: concurrent duplicate application for volunteer=%d in program id=%d", volunteer.ID, programID)
				return ErrAlreadyApplied
			}
			s.logger.Error("Apply: create application for volunteer=%d: %v", volunteer.ID, err)
			return fmt.Errorf("%w: Apply - create application: %v", ErrInternal, err)
		}
		application = created

		s.logger.Info("Apply: created application id=%d for volunteer=%d", created.ID, volunteer.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return models.FromDomainApplication(application), nil
}

// CancelApplication отменяет заявку волонтера.
// Отмена недоступна после завершения программы. Повторная отмена
// ведет себя как отмена несуществующей заявки.
func (s *Service) CancelApplication(ctx context.Context, userID int64, programID int64) error {
	s.logger.Info("CancelApplication: user=%d cancelling application for program id=%d", userID, programID)

	volunteer, err := s.getVolunteer(ctx, userID)
	if err != nil {
		return err
	}

	program, err := s.getProgram(ctx, programID, "CancelApplication")
	if err != nil {
		return err
	}

	stage, err := s.resolveStage(ctx, program)
	if err != nil {
		return err
	}
	if stage == domain.StageFinished {
		s.logger.Warn("CancelApplication: program id=%d is finished", programID)
		return ErrProgramFinished
	}

	application, err := s.enrollmentRepo.GetApplication(ctx, programID, volunteer.ID)
	if err != nil {
		if errors.Is(err, enrollmentRepo.ErrApplicationNotFound) {
			s.logger.Warn("CancelApplication: no application for volunteer=%d in program id=%d", volunteer.ID, programID)
			return ErrApplicationNotFound
		}
		s.logger.Error("CancelApplication: repository error: %v", err)
		return fmt.Errorf("%w: CancelApplication - repository error: %v", ErrInternal, err)
	}

	if application.IsCancelled() {
		s.logger.Warn("CancelApplication: application id=%d already cancelled", application.ID)
		return ErrApplicationNotFound
	}

	if err := s.enrollmentRepo.UpdateApplicationState(ctx, application.ID, domain.ApplicationCancelled); err != nil {
		s.logger.Error("CancelApplication: update application id=%d: %v", application.ID, err)
		return fmt.Errorf("%w: CancelApplication - update state: %v", ErrInternal, err)
	}

	s.logger.Info("CancelApplication: cancelled application id=%d", application.ID)
	return nil
}

// Review рассматривает заявку: менеджер организации принимает или отклоняет её.
// Рассмотрению подлежат только поданные заявки.
func (s *Service) Review(ctx context.Context, userID int64, applicationID int64, accept bool) (*models.ApplicationResponse, error) {
	s.logger.Info("Review: user=%d reviewing application id=%d, accept=%t", userID, applicationID, accept)

	application, err := s.enrollmentRepo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, enrollmentRepo.ErrApplicationNotFound) {
			s.logger.Warn("Review: application id=%d not found", applicationID)
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("Review: repository error for application id=%d: %v", applicationID, err)
		return nil, fmt.Errorf("%w: Review - repository error: %v", ErrInternal, err)
	}

	program, err := s.getProgram(ctx, application.ProgramID, "Review")
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return nil, err
	}

	if !application.IsPending() {
		s.logger.Warn("Review: application id=%d is in state=%s, not pending", applicationID, application.State)
		return nil, ErrNotPending
	}

	state := domain.ApplicationRejected
	if accept {
		state = domain.ApplicationAccepted
	}

	if err := s.enrollmentRepo.UpdateApplicationState(ctx, applicationID, state); err != nil {
		s.logger.Error("Review: update application id=%d: %v", applicationID, err)
		return nil, fmt.Errorf("%w: Review - update state: %v", ErrInternal, err)
	}
	application.State = state

	s.logger.Info("Review: application id=%d moved to state=%s", applicationID, state)
	return models.FromDomainApplication(application), nil
}

// CancelShiftBooking отменяет бронирование волонтера на смену.
// Вместе с бронированием мягко удаляется его запись посещаемости.
// Повторная отмена ведет себя как отмена несуществующего бронирования.
func (s *Service) CancelShiftBooking(ctx context.Context, userID int64, shiftID int64) error {
	s.logger.Info("CancelShiftBooking: user=%d cancelling booking for shift id=%d", userID, shiftID)

	volunteer, err := s.getVolunteer(ctx, userID)
	if err != nil {
		return err
	}

	booking, err := s.enrollmentRepo.GetBooking(ctx, shiftID, volunteer.ID)
	if err != nil {
		if errors.Is(err, enrollmentRepo.ErrBookingNotFound) {
			s.logger.Warn("CancelShiftBooking: no booking for volunteer=%d on shift id=%d", volunteer.ID, shiftID)
			return ErrBookingNotFound
		}
		s.logger.Error("CancelShiftBooking: repository error: %v", err)
		return fmt.Errorf("%w: CancelShiftBooking - repository error: %v", ErrInternal, err)
	}

	if booking.IsCancelled() {
		s.logger.Warn("CancelShiftBooking: booking id=%d already cancelled", booking.ID)
		return ErrBookingNotFound
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.enrollmentRepo.UpdateBookingState(ctx, booking.ID, domain.BookingCancelled); err != nil {
			return fmt.Errorf("%w: CancelShiftBooking - update state: %v", ErrInternal, err)
		}

		if err := s.cascade.DeleteBookingAttendance(ctx, booking.ID); err != nil {
			return fmt.Errorf("%w: CancelShiftBooking - delete attendance: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("CancelShiftBooking: transaction failed for booking id=%d: %v", booking.ID, err)
		return err
	}

	s.logger.Info("CancelShiftBooking: cancelled booking id=%d", booking.ID)
	return nil
}

// MarkAttendance отмечает посещаемость бронирования менеджером программы.
// Бронирование с подтвержденным присутствием переходит в состояние ATTENDED;
// повторная отметка по тому же бронированию отклоняется.
func (s *Service) MarkAttendance(ctx context.Context, userID int64, shiftID int64, params *models.MarkAttendanceParams) (*models.AttendanceRecord, error) {
	s.logger.Info("MarkAttendance: user=%d marking attendance for volunteer=%d on shift id=%d", userID, params.VolunteerID, shiftID)

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("MarkAttendance: shift id=%d not found", shiftID)
			return nil, ErrShiftNotFound
		}
		s.logger.Error("MarkAttendance: repository error for shift id=%d: %v", shiftID, err)
		return nil, fmt.Errorf("%w: MarkAttendance - repository error: %v", ErrInternal, err)
	}

	program, err := s.getProgram(ctx, shift.ProgramID, "MarkAttendance")
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return nil, err
	}

	booking, err := s.enrollmentRepo.GetBooking(ctx, shiftID, params.VolunteerID)
	if err != nil {
		if errors.Is(err, enrollmentRepo.ErrBookingNotFound) {
			s.logger.Warn("MarkAttendance: no booking for volunteer=%d on shift id=%d", params.VolunteerID, shiftID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("MarkAttendance: repository error: %v", err)
		return nil, fmt.Errorf("%w: MarkAttendance - repository error: %v", ErrInternal, err)
	}
	if booking.IsCancelled() {
		s.logger.Warn("MarkAttendance: booking id=%d is cancelled", booking.ID)
		return nil, ErrBookingNotFound
	}

	recorded, err := s.attendanceRepo.Exists(ctx, booking.ID)
	if err != nil {
		s.logger.Error("MarkAttendance: attendance check for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: MarkAttendance - attendance check: %v", ErrInternal, err)
	}
	if recorded {
		s.logger.Warn("MarkAttendance: attendance already recorded for booking id=%d", booking.ID)
		return nil, ErrAttendanceRecorded
	}

	var attendance *domain.Attendance
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if params.Present {
			if err := s.enrollmentRepo.UpdateBookingState(ctx, booking.ID, domain.BookingAttended); err != nil {
				return fmt.Errorf("%w: MarkAttendance - update booking state: %v", ErrInternal, err)
			}
			booking.State = domain.BookingAttended
		}

		created, err := s.attendanceRepo.Create(ctx, &domain.Attendance{
			ShiftEnrollmentID: booking.ID,
			Present:           params.Present,
			Hours:             params.Hours,
			Notes:             params.Notes,
			RecordedByID:      &userID,
		})
		if err != nil {
			return fmt.Errorf("%w: MarkAttendance - create attendance: %v", ErrInternal, err)
		}
		attendance = created

		return nil
	})
	if err != nil {
		s.logger.Error("MarkAttendance: transaction failed for booking id=%d: %v", booking.ID, err)
		return nil, err
	}

	s.logger.Info("MarkAttendance: recorded attendance id=%d for booking id=%d", attendance.ID, booking.ID)
	return models.FromDomainAttendance(attendance, booking), nil
}

func (s *Service) getVolunteer(ctx context.Context, userID int64) (*identityservice.Volunteer, error) {
	volunteer, err := s.identityClient.GetVolunteer(ctx, userID)
	if err != nil {
		if errors.Is(err, identityservice.ErrVolunteerNotFound) {
			s.logger.Warn("getVolunteer: user=%d has no volunteer profile", userID)
			return nil, ErrVolunteerNotFound
		}
		s.logger.Error("getVolunteer: identity service error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: getVolunteer - identity service: %v", ErrInternal, err)
	}
	return volunteer, nil
}

func (s *Service) getProgram(ctx context.Context, programID int64, op string) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			s.logger.Warn("%s: program id=%d not found", op, programID)
			return nil, ErrProgramNotFound
		}
		s.logger.Error("%s: repository error for program id=%d: %v", op, programID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return program, nil
}

// resolveStage вычисляет этап программы на текущую дату
func (s *Service) resolveStage(ctx context.Context, program *domain.Program) (domain.Stage, error) {
	hasPending := false
	if program.RequiresApplication {
		pending, err := s.enrollmentRepo.HasPendingApplications(ctx, program.ID)
		if err != nil {
			s.logger.Error("resolveStage: pending applications check for program id=%d: %v", program.ID, err)
			return domain.StageUnknown, fmt.Errorf("%w: resolveStage - pending applications: %v", ErrInternal, err)
		}
		hasPending = pending
	}

	return domain.ResolveStage(program, s.timeProvider.Now(), hasPending), nil
}

// checkManagerAccess проверяет, что пользователь управляет организацией программы.
// Программы без организации доступны любому аутентифицированному пользователю.
func (s *Service) checkManagerAccess(ctx context.Context, program *domain.Program, userID int64) error {
	if program.OrganizationID == nil {
		return nil
	}

	org, err := s.identityClient.GetOrganization(ctx, *program.OrganizationID)
	if err != nil {
		if errors.Is(err, identityservice.ErrOrganizationNotFound) {
			s.logger.Warn("checkManagerAccess: organization id=%d not found", *program.OrganizationID)
			return ErrOrganizationGone
		}
		s.logger.Error("checkManagerAccess: identity service error for organization id=%d: %v", *program.OrganizationID, err)
		return fmt.Errorf("%w: checkManagerAccess - identity service: %v", ErrInternal, err)
	}

	for _, managerID := range org.ManagerIDs {
		if managerID == userID {
			return nil
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of organization id=%d", userID, *program.OrganizationID)
	return ErrAccessDenied
}
