package programs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	shiftRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/shift"
	"github.com/campusvol/UVP-EnrollmentService/internal/integrations/identityservice"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

// Service сервис для работы с программами и их сменами
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

// NewService создает новый экземпляр сервиса программ
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

// Create создает новую программу
// Для программ от организации проверяет, что пользователь является её менеджером
func (s *Service) Create(ctx context.Context, userID int64, params *models.CreateProgramParams) (*domain.Program, error) {
	s.logger.Info("Create: creating program name=%q by user=%d", params.Name, userID)

	if strings.TrimSpace(params.Name) == "" {
		s.logger.Warn("Create: empty program name from user=%d", userID)
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProgram)
	}

	program := &domain.Program{
		Name:                strings.TrimSpace(params.Name),
		OrganizationID:      params.OrganizationID,
		RequiresApplication: params.RequiresApplication,
		RecruitStart:        params.RecruitStart,
		RecruitEnd:          params.RecruitEnd,
		ExecStart:           params.ExecStart,
		ExecEnd:             params.ExecEnd,
	}

	if err := program.ValidateWindows(); err != nil {
		s.logger.Warn("Create: invalid program windows from user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return nil, err
	}

	created, err := s.programRepo.Create(ctx, program)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created program id=%d", created.ID)
	return created, nil
}

// GetByID получает программу вместе с вычисленным этапом
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ProgramView, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("GetByID: repository error for program id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	stage, err := s.resolveStage(ctx, program)
	if err != nil {
		return nil, err
	}

	return &models.ProgramView{Program: program, Stage: stage}, nil
}

// Update частично обновляет программу.
// При сужении окна выполнения смены, выпавшие из нового окна, мягко
// удаляются вместе со своими бронированиями.
func (s *Service) Update(ctx context.Context, userID int64, programID int64, params *models.UpdateProgramParams) (*models.UpdateProgramResult, error) {
	s.logger.Info("Update: updating program id=%d by user=%d", programID, userID)

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			s.logger.Warn("Update: program id=%d not found", programID)
			return nil, ErrProgramNotFound
		}
		s.logger.Error("Update: repository error for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return nil, err
	}

	execChanged := applyProgramUpdate(program, params)

	if err := program.ValidateWindows(); err != nil {
		s.logger.Warn("Update: invalid program windows for id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidProgram, err)
	}

	result := &models.UpdateProgramResult{Program: program}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.programRepo.Update(ctx, program); err != nil {
			if errors.Is(err, programRepo.ErrProgramNotFound) {
				return ErrProgramNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		if execChanged && program.HasExecutionWindow() {
			removed, err := s.cascade.PruneShiftsOutsideWindow(ctx, programID, *program.ExecStart, *program.ExecEnd)
			if err != nil {
				return fmt.Errorf("%w: Update - prune shifts: %v", ErrInternal, err)
			}
			result.RemovedShiftIDs = removed
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("Update: transaction failed for program id=%d: %v", programID, err)
		return nil, err
	}

	s.logger.Info("Update: successfully updated program id=%d, removed %d shifts", programID, len(result.RemovedShiftIDs))
	return result, nil
}

// Delete мягко удаляет программу вместе со сменами, заявками,
// бронированиями и записями посещаемости
func (s *Service) Delete(ctx context.Context, userID int64, programID int64) error {
	s.logger.Info("Delete: deleting program id=%d by user=%d", programID, userID)

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			s.logger.Warn("Delete: program id=%d not found", programID)
			return ErrProgramNotFound
		}
		s.logger.Error("Delete: repository error for program id=%d: %v", programID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.programRepo.Delete(ctx, programID); err != nil {
			if errors.Is(err, programRepo.ErrProgramNotFound) {
				return ErrProgramNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if _, err := s.cascade.DeleteProgramChildren(ctx, programID); err != nil {
			return fmt.Errorf("%w: Delete - cascade: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			return ErrProgramNotFound
		}
		s.logger.Error("Delete: transaction failed for program id=%d: %v", programID, err)
		return err
	}

	s.logger.Info("Delete: successfully deleted program id=%d", programID)
	return nil
}

// CreateShift создает смену под программой.
// Дата смены намеренно не сверяется с окном выполнения программы:
// несогласованные смены вычищаются при изменении окна.
func (s *Service) CreateShift(ctx context.Context, userID int64, params *models.CreateShiftParams) (*domain.Shift, error) {
	s.logger.Info("CreateShift: creating shift for program id=%d by user=%d", params.ProgramID, userID)

	program, err := s.programRepo.GetByID(ctx, params.ProgramID)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			s.logger.Warn("CreateShift: program id=%d not found", params.ProgramID)
			return nil, ErrProgramNotFound
		}
		s.logger.Error("CreateShift: repository error for program id=%d: %v", params.ProgramID, err)
		return nil, fmt.Errorf("%w: CreateShift - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return nil, err
	}

	shift := &domain.Shift{
		ProgramID: params.ProgramID,
		Date:      params.Date,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Capacity:  params.Capacity,
		Location:  params.Location,
	}

	if err := shift.Validate(); err != nil {
		s.logger.Warn("CreateShift: invalid shift for program id=%d: %v", params.ProgramID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidShift, err)
	}

	created, err := s.shiftRepo.Create(ctx, shift)
	if err != nil {
		s.logger.Error("CreateShift: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateShift: successfully created shift id=%d", created.ID)
	return created, nil
}

// DeleteShift мягко удаляет смену вместе с бронированиями и посещаемостью
func (s *Service) DeleteShift(ctx context.Context, userID int64, shiftID int64) error {
	s.logger.Info("DeleteShift: deleting shift id=%d by user=%d", shiftID, userID)

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("DeleteShift: shift id=%d not found", shiftID)
			return ErrShiftNotFound
		}
		s.logger.Error("DeleteShift: repository error for shift id=%d: %v", shiftID, err)
		return fmt.Errorf("%w: DeleteShift - repository error: %v", ErrInternal, err)
	}

	program, err := s.programRepo.GetByID(ctx, shift.ProgramID)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			return ErrProgramNotFound
		}
		s.logger.Error("DeleteShift: repository error for program id=%d: %v", shift.ProgramID, err)
		return fmt.Errorf("%w: DeleteShift - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, program, userID); err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.shiftRepo.Delete(ctx, shiftID); err != nil {
			if errors.Is(err, shiftRepo.ErrShiftNotFound) {
				return ErrShiftNotFound
			}
			return fmt.Errorf("%w: DeleteShift - repository error: %v", ErrInternal, err)
		}

		if err := s.cascade.DeleteShiftChildren(ctx, shiftID); err != nil {
			return fmt.Errorf("%w: DeleteShift - cascade: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("DeleteShift: transaction failed for shift id=%d: %v", shiftID, err)
		return err
	}

	s.logger.Info("DeleteShift: successfully deleted shift id=%d", shiftID)
	return nil
}

// Progress возвращает долю завершенных смен программы.
// При отсутствии смен прогресс равен нулю.
func (s *Service) Progress(ctx context.Context, programID int64) (*models.ProgressReport, error) {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("Progress: repository error for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: Progress - repository error: %v", ErrInternal, err)
	}

	shifts, err := s.shiftRepo.ListByProgram(ctx, programID)
	if err != nil {
		s.logger.Error("Progress: list shifts for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: Progress - list shifts: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	nowTime := types.NewTimeString(now)

	report := &models.ProgressReport{TotalShifts: len(shifts)}
	for _, shift := range shifts {
		if shift.IsFinished(now, nowTime) {
			report.FinishedShifts++
		}
	}

	if report.TotalShifts > 0 {
		report.Percent = report.FinishedShifts * 100 / report.TotalShifts
	}

	return report, nil
}

// AttendanceCompleteness возвращает полноту учёта посещаемости:
// сколько записей ожидается по активным бронированиям завершенных смен
// и сколько фактически проставлено
func (s *Service) AttendanceCompleteness(ctx context.Context, programID int64) (*models.AttendanceReport, error) {
	if _, err := s.programRepo.GetByID(ctx, programID); err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("AttendanceCompleteness: repository error for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: AttendanceCompleteness - repository error: %v", ErrInternal, err)
	}

	shifts, err := s.shiftRepo.ListByProgram(ctx, programID)
	if err != nil {
		s.logger.Error("AttendanceCompleteness: list shifts for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: AttendanceCompleteness - list shifts: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	nowTime := types.NewTimeString(now)

	var finishedIDs []int64
	for _, shift := range shifts {
		if shift.IsFinished(now, nowTime) {
			finishedIDs = append(finishedIDs, shift.ID)
		}
	}

	report := &models.AttendanceReport{Percent: 100}
	if len(finishedIDs) == 0 {
		return report, nil
	}

	seats, err := s.enrollmentRepo.CountSeatsTakenByShifts(ctx, finishedIDs)
	if err != nil {
		s.logger.Error("AttendanceCompleteness: count seats for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: AttendanceCompleteness - count seats: %v", ErrInternal, err)
	}
	for _, taken := range seats {
		report.ExpectedRecords += taken
	}

	recorded, err := s.attendanceRepo.CountByShifts(ctx, finishedIDs)
	if err != nil {
		s.logger.Error("AttendanceCompleteness: count attendance for program id=%d: %v", programID, err)
		return nil, fmt.Errorf("%w: AttendanceCompleteness - count attendance: %v", ErrInternal, err)
	}
	report.ActualRecords = recorded

	if report.ExpectedRecords > 0 {
		report.Percent = report.ActualRecords * 100 / report.ExpectedRecords
		report.Complete = report.ActualRecords >= report.ExpectedRecords
	}

	return report, nil
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

// applyProgramUpdate накладывает частичное обновление на программу.
// Возвращает true, если окно выполнения изменилось.
func applyProgramUpdate(program *domain.Program, params *models.UpdateProgramParams) bool {
	if params.Name != nil {
		program.Name = strings.TrimSpace(*params.Name)
	}
	if params.RequiresApplication != nil {
		program.RequiresApplication = *params.RequiresApplication
	}

	if params.ClearRecruitmentDates {
		program.RecruitStart = nil
		program.RecruitEnd = nil
	} else {
		if params.RecruitStart != nil {
			program.RecruitStart = params.RecruitStart
		}
		if params.RecruitEnd != nil {
			program.RecruitEnd = params.RecruitEnd
		}
	}

	execChanged := false
	if params.ClearExecutionDates {
		execChanged = program.ExecStart != nil || program.ExecEnd != nil
		program.ExecStart = nil
		program.ExecEnd = nil
	} else {
		if params.ExecStart != nil {
			program.ExecStart = params.ExecStart
			execChanged = true
		}
		if params.ExecEnd != nil {
			program.ExecEnd = params.ExecEnd
			execChanged = true
		}
	}

	return execChanged
}
