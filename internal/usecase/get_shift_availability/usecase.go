package get_shift_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	programRepo "github.com/campusvol/UVP-EnrollmentService/internal/infra/storage/program"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

// UseCase use case для получения смен программы с доступностью мест
type UseCase struct {
	programRepo    ProgramRepository
	shiftRepo      ShiftRepository
	enrollmentRepo EnrollmentRepository
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	programRepo ProgramRepository,
	shiftRepo ShiftRepository,
	enrollmentRepo EnrollmentRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		programRepo:    programRepo,
		shiftRepo:      shiftRepo,
		enrollmentRepo: enrollmentRepo,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute выполняет use case получения доступности смен.
// Счетчики мест читаются без блокировок: результат носит информационный
// характер, решение о записи принимает бронирование.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetShiftAvailability: program=%d", req.ProgramID)

	if req.ProgramID <= 0 {
		uc.logger.Warn("GetShiftAvailability: invalid program id=%d", req.ProgramID)
		return nil, fmt.Errorf("%w: program id must be positive", ErrInvalidInput)
	}

	program, err := uc.programRepo.GetByID(ctx, req.ProgramID)
	if err != nil {
		if errors.Is(err, programRepo.ErrProgramNotFound) {
			uc.logger.Warn("GetShiftAvailability: program id=%d not found", req.ProgramID)
			return nil, ErrProgramNotFound
		}
		uc.logger.Error("GetShiftAvailability: failed to get program id=%d: %v", req.ProgramID, err)
		return nil, fmt.Errorf("%w: failed to get program: %v", ErrInternal, err)
	}

	hasPending := false
	if program.RequiresApplication {
		pending, err := uc.enrollmentRepo.HasPendingApplications(ctx, program.ID)
		if err != nil {
			uc.logger.Error("GetShiftAvailability: pending applications check for program id=%d: %v", program.ID, err)
			return nil, fmt.Errorf("%w: failed to check pending applications: %v", ErrInternal, err)
		}
		hasPending = pending
	}

	now := uc.timeProvider.Now()
	stage := domain.ResolveStage(program, now, hasPending)

	shifts, err := uc.shiftRepo.ListByProgram(ctx, req.ProgramID)
	if err != nil {
		uc.logger.Error("GetShiftAvailability: failed to list shifts for program id=%d: %v", req.ProgramID, err)
		return nil, fmt.Errorf("%w: failed to list shifts: %v", ErrInternal, err)
	}

	response := &Response{
		ProgramID: req.ProgramID,
		Stage:     stage,
		Shifts:    make([]ShiftSlot, 0, len(shifts)),
	}

	if len(shifts) == 0 {
		return response, nil
	}

	shiftIDs := make([]int64, 0, len(shifts))
	for _, shift := range shifts {
		shiftIDs = append(shiftIDs, shift.ID)
	}

	seats, err := uc.enrollmentRepo.CountSeatsTakenByShifts(ctx, shiftIDs)
	if err != nil {
		uc.logger.Error("GetShiftAvailability: failed to count seats for program id=%d: %v", req.ProgramID, err)
		return nil, fmt.Errorf("%w: failed to count seats: %v", ErrInternal, err)
	}

	nowTime := types.NewTimeString(now)
	for _, shift := range shifts {
		taken := seats[shift.ID]
		available := shift.Capacity - taken
		if available < 0 {
			available = 0
		}

		response.Shifts = append(response.Shifts, ShiftSlot{
			ID:             shift.ID,
			Date:           shift.Date,
			StartTime:      shift.StartTime,
			EndTime:        shift.EndTime,
			Location:       shift.Location,
			Capacity:       shift.Capacity,
			SeatsTaken:     taken,
			AvailableSeats: available,
			Finished:       shift.IsFinished(now, nowTime),
		})
	}

	uc.logger.Info("GetShiftAvailability: program=%d, stage=%s, %d shifts", req.ProgramID, stage, len(response.Shifts))
	return response, nil
}
