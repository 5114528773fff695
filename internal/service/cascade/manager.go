package cascade

import (
	"context"
	"fmt"
	"time"
)

// Manager поддерживает консистентность графа данных при мягком удалении
// и при редактировании окна выполнения программы.
// Все методы выполняются в контексте транзакции вызывающей стороны -
// сущность никогда не удаляется физически, пока на нее ссылаются
// активные дочерние строки.
type Manager struct {
	shiftRepo      ShiftRepository
	enrollmentRepo EnrollmentRepository
	attendanceRepo AttendanceRepository
	logger         Logger
}

// NewManager создает новый cascade manager
func NewManager(
	shiftRepo ShiftRepository,
	enrollmentRepo EnrollmentRepository,
	attendanceRepo AttendanceRepository,
	logger Logger,
) *Manager {
	return &Manager{
		shiftRepo:      shiftRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

// DeleteProgramChildren мягко удаляет всех потомков программы:
// смены -> бронирования смен -> посещаемость, плюс заявки на программу.
// Возвращает ID удаленных смен.
func (m *Manager) DeleteProgramChildren(ctx context.Context, programID int64) ([]int64, error) {
	shiftIDs, err := m.shiftRepo.SoftDeleteByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("cascade: delete shifts of program %d: %w", programID, err)
	}

	if err := m.deleteBookingsWithAttendance(ctx, shiftIDs); err != nil {
		return nil, err
	}

	if err := m.enrollmentRepo.SoftDeleteApplicationsByProgram(ctx, programID); err != nil {
		return nil, fmt.Errorf("cascade: delete applications of program %d: %w", programID, err)
	}

	m.logger.Info("cascade: program=%d soft-deleted %d shifts with their bookings and applications",
		programID, len(shiftIDs))
	return shiftIDs, nil
}

// DeleteShiftChildren мягко удаляет потомков смены:
// бронирования и связанную посещаемость
func (m *Manager) DeleteShiftChildren(ctx context.Context, shiftID int64) error {
	return m.deleteBookingsWithAttendance(ctx, []int64{shiftID})
}

// PruneShiftsOutsideWindow мягко удаляет смены программы, выпавшие из нового
// окна выполнения, вместе с их потомками. Это разрушающий побочный эффект
// редактирования дат, а не валидация: ID удаленных смен возвращаются
// вызывающей стороне, чтобы их можно было показать пользователю.
func (m *Manager) PruneShiftsOutsideWindow(ctx context.Context, programID int64, execStart, execEnd time.Time) ([]int64, error) {
	shiftIDs, err := m.shiftRepo.SoftDeleteOutsideWindow(ctx, programID, execStart, execEnd)
	if err != nil {
		return nil, fmt.Errorf("cascade: prune shifts of program %d: %w", programID, err)
	}

	if err := m.deleteBookingsWithAttendance(ctx, shiftIDs); err != nil {
		return nil, err
	}

	if len(shiftIDs) > 0 {
		m.logger.Warn("cascade: program=%d window shrink removed %d shifts outside [%s, %s]",
			programID, len(shiftIDs), execStart.Format("2006-01-02"), execEnd.Format("2006-01-02"))
	}

	return shiftIDs, nil
}

// DeleteBookingAttendance мягко удаляет запись посещаемости бронирования,
// если она есть - посещаемость не переживает свое бронирование
func (m *Manager) DeleteBookingAttendance(ctx context.Context, shiftEnrollmentID int64) error {
	exists, err := m.attendanceRepo.Exists(ctx, shiftEnrollmentID)
	if err != nil {
		return fmt.Errorf("cascade: check attendance of booking %d: %w", shiftEnrollmentID, err)
	}
	if !exists {
		return nil
	}

	if err := m.attendanceRepo.SoftDeleteByEnrollment(ctx, shiftEnrollmentID); err != nil {
		return fmt.Errorf("cascade: delete attendance of booking %d: %w", shiftEnrollmentID, err)
	}

	m.logger.Info("cascade: attendance of booking=%d soft-deleted", shiftEnrollmentID)
	return nil
}

func (m *Manager) deleteBookingsWithAttendance(ctx context.Context, shiftIDs []int64) error {
	if len(shiftIDs) == 0 {
		return nil
	}

	bookingIDs, err := m.enrollmentRepo.SoftDeleteBookingsByShifts(ctx, shiftIDs)
	if err != nil {
		return fmt.Errorf("cascade: delete bookings of shifts %v: %w", shiftIDs, err)
	}

	if err := m.attendanceRepo.SoftDeleteByEnrollments(ctx, bookingIDs); err != nil {
		return fmt.Errorf("cascade: delete attendance of bookings %v: %w", bookingIDs, err)
	}

	return nil
}
