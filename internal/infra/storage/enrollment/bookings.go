package enrollment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/dbmetrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"shift_id",
	"volunteer_id",
	"state",
	"enrolled_at",
	"active",
	"updated_at",
}

// CreateBooking создает новое бронирование смены
func (r *Repository) CreateBooking(ctx context.Context, e *domain.ShiftEnrollment) (*domain.ShiftEnrollment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shift_enrollments").
		Columns("shift_id", "volunteer_id", "state").
		Values(e.ShiftID, e.VolunteerID, e.State).
		Suffix("RETURNING id, enrolled_at, active, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBooking - build insert query: %v", ErrBuildQuery, err)
	}

	var enrolledAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&enrolledAt,
		&e.Active,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBooking - execute insert: %v", ErrExecQuery, err)
	}

	e.EnrolledAt = enrolledAt.Time
	e.UpdatedAt = updatedAt.Time

	return e, nil
}

// GetBooking получает активное бронирование пары (смена, волонтер)
// в любом состоянии, включая отмененное - отмененные строки реактивируются,
// а не дублируются
func (r *Repository) GetBooking(ctx context.Context, shiftID, volunteerID int64) (*domain.ShiftEnrollment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("shift_enrollments").
		Where(squirrel.Eq{
			"shift_id":     shiftID,
			"volunteer_id": volunteerID,
			"active":       true,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBooking - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...))
}

// CountSeatsTaken подсчитывает занятые места смены: активные бронирования
// в состояниях BOOKED и ATTENDED. Вызывается внутри транзакции bookShift
// под блокировкой строки смены.
func (r *Repository) CountSeatsTaken(ctx context.Context, shiftID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("shift_enrollments").
		Where(squirrel.Eq{
			"shift_id": shiftID,
			"state":    domain.CapacityStates,
			"active":   true,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountSeatsTaken - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountSeatsTaken - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountSeatsTakenByShifts подсчитывает занятые места сразу для набора смен.
// Возвращает map[shiftID]count; смены без бронирований в map отсутствуют.
func (r *Repository) CountSeatsTakenByShifts(ctx context.Context, shiftIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(shiftIDs))
	if len(shiftIDs) == 0 {
		return counts, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("shift_id", "COUNT(*)").
		From("shift_enrollments").
		Where(squirrel.Eq{
			"shift_id": shiftIDs,
			"state":    domain.CapacityStates,
			"active":   true,
		}).
		GroupBy("shift_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountSeatsTakenByShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountSeatsTakenByShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shiftID int64
		var count int
		if err := rows.Scan(&shiftID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountSeatsTakenByShifts - scan row: %v", ErrScanRow, err)
		}
		counts[shiftID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountSeatsTakenByShifts - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// UpdateBookingState переводит бронирование в новое состояние
func (r *Repository) UpdateBookingState(ctx context.Context, id int64, state domain.ShiftEnrollmentState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shift_enrollments").
		Set("state", state).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateBookingState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateBookingState - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// SoftDeleteBookingsByShifts мягко удаляет все активные бронирования набора смен.
// Возвращает ID удаленных бронирований для каскадного удаления посещаемости.
func (r *Repository) SoftDeleteBookingsByShifts(ctx context.Context, shiftIDs []int64) ([]int64, error) {
	if len(shiftIDs) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shift_enrollments").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"shift_id": shiftIDs, "active": true}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SoftDeleteBookingsByShifts - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: SoftDeleteBookingsByShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: SoftDeleteBookingsByShifts - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: SoftDeleteBookingsByShifts - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

func (r *Repository) scanBooking(row *sql.Row) (*domain.ShiftEnrollment, error) {
	var e domain.ShiftEnrollment
	var enrolledAt, updatedAt sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.ShiftID,
		&e.VolunteerID,
		&e.State,
		&enrolledAt,
		&e.Active,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanBooking - scan booking: %v", ErrScanRow, err)
	}

	e.EnrolledAt = enrolledAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}
