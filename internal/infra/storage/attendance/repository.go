package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/dbmetrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий записей посещаемости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория посещаемости
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись посещаемости бронирования
func (r *Repository) Create(ctx context.Context, a *domain.Attendance) (*domain.Attendance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("attendances").
		Columns("shift_enrollment_id", "present", "hours", "notes", "recorded_by").
		Values(a.ShiftEnrollmentID, a.Present, a.Hours, a.Notes, a.RecordedByID).
		Suffix("RETURNING id, active, recorded_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&a.Active,
		&a.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return a, nil
}

// Exists возвращает true, если у бронирования есть активная запись посещаемости
func (r *Repository) Exists(ctx context.Context, shiftEnrollmentID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("attendances").
		Where(squirrel.Eq{"shift_enrollment_id": shiftEnrollmentID, "active": true}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// SoftDeleteByEnrollment мягко удаляет запись посещаемости бронирования.
// Идемпотентна: отсутствие записи не является ошибкой - посещаемость
// не должна переживать свое бронирование.
func (r *Repository) SoftDeleteByEnrollment(ctx context.Context, shiftEnrollmentID int64) error {
	return r.SoftDeleteByEnrollments(ctx, []int64{shiftEnrollmentID})
}

// SoftDeleteByEnrollments мягко удаляет записи посещаемости набора бронирований
func (r *Repository) SoftDeleteByEnrollments(ctx context.Context, shiftEnrollmentIDs []int64) error {
	if len(shiftEnrollmentIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("attendances").
		Set("active", false).
		Where(squirrel.Eq{"shift_enrollment_id": shiftEnrollmentIDs, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDeleteByEnrollments - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SoftDeleteByEnrollments - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// CountByShifts подсчитывает активные записи посещаемости по набору смен.
// Используется отчетом о полноте учета посещаемости.
func (r *Repository) CountByShifts(ctx context.Context, shiftIDs []int64) (int, error) {
	if len(shiftIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("attendances a").
		Join("shift_enrollments se ON se.id = a.shift_enrollment_id").
		Where(squirrel.Eq{
			"se.shift_id": shiftIDs,
			"a.active":    true,
			"se.active":   true,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByShifts - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByShifts - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
