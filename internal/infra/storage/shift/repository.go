package shift

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/dbmetrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/psqlbuilder"
)

var shiftColumns = []string{
	"id",
	"program_id",
	"date",
	"start_time",
	"end_time",
	"capacity",
	"location",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со сменами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория смен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую смену
func (r *Repository) Create(ctx context.Context, s *domain.Shift) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("shifts").
		Columns(
			"program_id",
			"date",
			"start_time",
			"end_time",
			"capacity",
			"location",
		).
		Values(
			s.ProgramID,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.Capacity,
			s.Location,
		).
		Suffix("RETURNING id, active, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает активную смену по ID.
// Внутри транзакции строка блокируется через FOR UPDATE - это механизм,
// предотвращающий overbooking при конкурентных бронированиях: проверка
// вместимости и запись состояния выполняются под этой блокировкой.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"id": id, "active": true})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Shift
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.ProgramID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Capacity,
		&s.Location,
		&s.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan shift: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// ListByProgram получает все активные смены программы,
// отсортированные по дате и времени начала
func (r *Repository) ListByProgram(ctx context.Context, programID int64) ([]*domain.Shift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"program_id": programID, "active": true}).
		OrderBy("date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProgram - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProgram - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanShifts(rows)
}

// Delete выполняет мягкое удаление смены
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shifts").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// SoftDeleteByProgram мягко удаляет все активные смены программы.
// Возвращает ID удаленных смен для каскадного удаления бронирований.
func (r *Repository) SoftDeleteByProgram(ctx context.Context, programID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shifts").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"program_id": programID, "active": true}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SoftDeleteByProgram - build update query: %v", ErrBuildQuery, err)
	}

	return r.execReturningIDs(ctx, executor, query, args, "SoftDeleteByProgram")
}

// SoftDeleteOutsideWindow мягко удаляет активные смены программы, чья дата
// выпала из окна выполнения [execStart, execEnd] после редактирования.
// Возвращает ID удаленных смен.
func (r *Repository) SoftDeleteOutsideWindow(ctx context.Context, programID int64, execStart, execEnd time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shifts").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"program_id": programID, "active": true}).
		Where(squirrel.Or{
			squirrel.Lt{"date": execStart},
			squirrel.Gt{"date": execEnd},
		}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: SoftDeleteOutsideWindow - build update query: %v", ErrBuildQuery, err)
	}

	return r.execReturningIDs(ctx, executor, query, args, "SoftDeleteOutsideWindow")
}

// HardDelete физически удаляет смену.
// Административный сценарий; бизнес-логика его не вызывает.
func (r *Repository) HardDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("shifts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: HardDelete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: HardDelete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: HardDelete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

func (r *Repository) execReturningIDs(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) ([]int64, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: %s - scan id: %v", ErrScanRow, op, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return ids, nil
}

func (r *Repository) scanShifts(rows *sql.Rows) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)

	for rows.Next() {
		var s domain.Shift
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.ProgramID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.Capacity,
			&s.Location,
			&s.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanShifts - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		shifts = append(shifts, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanShifts - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}
