package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/dbmetrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/psqlbuilder"
)

var applicationColumns = []string{
	"id",
	"program_id",
	"volunteer_id",
	"state",
	"active",
	"created_at",
	"updated_at",
}

// CreateApplication создает новую заявку на программу
func (r *Repository) CreateApplication(ctx context.Context, e *domain.ProgramEnrollment) (*domain.ProgramEnrollment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("program_enrollments").
		Columns("program_id", "volunteer_id", "state").
		Values(e.ProgramID, e.VolunteerID, e.State).
		Suffix("RETURNING id, active, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateApplication - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("%w: CreateApplication - execute insert: %v", ErrExecQuery, err)
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return e, nil
}

// GetApplicationByID получает активную заявку по ID
func (r *Repository) GetApplicationByID(ctx context.Context, id int64) (*domain.ProgramEnrollment, error) {
	return r.getApplication(ctx, squirrel.Eq{"id": id, "active": true})
}

// GetApplication получает активную заявку пары (программа, волонтер)
// в любом состоянии, включая отмененную - отмененные строки реактивируются,
// а не дублируются
func (r *Repository) GetApplication(ctx context.Context, programID, volunteerID int64) (*domain.ProgramEnrollment, error) {
	return r.getApplication(ctx, squirrel.Eq{
		"program_id":   programID,
		"volunteer_id": volunteerID,
		"active":       true,
	})
}

func (r *Repository) getApplication(ctx context.Context, where squirrel.Eq) (*domain.ProgramEnrollment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(applicationColumns...).
		From("program_enrollments").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getApplication - build select query: %v", ErrBuildQuery, err)
	}

	var e domain.ProgramEnrollment
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&e.ID,
		&e.ProgramID,
		&e.VolunteerID,
		&e.State,
		&e.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getApplication - scan application: %v", ErrScanRow, err)
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

// UpdateApplicationState переводит заявку в новое состояние
func (r *Repository) UpdateApplicationState(ctx context.Context, id int64, state domain.ProgramEnrollmentState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("program_enrollments").
		Set("state", state).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateApplicationState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateApplicationState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateApplicationState - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrApplicationNotFound
	}

	return nil
}

// HasPendingApplications возвращает true, если у программы есть активные
// заявки в состоянии APPLIED. Используется stage resolver'ом: непросмотренные
// заявки удерживают программу в стадии PREPARING.
func (r *Repository) HasPendingApplications(ctx context.Context, programID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("program_enrollments").
		Where(squirrel.Eq{
			"program_id": programID,
			"state":      domain.ApplicationApplied,
			"active":     true,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasPendingApplications - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasPendingApplications - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// SoftDeleteApplicationsByProgram мягко удаляет все активные заявки программы
func (r *Repository) SoftDeleteApplicationsByProgram(ctx context.Context, programID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("program_enrollments").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"program_id": programID, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDeleteApplicationsByProgram - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SoftDeleteApplicationsByProgram - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
