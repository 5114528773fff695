package program

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/dbmetrics"
	"github.com/campusvol/UVP-EnrollmentService/pkg/psqlbuilder"
)

var programColumns = []string{
	"id",
	"name",
	"organization_id",
	"requires_application",
	"recruit_start",
	"recruit_end",
	"exec_start",
	"exec_end",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с программами волонтариата
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория программ
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую программу
func (r *Repository) Create(ctx context.Context, p *domain.Program) (*domain.Program, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("programs").
		Columns(
			"name",
			"organization_id",
			"requires_application",
			"recruit_start",
			"recruit_end",
			"exec_start",
			"exec_end",
		).
		Values(
			p.Name,
			p.OrganizationID,
			p.RequiresApplication,
			p.RecruitStart,
			p.RecruitEnd,
			p.ExecStart,
			p.ExecEnd,
		).
		Suffix("RETURNING id, active, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetByID получает активную программу по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Program, error) {
	return r.getByID(ctx, id, true)
}

// GetByIDIncludeInactive получает программу по ID, включая неактивные.
// Используется для административных сценариев и аудита.
func (r *Repository) GetByIDIncludeInactive(ctx context.Context, id int64) (*domain.Program, error) {
	return r.getByID(ctx, id, false)
}

func (r *Repository) getByID(ctx context.Context, id int64, activeOnly bool) (*domain.Program, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(programColumns...).
		From("programs").
		Where(squirrel.Eq{"id": id})

	// Чтения по умолчанию видят только активные строки
	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanProgram(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getByID - scan program: %v", ErrScanRow, err)
	}

	return p, nil
}

// Update обновляет изменяемые поля программы
func (r *Repository) Update(ctx context.Context, p *domain.Program) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("programs").
		Set("name", p.Name).
		Set("organization_id", p.OrganizationID).
		Set("requires_application", p.RequiresApplication).
		Set("recruit_start", p.RecruitStart).
		Set("recruit_end", p.RecruitEnd).
		Set("exec_start", p.ExecStart).
		Set("exec_end", p.ExecEnd).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrProgramNotFound
	}

	return nil
}

// Delete выполняет мягкое удаление программы (active=false).
// Каскадное удаление дочерних сущностей выполняет cascade manager.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("programs").
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
		return ErrProgramNotFound
	}

	return nil
}

// HardDelete физически удаляет программу.
// Административный сценарий; бизнес-логика его не вызывает.
func (r *Repository) HardDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("programs").
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
		return ErrProgramNotFound
	}

	return nil
}

func scanProgram(row *sql.Row) (*domain.Program, error) {
	var p domain.Program
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.OrganizationID,
		&p.RequiresApplication,
		&p.RecruitStart,
		&p.RecruitEnd,
		&p.ExecStart,
		&p.ExecEnd,
		&p.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
