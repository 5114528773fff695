package models

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

// CreateProgramParams параметры создания программы
type CreateProgramParams struct {
	Name                string
	OrganizationID      *int64
	RequiresApplication bool
	RecruitStart        *time.Time
	RecruitEnd          *time.Time
	ExecStart           *time.Time
	ExecEnd             *time.Time
}

// UpdateProgramParams параметры частичного обновления программы.
// nil-поле означает "оставить как есть", флаги Clear* сбрасывают окно целиком.
type UpdateProgramParams struct {
	Name                  *string
	RequiresApplication   *bool
	RecruitStart          *time.Time
	RecruitEnd            *time.Time
	ExecStart             *time.Time
	ExecEnd               *time.Time
	ClearRecruitmentDates bool
	ClearExecutionDates   bool
}

// UpdateProgramResult результат обновления программы
type UpdateProgramResult struct {
	Program         *domain.Program
	RemovedShiftIDs []int64
}

// ProgramView программа вместе с вычисленным этапом
type ProgramView struct {
	Program *domain.Program
	Stage   domain.Stage
}

// CreateShiftParams параметры создания смены
type CreateShiftParams struct {
	ProgramID int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Capacity  int
	Location  *string
}

// ProgressReport отчёт о ходе выполнения программы
type ProgressReport struct {
	TotalShifts    int
	FinishedShifts int
	Percent        int
}

// AttendanceReport отчёт о полноте учёта посещаемости.
// Complete выставляется только при наличии ожидаемых записей:
// отсутствие завершенных смен дает Percent=100, но не Complete.
type AttendanceReport struct {
	ExpectedRecords int
	ActualRecords   int
	Percent         int
	Complete        bool
}
