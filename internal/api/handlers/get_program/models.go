package get_program

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

// ProgramResponse HTTP response model: программа с этапом и отчётами
type ProgramResponse struct {
	ID                  int64              `json:"id"`
	Name                string             `json:"name"`
	OrganizationID      *int64             `json:"organizationId,omitempty"`
	RequiresApplication bool               `json:"requiresApplication"`
	RecruitStart        *string            `json:"recruitStart,omitempty"`
	RecruitEnd          *string            `json:"recruitEnd,omitempty"`
	ExecStart           *string            `json:"execStart,omitempty"`
	ExecEnd             *string            `json:"execEnd,omitempty"`
	Stage               string             `json:"stage"`
	Progress            ProgressResponse   `json:"progress"`
	Attendance          AttendanceResponse `json:"attendance"`
	CreatedAt           string             `json:"createdAt"`
	UpdatedAt           string             `json:"updatedAt"`
}

// ProgressResponse доля завершенных смен
type ProgressResponse struct {
	TotalShifts    int `json:"totalShifts"`
	FinishedShifts int `json:"finishedShifts"`
	Percent        int `json:"percent"`
}

// AttendanceResponse полнота учёта посещаемости
type AttendanceResponse struct {
	ExpectedRecords int  `json:"expectedRecords"`
	ActualRecords   int  `json:"actualRecords"`
	Percent         int  `json:"percent"`
	Complete        bool `json:"complete"`
}

// BuildResponse собирает HTTP response из данных сервиса
func BuildResponse(view *models.ProgramView, progress *models.ProgressReport, attendance *models.AttendanceReport) *ProgramResponse {
	p := view.Program
	return &ProgramResponse{
		ID:                  p.ID,
		Name:                p.Name,
		OrganizationID:      p.OrganizationID,
		RequiresApplication: p.RequiresApplication,
		RecruitStart:        formatDate(p.RecruitStart),
		RecruitEnd:          formatDate(p.RecruitEnd),
		ExecStart:           formatDate(p.ExecStart),
		ExecEnd:             formatDate(p.ExecEnd),
		Stage:               string(view.Stage),
		Progress: ProgressResponse{
			TotalShifts:    progress.TotalShifts,
			FinishedShifts: progress.FinishedShifts,
			Percent:        progress.Percent,
		},
		Attendance: AttendanceResponse{
			ExpectedRecords: attendance.ExpectedRecords,
			ActualRecords:   attendance.ActualRecords,
			Percent:         attendance.Percent,
			Complete:        attendance.Complete,
		},
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
