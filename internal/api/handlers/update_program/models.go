package update_program

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

// UpdateProgramRequest HTTP request model частичного обновления.
// Отсутствующее поле не меняется; clearRecruitmentDates/clearExecutionDates
// сбрасывают окно целиком.
type UpdateProgramRequest struct {
	Name                  *string `json:"name,omitempty"`
	RequiresApplication   *bool   `json:"requiresApplication,omitempty"`
	RecruitStart          *string `json:"recruitStart,omitempty"`
	RecruitEnd            *string `json:"recruitEnd,omitempty"`
	ExecStart             *string `json:"execStart,omitempty"`
	ExecEnd               *string `json:"execEnd,omitempty"`
	ClearRecruitmentDates bool    `json:"clearRecruitmentDates,omitempty"`
	ClearExecutionDates   bool    `json:"clearExecutionDates,omitempty"`
}

// UpdateProgramResponse HTTP response model.
// RemovedShiftIDs перечисляет смены, выпавшие из суженного окна выполнения.
type UpdateProgramResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	OrganizationID      *int64  `json:"organizationId,omitempty"`
	RequiresApplication bool    `json:"requiresApplication"`
	RecruitStart        *string `json:"recruitStart,omitempty"`
	RecruitEnd          *string `json:"recruitEnd,omitempty"`
	ExecStart           *string `json:"execStart,omitempty"`
	ExecEnd             *string `json:"execEnd,omitempty"`
	RemovedShiftIDs     []int64 `json:"removedShiftIds"`
	UpdatedAt           string  `json:"updatedAt"`
}

// ToServiceParams конвертирует HTTP запрос в параметры сервиса
func (r *UpdateProgramRequest) ToServiceParams() (*models.UpdateProgramParams, error) {
	params := &models.UpdateProgramParams{
		Name:                  r.Name,
		RequiresApplication:   r.RequiresApplication,
		ClearRecruitmentDates: r.ClearRecruitmentDates,
		ClearExecutionDates:   r.ClearExecutionDates,
	}

	var err error
	if params.RecruitStart, err = parseDate(r.RecruitStart); err != nil {
		return nil, err
	}
	if params.RecruitEnd, err = parseDate(r.RecruitEnd); err != nil {
		return nil, err
	}
	if params.ExecStart, err = parseDate(r.ExecStart); err != nil {
		return nil, err
	}
	if params.ExecEnd, err = parseDate(r.ExecEnd); err != nil {
		return nil, err
	}

	return params, nil
}

// FromServiceResult конвертирует результат сервиса в HTTP response
func FromServiceResult(result *models.UpdateProgramResult) *UpdateProgramResponse {
	p := result.Program
	removed := result.RemovedShiftIDs
	if removed == nil {
		removed = []int64{}
	}
	return &UpdateProgramResponse{
		ID:                  p.ID,
		Name:                p.Name,
		OrganizationID:      p.OrganizationID,
		RequiresApplication: p.RequiresApplication,
		RecruitStart:        formatDate(p.RecruitStart),
		RecruitEnd:          formatDate(p.RecruitEnd),
		ExecStart:           formatDate(p.ExecStart),
		ExecEnd:             formatDate(p.ExecEnd),
		RemovedShiftIDs:     removed,
		UpdatedAt:           p.UpdatedAt.Format(time.RFC3339),
	}
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
