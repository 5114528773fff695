package create_program

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
)

// CreateProgramRequest HTTP request model
type CreateProgramRequest struct {
	Name                string  `json:"name"`
	OrganizationID      *int64  `json:"organizationId,omitempty"`
	RequiresApplication bool    `json:"requiresApplication"`
	RecruitStart        *string `json:"recruitStart,omitempty"` // "2026-04-01"
	RecruitEnd          *string `json:"recruitEnd,omitempty"`
	ExecStart           *string `json:"execStart,omitempty"`
	ExecEnd             *string `json:"execEnd,omitempty"`
}

// ProgramResponse HTTP response model
type ProgramResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	OrganizationID      *int64  `json:"organizationId,omitempty"`
	RequiresApplication bool    `json:"requiresApplication"`
	RecruitStart        *string `json:"recruitStart,omitempty"`
	RecruitEnd          *string `json:"recruitEnd,omitempty"`
	ExecStart           *string `json:"execStart,omitempty"`
	ExecEnd             *string `json:"execEnd,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// ToServiceParams конвертирует HTTP запрос в параметры сервиса
func (r *CreateProgramRequest) ToServiceParams() (*models.CreateProgramParams, error) {
	params := &models.CreateProgramParams{
		Name:                r.Name,
		OrganizationID:      r.OrganizationID,
		RequiresApplication: r.RequiresApplication,
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

// FromDomainProgram конвертирует доменную программу в HTTP response
func FromDomainProgram(p *domain.Program) *ProgramResponse {
	return &ProgramResponse{
		ID:                  p.ID,
		Name:                p.Name,
		OrganizationID:      p.OrganizationID,
		RequiresApplication: p.RequiresApplication,
		RecruitStart:        formatDate(p.RecruitStart),
		RecruitEnd:          formatDate(p.RecruitEnd),
		ExecStart:           formatDate(p.ExecStart),
		ExecEnd:             formatDate(p.ExecEnd),
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
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
