package create_shift

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs/models"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

// CreateShiftRequest HTTP request model
type CreateShiftRequest struct {
	Date      string  `json:"date"`      // "2026-05-10"
	StartTime string  `json:"startTime"` // "10:00"
	EndTime   string  `json:"endTime"`   // "14:00"
	Capacity  int     `json:"capacity"`
	Location  *string `json:"location,omitempty"`
}

// ShiftResponse HTTP response model
type ShiftResponse struct {
	ID        int64   `json:"id"`
	ProgramID int64   `json:"programId"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Capacity  int     `json:"capacity"`
	Location  *string `json:"location,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// ToServiceParams конвертирует HTTP запрос в параметры сервиса
func (r *CreateShiftRequest) ToServiceParams(programID int64) (*models.CreateShiftParams, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateShiftParams{
		ProgramID: programID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Capacity:  r.Capacity,
		Location:  r.Location,
	}, nil
}

// FromDomainShift конвертирует доменную смену в HTTP response
func FromDomainShift(s *domain.Shift) *ShiftResponse {
	return &ShiftResponse{
		ID:        s.ID,
		ProgramID: s.ProgramID,
		Date:      s.Date.Format(domain.DateFormat),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		Capacity:  s.Capacity,
		Location:  s.Location,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
