package get_shift_availability

import (
	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	getShiftAvailability "github.com/campusvol/UVP-EnrollmentService/internal/usecase/get_shift_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProgramID int64           `json:"programId"`
	Stage     string          `json:"stage"`
	Shifts    []ShiftResponse `json:"shifts"`
}

// ShiftResponse модель смены с доступностью мест
type ShiftResponse struct {
	ID             int64   `json:"id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Location       *string `json:"location,omitempty"`
	Capacity       int     `json:"capacity"`
	SeatsTaken     int     `json:"seatsTaken"`
	AvailableSeats int     `json:"availableSeats"`
	Finished       bool    `json:"finished"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getShiftAvailability.Response) *AvailabilityResponse {
	shifts := make([]ShiftResponse, 0, len(resp.Shifts))
	for _, s := range resp.Shifts {
		shifts = append(shifts, ShiftResponse{
			ID:             s.ID,
			Date:           s.Date.Format(domain.DateFormat),
			StartTime:      s.StartTime.String(),
			EndTime:        s.EndTime.String(),
			Location:       s.Location,
			Capacity:       s.Capacity,
			SeatsTaken:     s.SeatsTaken,
			AvailableSeats: s.AvailableSeats,
			Finished:       s.Finished,
		})
	}

	return &AvailabilityResponse{
		ProgramID: resp.ProgramID,
		Stage:     string(resp.Stage),
		Shifts:    shifts,
	}
}
