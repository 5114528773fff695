package book_shift

import (
	"time"

	bookShift "github.com/campusvol/UVP-EnrollmentService/internal/usecase/book_shift"
)

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64  `json:"id"`
	ShiftID     int64  `json:"shiftId"`
	ProgramID   int64  `json:"programId"`
	VolunteerID int64  `json:"volunteerId"`
	State       string `json:"state"`
	EnrolledAt  string `json:"enrolledAt"`
	SeatsTaken  int    `json:"seatsTaken"`
	Capacity    int    `json:"capacity"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookShift.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		ShiftID:     resp.ShiftID,
		ProgramID:   resp.ProgramID,
		VolunteerID: resp.VolunteerID,
		State:       resp.State,
		EnrolledAt:  resp.EnrolledAt.Format(time.RFC3339),
		SeatsTaken:  resp.SeatsTaken,
		Capacity:    resp.Capacity,
	}
}
