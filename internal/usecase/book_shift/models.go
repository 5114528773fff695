package book_shift

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
)

// Request модель запроса на бронирование смены
type Request struct {
	UserID  int64 // ID пользователя
	ShiftID int64 // ID смены
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64     // ID бронирования
	ShiftID     int64     // ID смены
	ProgramID   int64     // ID программы смены
	VolunteerID int64     // ID волонтера
	State       string    // Статус бронирования
	EnrolledAt  time.Time // Время записи
	SeatsTaken  int       // Занято мест после бронирования
	Capacity    int       // Вместимость смены
}

func buildResponse(booking *domain.ShiftEnrollment, shift *domain.Shift, seatsTaken int) *Response {
	return &Response{
		ID:          booking.ID,
		ShiftID:     booking.ShiftID,
		ProgramID:   shift.ProgramID,
		VolunteerID: booking.VolunteerID,
		State:       string(booking.State),
		EnrolledAt:  booking.EnrolledAt,
		SeatsTaken:  seatsTaken,
		Capacity:    shift.Capacity,
	}
}
