package get_shift_availability

import (
	"time"

	"github.com/campusvol/UVP-EnrollmentService/internal/domain"
	"github.com/campusvol/UVP-EnrollmentService/pkg/types"
)

// Request модель запроса на получение доступности смен программы
type Request struct {
	ProgramID int64 // ID программы
}

// Response модель ответа со списком смен и их доступностью
type Response struct {
	ProgramID int64        // ID программы
	Stage     domain.Stage // Текущий этап программы
	Shifts    []ShiftSlot  // Смены программы в хронологическом порядке
}

// ShiftSlot модель смены с доступностью мест
type ShiftSlot struct {
	ID             int64            // ID смены
	Date           time.Time        // Дата смены
	StartTime      types.TimeString // Время начала
	EndTime        types.TimeString // Время окончания
	Location       *string          // Место проведения
	Capacity       int              // Вместимость
	SeatsTaken     int              // Занято мест
	AvailableSeats int              // Свободно мест
	Finished       bool             // Смена уже завершилась
}
