package book_shift

import "errors"

var (
	// ErrShiftNotFound возвращается, когда смена не найдена или неактивна
	ErrShiftNotFound = errors.New("book_shift: shift not found")

	// ErrProgramNotFound возвращается, когда программа смены не найдена
	ErrProgramNotFound = errors.New("book_shift: program not found")

	// ErrVolunteerNotFound возвращается, когда у пользователя нет профиля волонтера
	ErrVolunteerNotFound = errors.New("book_shift: user has no volunteer profile")

	// ErrNotEnrolled возвращается, когда волонтер не записан на программу
	// или его заявка отклонена
	ErrNotEnrolled = errors.New("book_shift: volunteer is not enrolled in the program")

	// ErrShiftFull возвращается, когда все места на смене заняты
	ErrShiftFull = errors.New("book_shift: shift is full")

	// ErrAlreadyBooked возвращается, когда волонтер уже забронировал эту смену
	ErrAlreadyBooked = errors.New("book_shift: volunteer already booked this shift")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_shift: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_shift: internal error")
)
