package get_shift_availability

import "errors"

var (
	// ErrProgramNotFound возвращается, когда программа не найдена
	ErrProgramNotFound = errors.New("get_shift_availability: program not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_shift_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_shift_availability: internal error")
)
