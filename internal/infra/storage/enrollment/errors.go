package enrollment

import "errors"

var (
	// ErrApplicationNotFound возвращается, когда заявка на программу не найдена
	ErrApplicationNotFound = errors.New("enrollment.repository: program application not found")

	// ErrBookingNotFound возвращается, когда бронирование смены не найдено
	ErrBookingNotFound = errors.New("enrollment.repository: shift booking not found")

	// ErrDuplicateApplication возвращается, когда активная заявка на пару
	// (программа, волонтер) уже существует
	ErrDuplicateApplication = errors.New("enrollment.repository: duplicate program application")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("enrollment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("enrollment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("enrollment.repository: failed to scan row")
)
