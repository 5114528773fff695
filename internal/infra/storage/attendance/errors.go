package attendance

import "errors"

var (
	// ErrAttendanceNotFound возвращается, когда запись посещаемости не найдена
	ErrAttendanceNotFound = errors.New("attendance.repository: attendance not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("attendance.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("attendance.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("attendance.repository: failed to scan row")
)
