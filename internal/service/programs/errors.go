package programs

import "errors"

var (
	ErrProgramNotFound  = errors.New("programs: программа не найдена")
	ErrShiftNotFound    = errors.New("programs: смена не найдена")
	ErrAccessDenied     = errors.New("programs: доступ запрещён")
	ErrInvalidProgram   = errors.New("programs: некорректные данные программы")
	ErrInvalidShift     = errors.New("programs: некорректные данные смены")
	ErrOrganizationGone = errors.New("programs: организация не найдена")
	ErrInternal         = errors.New("programs: внутренняя ошибка")
)
