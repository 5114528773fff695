package enrollments

import "errors"

var (
	ErrProgramNotFound     = errors.New("enrollments: программа не найдена")
	ErrApplicationNotFound = errors.New("enrollments: заявка не найдена")
	ErrShiftNotFound       = errors.New("enrollments: смена не найдена")
	ErrBookingNotFound     = errors.New("enrollments: бронирование не найдено")
	ErrAttendanceRecorded  = errors.New("enrollments: посещаемость уже отмечена")
	ErrVolunteerNotFound   = errors.New("enrollments: профиль волонтера не найден")
	ErrNotRecruiting       = errors.New("enrollments: набор в программу не открыт")
	ErrProgramFinished     = errors.New("enrollments: программа завершена")
	ErrAlreadyApplied      = errors.New("enrollments: заявка уже подана")
	ErrNotPending          = errors.New("enrollments: заявка уже рассмотрена")
	ErrAccessDenied        = errors.New("enrollments: доступ запрещён")
	ErrOrganizationGone    = errors.New("enrollments: организация не найдена")
	ErrInternal            = errors.New("enrollments: внутренняя ошибка")
)
