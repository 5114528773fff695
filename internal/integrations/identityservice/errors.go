package identityservice

import "errors"

var (
	// ErrVolunteerNotFound возвращается, когда у пользователя нет профиля волонтера
	ErrVolunteerNotFound = errors.New("user has no volunteer profile")

	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identityservice client: invalid response")
)
