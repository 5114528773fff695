package book_shift

import "fmt"

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if req.ShiftID <= 0 {
		return fmt.Errorf("%w: shift id must be positive", ErrInvalidInput)
	}
	return nil
}
