package book_shift

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/handlers"
	"github.com/campusvol/UVP-EnrollmentService/internal/api/middleware"
	bookShift "github.com/campusvol/UVP-EnrollmentService/internal/usecase/book_shift"
)

const (
	msgInvalidShiftID    = "некорректный ID смены"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgShiftNotFound     = "смена не найдена"
	msgProgramNotFound   = "программа не найдена"
	msgVolunteerNotFound = "профиль волонтера не найден"
	msgNotEnrolled       = "волонтер не записан на программу"
	msgShiftFull         = "все места на смене заняты"
	msgAlreadyBooked     = "смена уже забронирована"
)

type Handler struct {
	useCase BookShiftUseCase
	logger  Logger
}

func NewHandler(useCase BookShiftUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/shifts/{shiftId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /shifts/{id}/bookings - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/bookings - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &bookShift.Request{
		UserID:  userID,
		ShiftID: shiftID,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookShift.ErrShiftFull):
			h.logger.Warn("POST /shifts/{id}/bookings - Shift full: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondError(w, http.StatusConflict, msgShiftFull)

		case errors.Is(err, bookShift.ErrAlreadyBooked):
			h.logger.Warn("POST /shifts/{id}/bookings - Already booked: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyBooked)

		case errors.Is(err, bookShift.ErrNotEnrolled):
			h.logger.Warn("POST /shifts/{id}/bookings - Not enrolled: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondForbidden(w, msgNotEnrolled)

		case errors.Is(err, bookShift.ErrShiftNotFound):
			h.logger.Warn("POST /shifts/{id}/bookings - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgShiftNotFound)

		case errors.Is(err, bookShift.ErrProgramNotFound):
			h.logger.Warn("POST /shifts/{id}/bookings - Program not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgProgramNotFound)

		case errors.Is(err, bookShift.ErrVolunteerNotFound):
			h.logger.Warn("POST /shifts/{id}/bookings - No volunteer profile: user_id=%d", userID)
			handlers.RespondNotFound(w, msgVolunteerNotFound)

		case errors.Is(err, bookShift.ErrInvalidInput):
			h.logger.Warn("POST /shifts/{id}/bookings - Invalid input: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondBadRequest(w, msgInvalidShiftID)

		default:
			h.logger.Error("POST /shifts/{id}/bookings - Failed to book: shift_id=%d, user_id=%d, error=%v",
				shiftID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts/{id}/bookings - Booking created: booking_id=%d, shift_id=%d, user_id=%d, seats=%d/%d",
		result.ID, shiftID, userID, result.SeatsTaken, result.Capacity)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
