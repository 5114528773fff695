package cancel_shift_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/handlers"
	"github.com/campusvol/UVP-EnrollmentService/internal/api/middleware"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments"
)

const (
	msgInvalidShiftID    = "некорректный ID смены"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "бронирование не найдено"
	msgVolunteerNotFound = "профиль волонтера не найден"
)

type Handler struct {
	service EnrollmentService
	logger  Logger
}

func NewHandler(service EnrollmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/shifts/{shiftId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /shifts/{id}/bookings - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shifts/{id}/bookings - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	if err := h.service.CancelShiftBooking(r.Context(), userID, shiftID); err != nil {
		switch {
		case errors.Is(err, enrollments.ErrBookingNotFound):
			h.logger.Warn("DELETE /shifts/{id}/bookings - Booking not found: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, enrollments.ErrVolunteerNotFound):
			h.logger.Warn("DELETE /shifts/{id}/bookings - No volunteer profile: user_id=%d", userID)
			handlers.RespondNotFound(w, msgVolunteerNotFound)

		default:
			h.logger.Error("DELETE /shifts/{id}/bookings - Failed to cancel: shift_id=%d, user_id=%d, error=%v",
				shiftID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shifts/{id}/bookings - Booking cancelled: shift_id=%d, user_id=%d", shiftID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
