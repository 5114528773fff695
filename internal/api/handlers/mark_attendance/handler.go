package mark_attendance

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
	msgInvalidShiftID     = "некорректный ID смены"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidVolunteerID = "некорректный ID волонтера"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgAlreadyRecorded    = "посещаемость уже отмечена"
	msgForbidden          = "доступ запрещен"
	msgOrganizationGone   = "организация не найдена"
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

// Handle POST /api/v1/shifts/{shiftId}/attendances
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /shifts/{id}/attendances - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /shifts/{id}/attendances - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	var req MarkAttendanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shifts/{id}/attendances - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.VolunteerID <= 0 {
		h.logger.Warn("POST /shifts/{id}/attendances - Invalid volunteer ID: %d", req.VolunteerID)
		handlers.RespondBadRequest(w, msgInvalidVolunteerID)
		return
	}

	record, err := h.service.MarkAttendance(r.Context(), userID, shiftID, req.ToServiceParams())
	if err != nil {
		switch {
		case errors.Is(err, enrollments.ErrShiftNotFound),
			errors.Is(err, enrollments.ErrProgramNotFound),
			errors.Is(err, enrollments.ErrBookingNotFound):
			h.logger.Warn("POST /shifts/{id}/attendances - Booking not found: shift_id=%d, volunteer_id=%d", shiftID, req.VolunteerID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, enrollments.ErrAttendanceRecorded):
			h.logger.Warn("POST /shifts/{id}/attendances - Already recorded: shift_id=%d, volunteer_id=%d", shiftID, req.VolunteerID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyRecorded)

		case errors.Is(err, enrollments.ErrAccessDenied):
			h.logger.Warn("POST /shifts/{id}/attendances - Access denied: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, enrollments.ErrOrganizationGone):
			h.logger.Warn("POST /shifts/{id}/attendances - Organization not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("POST /shifts/{id}/attendances - Failed to mark attendance: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shifts/{id}/attendances - Attendance recorded: attendance_id=%d, booking_id=%d, user_id=%d",
		record.ID, record.Booking.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, record)
}
