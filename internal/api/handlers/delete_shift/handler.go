package delete_shift

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/handlers"
	"github.com/campusvol/UVP-EnrollmentService/internal/api/middleware"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs"
)

const (
	msgInvalidShiftID   = "некорректный ID смены"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "смена не найдена"
	msgForbidden        = "доступ запрещен"
	msgOrganizationGone = "организация не найдена"
)

type Handler struct {
	service ProgramService
	logger  Logger
}

func NewHandler(service ProgramService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/shifts/{shiftId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /shifts/{id} - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	shiftID, err := strconv.ParseInt(vars["shiftId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /shifts/{id} - Invalid shift ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShiftID)
		return
	}

	if err := h.service.DeleteShift(r.Context(), userID, shiftID); err != nil {
		switch {
		case errors.Is(err, programs.ErrShiftNotFound), errors.Is(err, programs.ErrProgramNotFound):
			h.logger.Warn("DELETE /shifts/{id} - Shift not found: shift_id=%d", shiftID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, programs.ErrAccessDenied):
			h.logger.Warn("DELETE /shifts/{id} - Access denied: shift_id=%d, user_id=%d", shiftID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, programs.ErrOrganizationGone):
			h.logger.Warn("DELETE /shifts/{id} - Organization not found")
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("DELETE /shifts/{id} - Failed to delete shift: shift_id=%d, error=%v", shiftID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /shifts/{id} - Shift deleted: shift_id=%d, user_id=%d", shiftID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
