package cancel_application

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
	msgInvalidProgramID  = "некорректный ID программы"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgProgramNotFound   = "программа не найдена"
	msgVolunteerNotFound = "профиль волонтера не найден"
	msgNotFound          = "заявка не найдена"
	msgProgramFinished   = "программа завершена"
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

// Handle DELETE /api/v1/programs/{programId}/applications
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /programs/{id}/applications - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /programs/{id}/applications - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	if err := h.service.CancelApplication(r.Context(), userID, programID); err != nil {
		switch {
		case errors.Is(err, enrollments.ErrProgramNotFound):
			h.logger.Warn("DELETE /programs/{id}/applications - Program not found: program_id=%d", programID)
			handlers.RespondNotFound(w, msgProgramNotFound)

		case errors.Is(err, enrollments.ErrVolunteerNotFound):
			h.logger.Warn("DELETE /programs/{id}/applications - No volunteer profile: user_id=%d", userID)
			handlers.RespondNotFound(w, msgVolunteerNotFound)

		case errors.Is(err, enrollments.ErrApplicationNotFound):
			h.logger.Warn("DELETE /programs/{id}/applications - Application not found: program_id=%d, user_id=%d", programID, userID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, enrollments.ErrProgramFinished):
			h.logger.Warn("DELETE /programs/{id}/applications - Program finished: program_id=%d", programID)
			handlers.RespondError(w, http.StatusConflict, msgProgramFinished)

		default:
			h.logger.Error("DELETE /programs/{id}/applications - Failed to cancel: program_id=%d, error=%v", programID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /programs/{id}/applications - Application cancelled: program_id=%d, user_id=%d", programID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
