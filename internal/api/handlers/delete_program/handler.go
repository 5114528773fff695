package delete_program

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
	msgInvalidProgramID = "некорректный ID программы"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "программа не найдена"
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

// Handle DELETE /api/v1/programs/{programId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /programs/{id} - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /programs/{id} - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	if err := h.service.Delete(r.Context(), userID, programID); err != nil {
		switch {
		case errors.Is(err, programs.ErrProgramNotFound):
			h.logger.Warn("DELETE /programs/{id} - Program not found: program_id=%d", programID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, programs.ErrAccessDenied):
			h.logger.Warn("DELETE /programs/{id} - Access denied: program_id=%d, user_id=%d", programID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, programs.ErrOrganizationGone):
			h.logger.Warn("DELETE /programs/{id} - Organization not found")
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("DELETE /programs/{id} - Failed to delete program: program_id=%d, error=%v", programID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /programs/{id} - Program deleted: program_id=%d, user_id=%d", programID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
