package apply_to_program

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
	msgNotRecruiting     = "набор в программу не открыт"
	msgAlreadyApplied    = "заявка уже подана"
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

// Handle POST /api/v1/programs/{programId}/applications
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /programs/{id}/applications - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /programs/{id}/applications - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	application, err := h.service.Apply(r.Context(), userID, programID)
	if err != nil {
		switch {
		case errors.Is(err, enrollments.ErrProgramNotFound):
			h.logger.Warn("POST /programs/{id}/applications - Program not found: program_id=%d", programID)
			handlers.RespondNotFound(w, msgProgramNotFound)

		case errors.Is(err, enrollments.ErrVolunteerNotFound):
			h.logger.Warn("POST /programs/{id}/applications - No volunteer profile: user_id=%d", userID)
			handlers.RespondNotFound(w, msgVolunteerNotFound)

		case errors.Is(err, enrollments.ErrNotRecruiting):
			h.logger.Warn("POST /programs/{id}/applications - Not recruiting: program_id=%d", programID)
			handlers.RespondError(w, http.StatusConflict, msgNotRecruiting)

		case errors.Is(err, enrollments.ErrAlreadyApplied):
			h.logger.Warn("POST /programs/{id}/applications - Already applied: program_id=%d, user_id=%d", programID, userID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyApplied)

		default:
			h.logger.Error("POST /programs/{id}/applications - Failed to apply: program_id=%d, error=%v", programID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /programs/{id}/applications - Application created: application_id=%d, program_id=%d, user_id=%d",
		application.ID, programID, userID)
	handlers.RespondJSON(w, http.StatusCreated, application)
}
