package update_program

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
	msgInvalidProgramID   = "некорректный ID программы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "программа не найдена"
	msgInvalidProgram     = "некорректные данные программы"
	msgForbidden          = "доступ запрещен"
	msgOrganizationGone   = "организация не найдена"
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

// Handle PATCH /api/v1/programs/{programId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /programs/{id} - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /programs/{id} - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	var req UpdateProgramRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /programs/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	params, err := req.ToServiceParams()
	if err != nil {
		h.logger.Warn("PATCH /programs/{id} - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Update(r.Context(), userID, programID, params)
	if err != nil {
		switch {
		case errors.Is(err, programs.ErrProgramNotFound):
			h.logger.Warn("PATCH /programs/{id} - Program not found: program_id=%d", programID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, programs.ErrInvalidProgram):
			h.logger.Warn("PATCH /programs/{id} - Invalid program: program_id=%d, error=%v", programID, err)
			handlers.RespondBadRequest(w, msgInvalidProgram)

		case errors.Is(err, programs.ErrAccessDenied):
			h.logger.Warn("PATCH /programs/{id} - Access denied: program_id=%d, user_id=%d", programID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, programs.ErrOrganizationGone):
			h.logger.Warn("PATCH /programs/{id} - Organization not found")
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("PATCH /programs/{id} - Failed to update program: program_id=%d, error=%v", programID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /programs/{id} - Program updated: program_id=%d, removed_shifts=%d",
		programID, len(result.RemovedShiftIDs))
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(result))
}
