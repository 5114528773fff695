package create_shift

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
	msgInvalidDateTime    = "некорректный формат даты или времени"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "программа не найдена"
	msgInvalidShift       = "некорректные данные смены"
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

// Handle POST /api/v1/programs/{programId}/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /programs/{id}/shifts - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /programs/{id}/shifts - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	var req CreateShiftRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /programs/{id}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	params, err := req.ToServiceParams(programID)
	if err != nil {
		h.logger.Warn("POST /programs/{id}/shifts - Failed to parse date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	shift, err := h.service.CreateShift(r.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, programs.ErrProgramNotFound):
			h.logger.Warn("POST /programs/{id}/shifts - Program not found: program_id=%d", programID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, programs.ErrInvalidShift):
			h.logger.Warn("POST /programs/{id}/shifts - Invalid shift: program_id=%d, error=%v", programID, err)
			handlers.RespondBadRequest(w, msgInvalidShift)

		case errors.Is(err, programs.ErrAccessDenied):
			h.logger.Warn("POST /programs/{id}/shifts - Access denied: program_id=%d, user_id=%d", programID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, programs.ErrOrganizationGone):
			h.logger.Warn("POST /programs/{id}/shifts - Organization not found")
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("POST /programs/{id}/shifts - Failed to create shift: program_id=%d, error=%v", programID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /programs/{id}/shifts - Shift created: shift_id=%d, program_id=%d", shift.ID, programID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainShift(shift))
}
