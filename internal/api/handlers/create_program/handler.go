package create_program

import (
	"errors"
	"net/http"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/handlers"
	"github.com/campusvol/UVP-EnrollmentService/internal/api/middleware"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
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

// Handle POST /api/v1/programs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /programs - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateProgramRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /programs - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	params, err := req.ToServiceParams()
	if err != nil {
		h.logger.Warn("POST /programs - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	program, err := h.service.Create(r.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, programs.ErrInvalidProgram):
			h.logger.Warn("POST /programs - Invalid program: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidProgram)

		case errors.Is(err, programs.ErrAccessDenied):
			h.logger.Warn("POST /programs - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, programs.ErrOrganizationGone):
			h.logger.Warn("POST /programs - Organization not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("POST /programs - Failed to create program: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /programs - Program created successfully: program_id=%d, user_id=%d", program.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainProgram(program))
}
