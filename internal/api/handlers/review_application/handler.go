package review_application

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
	msgInvalidApplicationID = "некорректный ID заявки"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDecision      = "некорректное решение, ожидается ACCEPT или REJECT"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "заявка не найдена"
	msgNotPending           = "заявка уже рассмотрена"
	msgForbidden            = "доступ запрещен"
	msgOrganizationGone     = "организация не найдена"
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

// Handle PATCH /api/v1/applications/{applicationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /applications/{id} - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	vars := mux.Vars(r)
	applicationID, err := strconv.ParseInt(vars["applicationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /applications/{id} - Invalid application ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidApplicationID)
		return
	}

	var req ReviewApplicationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /applications/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	accept, err := req.Accept()
	if err != nil {
		h.logger.Warn("PATCH /applications/{id} - Invalid decision: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDecision)
		return
	}

	application, err := h.service.Review(r.Context(), userID, applicationID, accept)
	if err != nil {
		switch {
		case errors.Is(err, enrollments.ErrApplicationNotFound), errors.Is(err, enrollments.ErrProgramNotFound):
			h.logger.Warn("PATCH /applications/{id} - Application not found: application_id=%d", applicationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, enrollments.ErrNotPending):
			h.logger.Warn("PATCH /applications/{id} - Not pending: application_id=%d", applicationID)
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, enrollments.ErrAccessDenied):
			h.logger.Warn("PATCH /applications/{id} - Access denied: application_id=%d, user_id=%d", applicationID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, enrollments.ErrOrganizationGone):
			h.logger.Warn("PATCH /applications/{id} - Organization not found: application_id=%d", applicationID)
			handlers.RespondNotFound(w, msgOrganizationGone)

		default:
			h.logger.Error("PATCH /applications/{id} - Failed to review: application_id=%d, error=%v", applicationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /applications/{id} - Application reviewed: application_id=%d, state=%s, user_id=%d",
		applicationID, application.State, userID)
	handlers.RespondJSON(w, http.StatusOK, application)
}
