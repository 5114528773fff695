package get_program

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/handlers"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/programs"
)

const (
	msgInvalidProgramID = "некорректный ID программы"
	msgNotFound         = "программа не найдена"
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

// Handle GET /api/v1/programs/{programId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /programs/{id} - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	view, err := h.service.GetByID(r.Context(), programID)
	if err != nil {
		h.respondServiceError(w, programID, err)
		return
	}

	progress, err := h.service.Progress(r.Context(), programID)
	if err != nil {
		h.respondServiceError(w, programID, err)
		return
	}

	attendance, err := h.service.AttendanceCompleteness(r.Context(), programID)
	if err != nil {
		h.respondServiceError(w, programID, err)
		return
	}

	h.logger.Info("GET /programs/{id} - Program fetched: program_id=%d, stage=%s", programID, view.Stage)
	handlers.RespondJSON(w, http.StatusOK, BuildResponse(view, progress, attendance))
}

func (h *Handler) respondServiceError(w http.ResponseWriter, programID int64, err error) {
	if errors.Is(err, programs.ErrProgramNotFound) {
		h.logger.Warn("GET /programs/{id} - Program not found: program_id=%d", programID)
		handlers.RespondNotFound(w, msgNotFound)
		return
	}
	h.logger.Error("GET /programs/{id} - Failed to fetch program: program_id=%d, error=%v", programID, err)
	handlers.RespondInternalError(w)
}
