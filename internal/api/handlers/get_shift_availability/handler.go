package get_shift_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/handlers"
	getShiftAvailability "github.com/campusvol/UVP-EnrollmentService/internal/usecase/get_shift_availability"
)

const (
	msgInvalidProgramID = "некорректный ID программы"
	msgNotFound         = "программа не найдена"
)

type Handler struct {
	useCase GetShiftAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetShiftAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/programs/{programId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	programID, err := strconv.ParseInt(vars["programId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /programs/{id}/availability - Invalid program ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProgramID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getShiftAvailability.Request{ProgramID: programID})
	if err != nil {
		switch {
		case errors.Is(err, getShiftAvailability.ErrProgramNotFound):
			h.logger.Warn("GET /programs/{id}/availability - Program not found: program_id=%d", programID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, getShiftAvailability.ErrInvalidInput):
			h.logger.Warn("GET /programs/{id}/availability - Invalid input: program_id=%d", programID)
			handlers.RespondBadRequest(w, msgInvalidProgramID)

		default:
			h.logger.Error("GET /programs/{id}/availability - Failed: program_id=%d, error=%v", programID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /programs/{id}/availability - Fetched: program_id=%d, shifts=%d", programID, len(result.Shifts))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
