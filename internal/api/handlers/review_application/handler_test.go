package review_application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/campusvol/UVP-EnrollmentService/internal/api/middleware"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments"
	"github.com/campusvol/UVP-EnrollmentService/internal/service/enrollments/models"
)

type stubService struct {
	err error
}

func (s *stubService) Review(_ context.Context, _ int64, _ int64, _ bool) (*models.ApplicationResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ApplicationResponse{ID: 1, State: "ACCEPTED"}, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func doReview(svcErr error) *httptest.ResponseRecorder {
	h := NewHandler(&stubService{err: svcErr}, noopLogger{})

	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/applications/{applicationId}", h.Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, "/applications/7", strings.NewReader(`{"decision":"ACCEPT"}`))
	req.Header.Set("X-User-ID", "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusOK, doReview(nil).Code)
	assert.Equal(t, http.StatusNotFound, doReview(enrollments.ErrApplicationNotFound).Code)
	assert.Equal(t, http.StatusConflict, doReview(enrollments.ErrNotPending).Code)
	assert.Equal(t, http.StatusForbidden, doReview(enrollments.ErrAccessDenied).Code)

	// пропавшая организация - не внутренняя ошибка сервиса
	rec := doReview(enrollments.ErrOrganizationGone)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "организация не найдена")
}
