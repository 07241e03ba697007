package reject_request

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct{}

func (fakeService) Reject(_ context.Context, _, id int64) (*models.RequestResponse, error) {
	switch id {
	case 1, 2:
		return &models.RequestResponse{ID: id, Status: "REJECTED"}, nil
	case 3:
		return nil, fmt.Errorf("%w: APPROVED -> REJECTED (request id=3)", domain.ErrInvalidTransition)
	default:
		return nil, requests.ErrRequestNotFound
	}
}

func TestHandle(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointment-requests/{id}/reject",
		NewHandler(fakeService{}, logger.NewNop()).Handle).Methods(http.MethodPost)

	tests := []struct {
		target string
		status int
	}{
		{"/api/v1/appointment-requests/1/reject", http.StatusOK},
		{"/api/v1/appointment-requests/2/reject", http.StatusOK},
		{"/api/v1/appointment-requests/3/reject", http.StatusConflict},
		{"/api/v1/appointment-requests/4/reject", http.StatusNotFound},
		{"/api/v1/appointment-requests/x/reject", http.StatusBadRequest},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, tt.target, nil)
		r = r.WithContext(middleware.WithActor(r.Context(), 1, domain.RoleStaff))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, tt.status, w.Code, tt.target)
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}

func TestHandle_LogsActorRole(t *testing.T) {
	log := &recordingLogger{}
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointment-requests/{id}/reject",
		NewHandler(fakeService{}, log).Handle).Methods(http.MethodPost)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/appointment-requests/1/reject", nil)
	r = r.WithContext(middleware.WithActor(r.Context(), 1, domain.RoleOwner))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.Len(t, log.infos, 1) {
		assert.True(t, strings.Contains(log.infos[0], "role="+domain.RoleOwner), log.infos[0])
		assert.True(t, strings.Contains(log.infos[0], "request_id=1"), log.infos[0])
	}
}
