package get_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct{}

func (fakeService) Get(_ context.Context, companyID, id int64) (*models.AppointmentResponse, error) {
	if id != 10 {
		return nil, appointments.ErrAppointmentNotFound
	}
	return &models.AppointmentResponse{ID: id, CompanyID: companyID}, nil
}

func TestHandle(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{id}", NewHandler(fakeService{}, logger.NewNop()).Handle)

	tests := []struct {
		target string
		status int
	}{
		{"/api/v1/appointments/10", http.StatusOK},
		{"/api/v1/appointments/11", http.StatusNotFound},
		{"/api/v1/appointments/x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.target, nil)
		r = r.WithContext(middleware.WithActor(r.Context(), 1, domain.RoleStaff))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, tt.status, w.Code, tt.target)
	}
}
