package get_company_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	asked int64
}

func (f *fakeService) Get(_ context.Context, companyID int64) (*models.ScheduleResponse, error) {
	f.asked = companyID
	if companyID == 13 {
		return nil, domain.ErrInvalidSchedule
	}
	return &models.ScheduleResponse{
		CompanyID:   companyID,
		StartTime:   "09:00",
		EndTime:     "18:00",
		SlotMinutes: 30,
		WorkingDays: []int{1, 2, 3, 4, 5},
		IsDefault:   true,
	}, nil
}

func newRouter(svc *fakeService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/public/companies/{companyId}/schedule", h.Handle).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/schedule", h.Handle).Methods(http.MethodGet)
	return router
}

func TestHandle_Public(t *testing.T) {
	svc := &fakeService{}
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/companies/7/schedule", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.asked)
	assert.Contains(t, w.Body.String(), `"workingDays":[1,2,3,4,5]`)
}

func TestHandle_StaffUsesActorCompany(t *testing.T) {
	svc := &fakeService{}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	r = r.WithContext(middleware.WithActor(r.Context(), 9, domain.RoleOwner))
	w := httptest.NewRecorder()

	newRouter(svc).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), svc.asked)
}

func TestHandle_Errors(t *testing.T) {
	router := newRouter(&fakeService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/companies/13/schedule", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/companies/abc/schedule", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
