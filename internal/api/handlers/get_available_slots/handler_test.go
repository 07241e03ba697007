package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	last *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.last = req
	return f.resp, f.err
}

func serve(uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/public/companies/{companyId}/availability",
		NewHandler(uc, time.UTC, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_ReturnsSlots(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		CompanyID: 1,
		Date:      time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Slots:     []domain.TimeSlot{"09:00", "09:30"},
		ByProfessional: map[int64][]domain.TimeSlot{
			5: {"09:00"},
			6: {"09:00", "09:30"},
		},
	}}

	w := serve(uc, "/api/v1/public/companies/1/availability?date=2026-10-19")

	require.Equal(t, http.StatusOK, w.Code)
	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-19", body.Date)
	assert.Equal(t, []string{"09:00", "09:30"}, body.Slots)
	assert.Equal(t, []string{"09:00"}, body.ByProfessional["5"])
	assert.Nil(t, uc.last.ProfessionalID)
}

func TestHandle_EmptyDayIsNotAnError(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		CompanyID:      1,
		Date:           time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Slots:          []domain.TimeSlot{},
		ByProfessional: map[int64][]domain.TimeSlot{},
	}}

	w := serve(uc, "/api/v1/public/companies/1/availability?date=2026-10-18")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"companyId":1,"date":"2026-10-18","slots":[],"byProfessional":{}}`, w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{"bad company", "/api/v1/public/companies/abc/availability?date=2026-10-19", nil, http.StatusBadRequest},
		{"missing date", "/api/v1/public/companies/1/availability", nil, http.StatusBadRequest},
		{"bad date", "/api/v1/public/companies/1/availability?date=19.10.2026", nil, http.StatusBadRequest},
		{"bad professional", "/api/v1/public/companies/1/availability?date=2026-10-19&professionalId=x", nil, http.StatusBadRequest},
		{"unknown professional", "/api/v1/public/companies/1/availability?date=2026-10-19&professionalId=9",
			getAvailableSlots.ErrProfessionalNotFound, http.StatusNotFound},
		{"fetch failed", "/api/v1/public/companies/1/availability?date=2026-10-19",
			fmt.Errorf("%w: connection refused", domain.ErrFetchFailed), http.StatusServiceUnavailable},
		{"unexpected", "/api/v1/public/companies/1/availability?date=2026-10-19",
			errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, tt.target)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
