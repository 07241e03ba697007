package create_appointment_request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	last *models.CreatePublicRequest
	err  error
}

func (f *fakeService) CreatePublic(_ context.Context, req *models.CreatePublicRequest) (*models.RequestResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.RequestResponse{ID: 1, CompanyID: req.CompanyID, ClientName: req.ClientName, Status: "PENDING"}, nil
}

func post(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/public/appointment-requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, r)
	return w
}

const validBody = `{"companyId":1,"clientName":"Anna","clientPhone":"+79000000000","preferredDate":"2026-10-19","preferredTime":"10:00"}`

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{}

	w := post(svc, validBody)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
	assert.Equal(t, "Anna", svc.last.ClientName)
}

func TestHandle_RejectsUnknownShape(t *testing.T) {
	svc := &fakeService{}

	// snake_case вариант полей не принимается
	w := post(svc, `{"company_id":1,"client_name":"Anna"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.last)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, post(&fakeService{err: domain.ErrPastDate}, validBody).Code)
	assert.Equal(t, http.StatusBadRequest, post(&fakeService{err: requests.ErrInvalidInput}, validBody).Code)
	assert.Equal(t, http.StatusNotFound, post(&fakeService{err: requests.ErrProfessionalNotFound}, validBody).Code)
	assert.Equal(t, http.StatusInternalServerError, post(&fakeService{err: requests.ErrInternal}, validBody).Code)
}
