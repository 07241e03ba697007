package list_appointment_requests

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests/models"
)

const (
	msgUnauthorized  = "не указана компания сотрудника"
	msgInvalidStatus = "некорректный статус, ожидается PENDING, APPROVED или REJECTED"
)

type Handler struct {
	service RequestService
	logger  Logger
}

func NewHandler(service RequestService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointment-requests
// Query params: status (optional)
// Если список не загрузился, отвечает 503 с loadFailed = true и пустым списком
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req := &models.ListRequestsRequest{CompanyID: companyID}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := strings.ToUpper(raw)
		req.Status = &status
	}

	result, err := h.service.ListByStatus(r.Context(), req)
	if err != nil {
		if errors.Is(err, requests.ErrInvalidInput) {
			h.logger.Warn("GET /appointment-requests - Invalid status: company_id=%d, status=%v", companyID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		h.logger.Error("GET /appointment-requests - Failed to list requests: company_id=%d, error=%v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	if result.LoadFailed {
		h.logger.Warn("GET /appointment-requests - Load failed: company_id=%d", companyID)
		handlers.RespondJSON(w, http.StatusServiceUnavailable, result)
		return
	}

	h.logger.Info("GET /appointment-requests - Requests retrieved successfully: company_id=%d, count=%d",
		companyID, len(result.Requests))
	handlers.RespondJSON(w, http.StatusOK, result)
}
