package create_appointment_request

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidData          = "проверьте имя, телефон, email, дату и время"
	msgPastDate             = "нельзя записаться на прошедшую дату"
	msgProfessionalNotFound = "специалист не найден"
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

// Handle POST /api/v1/public/appointment-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/appointment-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreatePublic(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPastDate):
			h.logger.Warn("POST /public/appointment-requests - Past date: company_id=%d, date=%s", req.CompanyID, req.PreferredDate)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, requests.ErrInvalidInput):
			h.logger.Warn("POST /public/appointment-requests - Invalid data: company_id=%d, error=%v", req.CompanyID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, requests.ErrProfessionalNotFound):
			h.logger.Warn("POST /public/appointment-requests - Professional not found: company_id=%d", req.CompanyID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("POST /public/appointment-requests - Failed to create request: company_id=%d, error=%v",
				req.CompanyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/appointment-requests - Request created successfully: request_id=%d, company_id=%d",
		result.ID, req.CompanyID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
