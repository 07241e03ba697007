package create_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgUnauthorized         = "не указана компания сотрудника"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат времени, ожидается YYYY-MM-DD HH:MM:SS"
	msgInvalidData          = "некорректные данные записи"
	msgInvalidDuration      = "длительность записи должна быть от 1 минуты до 24 часов"
	msgPastDate             = "нельзя записать на прошедшее время"
	msgConflict             = "специалист занят в это время"
	msgProfessionalNotFound = "специалист не найден"
)

type Handler struct {
	useCase  CreateAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(companyID, h.location)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse date-time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /appointments - Conflict: company_id=%d, professional_id=%d", companyID, req.ProfessionalID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrPastDate):
			h.logger.Warn("POST /appointments - Past date: company_id=%d, start_at=%s", companyID, req.StartAt)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, domain.ErrInvalidDuration):
			h.logger.Warn("POST /appointments - Invalid duration: company_id=%d, error=%v", companyID, err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid data: company_id=%d, error=%v", companyID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, createAppointment.ErrProfessionalNotFound):
			h.logger.Warn("POST /appointments - Professional not found: company_id=%d, professional_id=%d",
				companyID, req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, company_id=%d",
		result.Appointment.ID, companyID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result.Appointment, h.location))
}
