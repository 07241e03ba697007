package update_appointment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

const (
	msgUnauthorized         = "не указана компания сотрудника"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат времени, ожидается YYYY-MM-DD HH:MM:SS"
	msgInvalidData          = "некорректные данные записи"
	msgInvalidDuration      = "длительность записи должна быть от 1 минуты до 24 часов"
	msgPastDate             = "нельзя перенести запись на прошедшее время"
	msgConflict             = "специалист занят в это время"
	msgNotFound             = "запись не найдена"
	msgProfessionalNotFound = "специалист не найден"
)

type Handler struct {
	useCase  UpdateAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PUT /api/v1/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("PUT /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(companyID, id, h.location)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Failed to parse date-time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("PUT /appointments/{id} - Conflict: appointment_id=%d, professional_id=%d", id, req.ProfessionalID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrPastDate):
			h.logger.Warn("PUT /appointments/{id} - Past date: appointment_id=%d, start_at=%s", id, req.StartAt)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, domain.ErrInvalidDuration):
			h.logger.Warn("PUT /appointments/{id} - Invalid duration: appointment_id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, updateAppointment.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id} - Invalid data: appointment_id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, updateAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id} - Appointment not found: appointment_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateAppointment.ErrProfessionalNotFound):
			h.logger.Warn("PUT /appointments/{id} - Professional not found: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("PUT /appointments/{id} - Failed to update appointment: appointment_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id} - Appointment updated successfully: appointment_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(result.Appointment, h.location))
}
