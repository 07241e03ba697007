package approve_request

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	approveRequest "github.com/m04kA/SMC-AppointmentService/internal/usecase/approve_request"
)

const (
	msgUnauthorized         = "не указана компания сотрудника"
	msgInvalidRequestID     = "некорректный ID заявки"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат времени, ожидается YYYY-MM-DD HH:MM:SS"
	msgInvalidData          = "некорректные данные назначения"
	msgInvalidDuration      = "длительность записи должна быть от 1 минуты до 24 часов"
	msgPastDate             = "нельзя назначить прошедшее время"
	msgConflict             = "специалист уже занят в это время, выберите другое"
	msgNotFound             = "заявка не найдена"
	msgProfessionalNotFound = "специалист не найден"
	msgInvalidTransition    = "заявка уже обработана"
	msgPartialApproval      = "результат одобрения неизвестен: запись могла быть создана, а заявка остаться в ожидании; требуется ручная сверка"
)

type Handler struct {
	useCase  ApproveRequestUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase ApproveRequestUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointment-requests/{id}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	requestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || requestID <= 0 {
		h.logger.Warn("POST /appointment-requests/{id}/approve - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req ApproveRequestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointment-requests/{id}/approve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(companyID, requestID, h.location)
	if err != nil {
		h.logger.Warn("POST /appointment-requests/{id}/approve - Failed to parse date-time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var partial *domain.PartialApprovalError
		switch {
		case errors.As(err, &partial):
			h.logger.Error("POST /appointment-requests/{id}/approve - Partial approval: request_id=%d, appointment_id=%d",
				partial.RequestID, partial.AppointmentID)
			handlers.RespondJSON(w, http.StatusInternalServerError, PartialApprovalResponse{
				Code:          http.StatusInternalServerError,
				Message:       msgPartialApproval,
				RequestID:     partial.RequestID,
				AppointmentID: partial.AppointmentID,
			})

		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Conflict: request_id=%d, professional_id=%d",
				requestID, req.ProfessionalID)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Invalid transition: request_id=%d", requestID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, domain.ErrPastDate):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Past date: request_id=%d, start_at=%s", requestID, req.StartAt)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, domain.ErrInvalidDuration):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Invalid duration: request_id=%d", requestID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, approveRequest.ErrInvalidInput):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Invalid data: request_id=%d, error=%v", requestID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, approveRequest.ErrRequestNotFound):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Request not found: request_id=%d", requestID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, approveRequest.ErrProfessionalNotFound):
			h.logger.Warn("POST /appointment-requests/{id}/approve - Professional not found: professional_id=%d", req.ProfessionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		default:
			h.logger.Error("POST /appointment-requests/{id}/approve - Failed to approve: request_id=%d, error=%v", requestID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	role, _ := middleware.GetRole(r.Context())
	h.logger.Info("POST /appointment-requests/{id}/approve - Request approved: request_id=%d, appointment_id=%d, role=%s",
		requestID, result.Appointment.ID, role)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.location))
}
