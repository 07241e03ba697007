package reject_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests"
)

const (
	msgUnauthorized      = "не указана компания сотрудника"
	msgInvalidRequestID  = "некорректный ID заявки"
	msgNotFound          = "заявка не найдена"
	msgInvalidTransition = "одобренную заявку нельзя отклонить"
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

// Handle POST /api/v1/appointment-requests/{id}/reject
// Повторное отклонение отвечает 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("POST /appointment-requests/{id}/reject - Invalid request ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	result, err := h.service.Reject(r.Context(), companyID, id)
	if err != nil {
		switch {
		case errors.Is(err, requests.ErrRequestNotFound):
			h.logger.Warn("POST /appointment-requests/{id}/reject - Request not found: request_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("POST /appointment-requests/{id}/reject - Invalid transition: request_id=%d", id)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("POST /appointment-requests/{id}/reject - Failed to reject: request_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	role, _ := middleware.GetRole(r.Context())
	h.logger.Info("POST /appointment-requests/{id}/reject - Request rejected: request_id=%d, role=%s", id, role)
	handlers.RespondJSON(w, http.StatusOK, result)
}
