package get_company_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgUnauthorized     = "не указана компания сотрудника"
	msgInvalidSchedule  = "расписание компании настроено некорректно"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/public/companies/{companyId}/schedule и GET /api/v1/schedule
// Без companyId в пути компания берется из заголовков сотрудника
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}

	result, err := h.service.Get(r.Context(), companyID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCompanyID)

		case errors.Is(err, domain.ErrInvalidSchedule):
			h.logger.Warn("GET /schedule - Invalid stored schedule: company_id=%d, error=%v", companyID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidSchedule)

		default:
			h.logger.Error("GET /schedule - Failed to get schedule: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedule - Schedule retrieved successfully: company_id=%d, is_default=%t",
		companyID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) companyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if raw, ok := mux.Vars(r)["companyId"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /schedule - Invalid company ID: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidCompanyID)
			return 0, false
		}
		return id, true
	}

	id, ok := middleware.GetCompanyID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return 0, false
	}
	return id, true
}
