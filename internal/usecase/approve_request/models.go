package approve_request

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на одобрение заявки с назначением сотрудника
type Request struct {
	CompanyID       int64
	RequestID       int64
	ProfessionalID  int64
	ClientID        int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	Notes           *string
}

// Response результат одобрения
type Response struct {
	RequestID   int64
	Appointment *domain.Appointment
}
