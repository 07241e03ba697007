package update_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на изменение записи (полная замена изменяемых полей)
type Request struct {
	ID              int64
	CompanyID       int64
	ProfessionalID  int64
	ClientID        int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	Notes           *string
}

// Response запись после изменения
type Response struct {
	Appointment *domain.Appointment
}
