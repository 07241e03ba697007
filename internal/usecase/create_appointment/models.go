package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на создание записи
// Окончание задается либо EndAt, либо DurationMinutes
type Request struct {
	CompanyID       int64
	ProfessionalID  int64
	ClientID        int64
	ServiceID       int64
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	Notes           *string
}

// Response созданная запись в том виде, как ее вернуло хранилище
type Response struct {
	Appointment *domain.Appointment
}
