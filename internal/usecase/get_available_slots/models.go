package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса свободных слотов
type Request struct {
	CompanyID      int64     // ID компании
	Date           time.Time // Дата (время суток игнорируется)
	ProfessionalID *int64    // Специалист; nil - «любой специалист»
}

// Response модель ответа со свободными слотами
type Response struct {
	CompanyID      int64
	Date           time.Time
	ProfessionalID *int64
	Slots          []domain.TimeSlot           // Общий список по времени
	ByProfessional map[int64][]domain.TimeSlot // Разбивка по специалистам
}
