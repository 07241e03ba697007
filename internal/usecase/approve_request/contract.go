package approve_request

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByIDForUpdate(ctx context.Context, companyID, id int64) (*domain.AppointmentRequest, error)
	MarkApproved(ctx context.Context, companyID, id, appointmentID int64) error
}

// ProfessionalRepository интерфейс справочника специалистов
type ProfessionalRepository interface {
	Belongs(ctx context.Context, companyID, professionalID int64) (bool, error)
}

// AvailabilityCache интерфейс инвалидации кэша слотов
type AvailabilityCache interface {
	Invalidate(ctx context.Context, companyID int64, date string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// IntegrityMetrics счетчик событий, требующих внимания оператора
type IntegrityMetrics interface {
	IncIntegrityEvent(kind string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
