package requests

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	Create(ctx context.Context, req *domain.AppointmentRequest) (*domain.AppointmentRequest, error)
	GetByID(ctx context.Context, companyID, id int64) (*domain.AppointmentRequest, error)
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.AppointmentRequest, error)
	MarkRejected(ctx context.Context, companyID, id int64) error
}

// ProfessionalRepository интерфейс репозитория специалистов
type ProfessionalRepository interface {
	Belongs(ctx context.Context, companyID, professionalID int64) (bool, error)
}

// IntegrityMetrics счетчик событий целостности, которые требуют внимания оператора
type IntegrityMetrics interface {
	IncIntegrityEvent(kind string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
