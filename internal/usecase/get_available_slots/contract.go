package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория настроек расписания
type ScheduleRepository interface {
	Get(ctx context.Context, companyID int64) (*domain.ScheduleSettings, error)
}

// ProfessionalRepository интерфейс справочника специалистов
type ProfessionalRepository interface {
	ListActiveIDs(ctx context.Context, companyID int64) ([]int64, error)
	Belongs(ctx context.Context, companyID, professionalID int64) (bool, error)
}

// AvailabilityCache интерфейс кэша свободных слотов
type AvailabilityCache interface {
	Load(ctx context.Context, key availability.Key, compute availability.ComputeFunc) (*domain.Availability, error)
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
