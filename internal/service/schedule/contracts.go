package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория настроек расписания
type ScheduleRepository interface {
	Get(ctx context.Context, companyID int64) (*domain.ScheduleSettings, error)
	Upsert(ctx context.Context, settings *domain.ScheduleSettings) (*domain.ScheduleSettings, error)
}

// AvailabilityCache интерфейс кэша свободных слотов
type AvailabilityCache interface {
	InvalidateCompany(ctx context.Context, companyID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
