package scheduling

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Defaults значения, подставляемые вместо отсутствующих настроек компании
type Defaults struct {
	StartTime   string
	EndTime     string
	SlotMinutes int
	WorkingDays string
}

// DefaultDefaults значения по умолчанию из domain
func DefaultDefaults() Defaults {
	return Defaults{
		StartTime:   domain.DefaultStartTime,
		EndTime:     domain.DefaultEndTime,
		SlotMinutes: domain.DefaultSlotMinutes,
		WorkingDays: domain.DefaultWorkingDays,
	}
}

// ResolvePolicy превращает сырые настройки компании в проверенную политику расписания
// Пустые и отсутствующие поля заменяются значениями по умолчанию
// endTime может быть 24:00 (рабочий день до полуночи), startTime нет
// Возвращает domain.ErrInvalidSchedule, если startTime >= endTime или slotMinutes <= 0
func ResolvePolicy(settings *domain.ScheduleSettings, defaults Defaults) (*domain.SchedulePolicy, error) {
	if settings == nil {
		settings = &domain.ScheduleSettings{}
	}

	startRaw := stringOr(settings.StartTime, defaults.StartTime)
	endRaw := stringOr(settings.EndTime, defaults.EndTime)
	daysRaw := stringOr(settings.WorkingDays, defaults.WorkingDays)

	slotMinutes := defaults.SlotMinutes
	if settings.SlotMinutes != nil {
		slotMinutes = *settings.SlotMinutes
	}

	start, err := types.NewTimeStringFromString(startRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: start time: %v", domain.ErrInvalidSchedule, err)
	}

	end, err := types.NewEndTimeStringFromString(endRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: end time: %v", domain.ErrInvalidSchedule, err)
	}

	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: start time %s must be before end time %s", domain.ErrInvalidSchedule, start, end)
	}

	if slotMinutes < domain.MinSlotMinutes || slotMinutes > domain.MaxSlotMinutes {
		return nil, fmt.Errorf("%w: slot minutes must be between %d and %d, got %d",
			domain.ErrInvalidSchedule, domain.MinSlotMinutes, domain.MaxSlotMinutes, slotMinutes)
	}

	days, err := domain.ParseWorkingDays(daysRaw)
	if err != nil {
		return nil, err
	}

	return &domain.SchedulePolicy{
		CompanyID:   settings.CompanyID,
		StartTime:   start,
		EndTime:     end,
		SlotMinutes: slotMinutes,
		WorkingDays: days,
	}, nil
}

func stringOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}
