package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// UpdateScheduleRequest новые настройки расписания компании
// Отсутствующее поле означает значение по умолчанию
type UpdateScheduleRequest struct {
	CompanyID   int64   `json:"companyId"`
	StartTime   *string `json:"startTime,omitempty"`   // "09:00"
	EndTime     *string `json:"endTime,omitempty"`     // "18:00"
	SlotMinutes *int    `json:"slotMinutes,omitempty"` // 30
	WorkingDays []int   `json:"workingDays,omitempty"` // [1,2,3,4,5], 1 = понедельник
}

// ToDomainSettings конвертирует request в сырые настройки для хранения
func (r *UpdateScheduleRequest) ToDomainSettings() *domain.ScheduleSettings {
	settings := &domain.ScheduleSettings{
		CompanyID:   r.CompanyID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		SlotMinutes: r.SlotMinutes,
	}

	if r.WorkingDays != nil {
		parts := make([]string, len(r.WorkingDays))
		for i, day := range r.WorkingDays {
			parts[i] = strconv.Itoa(day)
		}
		days := strings.Join(parts, ",")
		settings.WorkingDays = &days
	}

	return settings
}

// Response модели

// ScheduleResponse действующее расписание компании с примененными значениями по умолчанию
type ScheduleResponse struct {
	CompanyID   int64      `json:"companyId"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	SlotMinutes int        `json:"slotMinutes"`
	WorkingDays []int      `json:"workingDays"`
	IsDefault   bool       `json:"isDefault"` // Компания ничего не настраивала
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainPolicy конвертирует политику расписания в DTO
func FromDomainPolicy(policy *domain.SchedulePolicy, settings *domain.ScheduleSettings) *ScheduleResponse {
	resp := &ScheduleResponse{
		CompanyID:   policy.CompanyID,
		StartTime:   policy.StartTime.String(),
		EndTime:     policy.EndTime.String(),
		SlotMinutes: policy.SlotMinutes,
		WorkingDays: policy.WorkingDays.Ordinals(),
		IsDefault:   settings == nil,
	}

	if settings != nil && !settings.UpdatedAt.IsZero() {
		updatedAt := settings.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
