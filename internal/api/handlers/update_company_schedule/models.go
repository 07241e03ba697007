package update_company_schedule

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP request model
// Компания берется из заголовков, а не из тела
type UpdateScheduleRequest struct {
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	SlotMinutes *int    `json:"slotMinutes,omitempty"`
	WorkingDays []int   `json:"workingDays,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(companyID int64) *models.UpdateScheduleRequest {
	return &models.UpdateScheduleRequest{
		CompanyID:   companyID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		SlotMinutes: r.SlotMinutes,
		WorkingDays: r.WorkingDays,
	}
}
