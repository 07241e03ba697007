package create_appointment

import (
	"time"

	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
// Время: "2026-10-19 10:00:00" (часовой пояс компании) или ISO-8601 со смещением
type CreateAppointmentRequest struct {
	ProfessionalID  int64   `json:"professionalId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	EndAt           *string `json:"endAt,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(companyID int64, loc *time.Location) (*createAppointment.Request, error) {
	startAt, err := types.ParseDateTime(r.StartAt, loc)
	if err != nil {
		return nil, err
	}

	var endAt *time.Time
	if r.EndAt != nil {
		parsed, err := types.ParseDateTime(*r.EndAt, loc)
		if err != nil {
			return nil, err
		}
		endAt = &parsed
	}

	return &createAppointment.Request{
		CompanyID:       companyID,
		ProfessionalID:  r.ProfessionalID,
		ClientID:        r.ClientID,
		ServiceID:       r.ServiceID,
		StartAt:         startAt,
		EndAt:           endAt,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}, nil
}
