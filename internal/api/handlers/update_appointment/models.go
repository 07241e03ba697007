package update_appointment

import (
	"time"

	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UpdateAppointmentRequest HTTP request model, полная замена изменяемых полей
type UpdateAppointmentRequest struct {
	ProfessionalID  int64   `json:"professionalId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	EndAt           *string `json:"endAt,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(companyID, id int64, loc *time.Location) (*updateAppointment.Request, error) {
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

	return &updateAppointment.Request{
		ID:              id,
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
