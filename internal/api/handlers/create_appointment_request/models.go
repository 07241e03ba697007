package create_appointment_request

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests/models"
)

// CreateAppointmentRequestRequest HTTP request model публичной формы записи
type CreateAppointmentRequestRequest struct {
	CompanyID      int64   `json:"companyId"`
	ClientName     string  `json:"clientName"`
	ClientPhone    string  `json:"clientPhone"`
	ClientEmail    *string `json:"clientEmail,omitempty"`
	ClientID       *int64  `json:"clientId,omitempty"`
	ServiceID      *int64  `json:"serviceId,omitempty"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	PreferredDate  string  `json:"preferredDate"` // "2026-10-19"
	PreferredTime  string  `json:"preferredTime"` // "10:00"
	Notes          *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateAppointmentRequestRequest) ToServiceRequest() *models.CreatePublicRequest {
	return &models.CreatePublicRequest{
		CompanyID:      r.CompanyID,
		ClientName:     r.ClientName,
		ClientPhone:    r.ClientPhone,
		ClientEmail:    r.ClientEmail,
		ClientID:       r.ClientID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		PreferredDate:  r.PreferredDate,
		PreferredTime:  r.PreferredTime,
		Notes:          r.Notes,
	}
}
