package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreatePublicRequest заявка из публичной формы записи
type CreatePublicRequest struct {
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

// ListRequestsRequest запрос списка заявок компании
type ListRequestsRequest struct {
	CompanyID int64   `json:"companyId"`
	Status    *string `json:"status,omitempty"`
}

// Response модели

// RequestResponse ответ с данными заявки
type RequestResponse struct {
	ID             int64   `json:"id"`
	CompanyID      int64   `json:"companyId"`
	ClientName     string  `json:"clientName"`
	ClientPhone    *string `json:"clientPhone,omitempty"`
	ClientEmail    *string `json:"clientEmail,omitempty"`
	ClientID       *int64  `json:"clientId,omitempty"`
	ServiceID      *int64  `json:"serviceId,omitempty"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	PreferredDate  string  `json:"preferredDate"`
	PreferredTime  string  `json:"preferredTime"`
	Notes          *string `json:"notes,omitempty"`
	Status         string  `json:"status"`
	AppointmentID  *int64  `json:"appointmentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RequestListResponse ответ со списком заявок
// LoadFailed = true означает, что список не загрузился, а не что заявок нет
type RequestListResponse struct {
	Requests   []RequestResponse `json:"requests"`
	LoadFailed bool              `json:"loadFailed"`
}

// Методы конвертации

// FromDomainRequest конвертирует domain модель в DTO
func FromDomainRequest(r *domain.AppointmentRequest) *RequestResponse {
	if r == nil {
		return nil
	}

	return &RequestResponse{
		ID:             r.ID,
		CompanyID:      r.CompanyID,
		ClientName:     r.ClientName,
		ClientPhone:    r.ClientPhone,
		ClientEmail:    r.ClientEmail,
		ClientID:       r.ClientID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		PreferredDate:  r.PreferredDate.Format(domain.DateFormat),
		PreferredTime:  r.PreferredTime.String(),
		Notes:          r.Notes,
		Status:         string(r.Status),
		AppointmentID:  r.AppointmentID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// FromDomainRequestList конвертирует список domain моделей в DTO
func FromDomainRequestList(requests []*domain.AppointmentRequest) *RequestListResponse {
	resp := &RequestListResponse{
		Requests: make([]RequestResponse, 0, len(requests)),
	}

	for _, r := range requests {
		if item := FromDomainRequest(r); item != nil {
			resp.Requests = append(resp.Requests, *item)
		}
	}

	return resp
}

// ToDomainRequestStatus конвертирует строку в domain.RequestStatus с валидацией
func ToDomainRequestStatus(status string) (domain.RequestStatus, bool) {
	s := domain.RequestStatus(status)
	return s, s.IsValid()
}
