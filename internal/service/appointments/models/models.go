package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// ListAppointmentsRequest запрос на получение записей компании
type ListAppointmentsRequest struct {
	CompanyID       int64      `json:"companyId"`
	ProfessionalID  *int64     `json:"professionalId,omitempty"`  // Фильтр по специалисту (опционально)
	From            *time.Time `json:"from,omitempty"`            // Начало периода, включительно (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода, не включительно (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() domain.AppointmentFilter {
	return domain.AppointmentFilter{
		CompanyID:       r.CompanyID,
		ProfessionalID:  r.ProfessionalID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// AppointmentResponse ответ с данными записи
// Время передается локальной меткой компании "2026-10-19 10:00:00" без смещения
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	CompanyID       int64   `json:"companyId"`
	ProfessionalID  int64   `json:"professionalId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	EndAt           string  `json:"endAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes,omitempty"`
	Active          bool    `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	return &AppointmentResponse{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		ProfessionalID:  a.ProfessionalID,
		ClientID:        a.ClientID,
		ServiceID:       a.ServiceID,
		StartAt:         a.StartAt.In(loc).Format(domain.LocalDateTimeFormat),
		EndAt:           a.EndAt().In(loc).Format(domain.LocalDateTimeFormat),
		DurationMinutes: a.DurationMinutes,
		Notes:           a.Notes,
		Active:          a.Active,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a, loc); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}
