package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RequestStatus статус заявки на запись
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// IsValid проверяет, что статус известен
func (s RequestStatus) IsValid() bool {
	return s == RequestPending || s == RequestApproved || s == RequestRejected
}

// IsTerminal APPROVED и REJECTED - конечные состояния
func (s RequestStatus) IsTerminal() bool {
	return s == RequestApproved || s == RequestRejected
}

// AppointmentRequest заявка на запись из публичной формы, ожидающая решения сотрудника
// Инвариант: AppointmentID задан тогда и только тогда, когда Status == APPROVED
type AppointmentRequest struct {
	ID             int64
	CompanyID      int64
	ClientName     string
	ClientEmail    *string
	ClientPhone    *string
	ClientID       *int64
	ServiceID      *int64
	ProfessionalID *int64
	PreferredDate  time.Time
	PreferredTime  types.TimeString
	Notes          *string
	Status         RequestStatus
	AppointmentID  *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo проверяет допустимость перехода; разрешены только PENDING -> APPROVED|REJECTED
func (r *AppointmentRequest) CanTransitionTo(next RequestStatus) error {
	if r.Status != RequestPending || !next.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s (request id=%d)", ErrInvalidTransition, r.Status, next, r.ID)
	}
	return nil
}

// CheckInvariant проверяет связь статуса и AppointmentID
func (r *AppointmentRequest) CheckInvariant() error {
	approved := r.Status == RequestApproved
	hasAppointment := r.AppointmentID != nil && *r.AppointmentID > 0
	if approved != hasAppointment {
		return fmt.Errorf("request id=%d: status=%s with appointment_id set=%t", r.ID, r.Status, hasAppointment)
	}
	return nil
}

// Assignment данные, которые сотрудник указывает при одобрении заявки
type Assignment struct {
	ProfessionalID  int64
	ClientID        int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Notes           *string
}

// Interval интервал назначенного времени
func (a Assignment) Interval() Interval {
	return NewInterval(a.StartAt, a.DurationMinutes)
}

// RequestFilter фильтр заявок компании
type RequestFilter struct {
	CompanyID int64
	Status    *RequestStatus
}
