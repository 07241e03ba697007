package approve_request

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	approveRequest "github.com/m04kA/SMC-AppointmentService/internal/usecase/approve_request"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ApproveRequestRequest назначение, которое сотрудник указывает при одобрении
type ApproveRequestRequest struct {
	ProfessionalID  int64   `json:"professionalId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	StartAt         string  `json:"startAt"`
	EndAt           *string `json:"endAt,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ApproveRequestResponse HTTP response model
type ApproveRequestResponse struct {
	RequestID   int64                       `json:"requestId"`
	Status      string                      `json:"status"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// PartialApprovalResponse тело ответа, когда запись создана, а заявка осталась прежней
type PartialApprovalResponse struct {
	Code          int    `json:"code"`
	Message       string `json:"message"`
	RequestID     int64  `json:"requestId"`
	AppointmentID int64  `json:"appointmentId"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *ApproveRequestRequest) ToUseCaseRequest(companyID, requestID int64, loc *time.Location) (*approveRequest.Request, error) {
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

	return &approveRequest.Request{
		CompanyID:       companyID,
		RequestID:       requestID,
		ProfessionalID:  r.ProfessionalID,
		ClientID:        r.ClientID,
		ServiceID:       r.ServiceID,
		StartAt:         startAt,
		EndAt:           endAt,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *approveRequest.Response, loc *time.Location) *ApproveRequestResponse {
	return &ApproveRequestResponse{
		RequestID:   resp.RequestID,
		Status:      string(domain.RequestApproved),
		Appointment: models.FromDomainAppointment(resp.Appointment, loc),
	}
}
