package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailableSlotsResponse HTTP response model
// Ключи byProfessional - ID специалистов строкой (ограничение JSON)
type AvailableSlotsResponse struct {
	CompanyID      int64               `json:"companyId"`
	Date           string              `json:"date"` // "2026-10-19"
	ProfessionalID *int64              `json:"professionalId,omitempty"`
	Slots          []string            `json:"slots"` // ["09:00", "09:30"]
	ByProfessional map[string][]string `json:"byProfessional"`
}

// ToUseCaseRequest формирует запрос к use case из параметров URL
func ToUseCaseRequest(companyID int64, dateStr string, professionalID *int64, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := types.ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		CompanyID:      companyID,
		Date:           date,
		ProfessionalID: professionalID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		CompanyID:      resp.CompanyID,
		Date:           resp.Date.Format(domain.DateFormat),
		ProfessionalID: resp.ProfessionalID,
		Slots:          slotStrings(resp.Slots),
		ByProfessional: make(map[string][]string, len(resp.ByProfessional)),
	}

	for id, slots := range resp.ByProfessional {
		result.ByProfessional[strconv.FormatInt(id, 10)] = slotStrings(slots)
	}

	return result
}

func slotStrings(slots []domain.TimeSlot) []string {
	result := make([]string, len(slots))
	for i, slot := range slots {
		result[i] = slot.String()
	}
	return result
}
