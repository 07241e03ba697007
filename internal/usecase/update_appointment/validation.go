package update_appointment

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.ID <= 0 || req.CompanyID <= 0 {
		return fmt.Errorf("%w: appointment and company ids must be positive", ErrInvalidInput)
	}
	if req.ProfessionalID <= 0 || req.ClientID <= 0 || req.ServiceID <= 0 {
		return fmt.Errorf("%w: professional, client and service ids must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start_at is required", ErrInvalidInput)
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
