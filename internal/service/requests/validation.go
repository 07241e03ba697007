package requests

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests/models"
)

func validateCreatePublic(req *models.CreatePublicRequest) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: company_id must be positive", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: client_name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client_name is longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	phone := strings.TrimSpace(req.ClientPhone)
	if phone == "" {
		return fmt.Errorf("%w: client_phone is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(phone) > domain.MaxClientContactLength {
		return fmt.Errorf("%w: client_phone is longer than %d characters", ErrInvalidInput, domain.MaxClientContactLength)
	}

	if req.ClientEmail != nil && strings.TrimSpace(*req.ClientEmail) != "" {
		email := strings.TrimSpace(*req.ClientEmail)
		if utf8.RuneCountInString(email) > domain.MaxClientContactLength {
			return fmt.Errorf("%w: client_email is longer than %d characters", ErrInvalidInput, domain.MaxClientContactLength)
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: client_email %q is not a valid address", ErrInvalidInput, email)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes is longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	optionalIDs := []struct {
		field string
		id    *int64
	}{
		{"client_id", req.ClientID},
		{"service_id", req.ServiceID},
		{"professional_id", req.ProfessionalID},
	}
	for _, item := range optionalIDs {
		if item.id != nil && *item.id <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, item.field)
		}
	}

	return nil
}
