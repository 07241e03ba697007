package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Key ключ кэша: компания, дата и специалист (0 - «любой специалист»)
type Key struct {
	CompanyID      int64
	Date           string // YYYY-MM-DD
	ProfessionalID int64
}

// NewKey ключ для даты (в ее часовом поясе) и необязательного специалиста
func NewKey(companyID int64, date time.Time, professionalID *int64) Key {
	key := Key{
		CompanyID: companyID,
		Date:      date.Format(domain.DateFormat),
	}
	if professionalID != nil {
		key.ProfessionalID = *professionalID
	}
	return key
}

// String строковое представление, используемое хранилищами
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", dayPrefix(k.CompanyID, k.Date), k.professionalPart())
}

func (k Key) professionalPart() string {
	if k.ProfessionalID == 0 {
		return "any"
	}
	return fmt.Sprintf("%d", k.ProfessionalID)
}

// dayPrefix общий префикс всех ключей компании на дату
func dayPrefix(companyID int64, date string) string {
	return fmt.Sprintf("%d:%s", companyID, date)
}
