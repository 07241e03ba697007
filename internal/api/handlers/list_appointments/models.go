package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ParseQuery формирует запрос к сервису из query параметров
// from/to: YYYY-MM-DD (начало дня) или метка времени; to не включительно
func ParseQuery(companyID int64, query url.Values, loc *time.Location) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{CompanyID: companyID}

	if raw := query.Get("professionalId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid professionalId %q", raw)
		}
		req.ProfessionalID = &id
	}

	for _, param := range []struct {
		name   string
		target **time.Time
	}{
		{"from", &req.From},
		{"to", &req.To},
	} {
		raw := query.Get(param.name)
		if raw == "" {
			continue
		}
		t, err := parseBoundary(raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", param.name, err)
		}
		*param.target = &t
	}

	if raw := query.Get("includeInactive"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive %q", raw)
		}
		req.IncludeInactive = include
	}

	return req, nil
}

func parseBoundary(raw string, loc *time.Location) (time.Time, error) {
	if t, err := types.ParseDate(raw, loc); err == nil {
		return t, nil
	}
	return types.ParseDateTime(raw, loc)
}
