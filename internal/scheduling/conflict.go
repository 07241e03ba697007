package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// HasConflict пересекается ли candidate хотя бы с одним интервалом из existing
// excludeID позволяет при редактировании не учитывать саму редактируемую запись (0 - не исключать)
//
// Линейный проход O(n). Рассчитано на дневную загрузку одного специалиста;
// при сотнях записей в день на специалиста понадобится дерево интервалов
func HasConflict(existing []domain.Interval, candidate domain.Interval, excludeID int64) bool {
	_, found := FindConflict(existing, candidate, excludeID)
	return found
}

// FindConflict возвращает первый интервал, пересекающийся с candidate
func FindConflict(existing []domain.Interval, candidate domain.Interval, excludeID int64) (domain.Interval, bool) {
	for _, iv := range existing {
		if excludeID != 0 && iv.ID == excludeID {
			continue
		}
		if iv.Overlaps(candidate) {
			return iv, true
		}
	}
	return domain.Interval{}, false
}

// Intervals интервалы активных записей; если professionalID задан - только этого специалиста
func Intervals(appointments []*domain.Appointment, professionalID *int64) []domain.Interval {
	result := make([]domain.Interval, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.Active {
			continue
		}
		if professionalID != nil && a.ProfessionalID != *professionalID {
			continue
		}
		result = append(result, a.Interval())
	}
	return result
}

// ValidateCandidate проверки на границе создания записи, выполняемые до поиска пересечений:
// длительность не меньше минуты и начало не в прошлом
func ValidateCandidate(candidate domain.Interval, now time.Time) error {
	if candidate.End.Sub(candidate.Start) < time.Minute {
		return domain.ErrInvalidDuration
	}
	if candidate.Start.Before(now) {
		return domain.ErrPastDate
	}
	return nil
}
