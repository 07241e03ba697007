package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// GenerateSlots строит список свободных слотов на дату
//
// Дата берется в часовом поясе date.Location(). Слоты идут с policy.StartTime с шагом SlotMinutes,
// последний неполный слот отбрасывается. Слот остается, если не пересекается ни с одной активной записью
// (только записями professionalID, если он задан). Если notBefore не нулевое, слоты, начинающиеся
// раньше него, отбрасываются; для прошедшего дня результат пустой
//
// Результат детерминирован и упорядочен по времени
func GenerateSlots(
	policy *domain.SchedulePolicy,
	date time.Time,
	appointments []*domain.Appointment,
	professionalID *int64,
	notBefore time.Time,
) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	// 1. Нерабочий день
	if policy == nil || !policy.WorkingDays.Has(date.Weekday()) {
		return slots
	}

	startMinutes, err := policy.StartTime.Minutes()
	if err != nil {
		return slots
	}
	endMinutes, err := policy.EndTime.Minutes()
	if err != nil || policy.SlotMinutes < domain.MinSlotMinutes {
		return slots
	}

	// 2. Прошедший день целиком
	loc := date.Location()
	day := types.DateOnly(date)
	y, m, d := day.Date()
	if !notBefore.IsZero() && day.AddDate(0, 0, 1).Compare(notBefore.In(loc)) <= 0 {
		return slots
	}

	busy := Intervals(appointments, professionalID)

	// 3. Сетка слотов с проверкой пересечений
	for t := startMinutes; t+policy.SlotMinutes <= endMinutes; t += policy.SlotMinutes {
		slotStart := time.Date(y, m, d, 0, t, 0, 0, loc)
		if !notBefore.IsZero() && slotStart.Before(notBefore) {
			continue
		}

		candidate := domain.NewInterval(slotStart, policy.SlotMinutes)
		if HasConflict(busy, candidate, 0) {
			continue
		}

		slot, err := types.NewTimeStringFromMinutes(t)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// IsWorkingDay рабочий ли день по политике компании
func IsWorkingDay(policy *domain.SchedulePolicy, date time.Time) bool {
	return policy != nil && policy.WorkingDays.Has(date.Weekday())
}
