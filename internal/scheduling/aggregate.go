package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Merge объединяет слоты специалистов в общий список для режима «любой специалист»
// Общий список отсортирован по времени и без повторов; разбивка сохраняется как есть
func Merge(byProfessional map[int64][]domain.TimeSlot) *domain.Availability {
	seen := make(map[domain.TimeSlot]struct{})
	union := make([]domain.TimeSlot, 0)
	breakdown := make(map[int64][]domain.TimeSlot, len(byProfessional))

	for id, slots := range byProfessional {
		if slots == nil {
			slots = []domain.TimeSlot{}
		}
		breakdown[id] = slots
		for _, slot := range slots {
			if _, ok := seen[slot]; ok {
				continue
			}
			seen[slot] = struct{}{}
			union = append(union, slot)
		}
	}

	SortSlots(union)

	return &domain.Availability{
		Slots:          union,
		ByProfessional: breakdown,
	}
}

// Single результат для одного специалиста или компании без специалистов
func Single(slots []domain.TimeSlot) *domain.Availability {
	if slots == nil {
		slots = []domain.TimeSlot{}
	}
	return &domain.Availability{
		Slots:          slots,
		ByProfessional: map[int64][]domain.TimeSlot{},
	}
}

// SortSlots сортирует слоты по времени начала
func SortSlots(slots []domain.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].MustMinutes() < slots[j].MustMinutes()
	})
}

// DropPast копия результата без слотов, начинающихся раньше now
// Кэшированный результат на сегодня со временем устаревает, поэтому фильтр применяется при выдаче
func DropPast(a *domain.Availability, date, now time.Time) *domain.Availability {
	loc := date.Location()
	day := types.DateOnly(date)
	if !day.AddDate(0, 0, 1).After(now.In(loc)) {
		return Single(nil)
	}
	if day.After(now.In(loc)) {
		return a
	}

	y, m, d := day.Date()
	keep := func(slots []domain.TimeSlot) []domain.TimeSlot {
		result := make([]domain.TimeSlot, 0, len(slots))
		for _, slot := range slots {
			start := time.Date(y, m, d, 0, slot.MustMinutes(), 0, 0, loc)
			if !start.Before(now) {
				result = append(result, slot)
			}
		}
		return result
	}

	filtered := &domain.Availability{
		Slots:          keep(a.Slots),
		ByProfessional: make(map[int64][]domain.TimeSlot, len(a.ByProfessional)),
	}
	for id, slots := range a.ByProfessional {
		filtered.ByProfessional[id] = keep(slots)
	}
	return filtered
}
