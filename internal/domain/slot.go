package domain

import (
	"sort"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeSlot время начала слота (HH:MM), действительное для конкретной даты и, возможно, специалиста
// Не хранится, всегда вычисляется
type TimeSlot = types.TimeString

// Availability результат поиска свободного времени на дату
// Slots - общий список (объединение по специалистам для режима «любой специалист»)
// ByProfessional - разбивка по специалистам; пустая, если специалист выбран или у компании их нет
type Availability struct {
	Slots          []TimeSlot
	ByProfessional map[int64][]TimeSlot
}

// ProfessionalIDs идентификаторы специалистов из разбивки по возрастанию
func (a *Availability) ProfessionalIDs() []int64 {
	ids := make([]int64, 0, len(a.ByProfessional))
	for id := range a.ByProfessional {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
