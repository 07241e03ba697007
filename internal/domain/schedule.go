package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ScheduleSettings настройки публичного расписания компании в том виде, как они хранятся
// Любое поле может отсутствовать - тогда применяются значения по умолчанию
type ScheduleSettings struct {
	CompanyID   int64
	StartTime   *string // HH:MM
	EndTime     *string // HH:MM
	SlotMinutes *int
	WorkingDays *string // "1,2,3,4,5", 1 = понедельник ... 7 = воскресенье
	UpdatedAt   time.Time
}

// SchedulePolicy проверенная политика расписания с примененными значениями по умолчанию
type SchedulePolicy struct {
	CompanyID   int64
	StartTime   types.TimeString
	EndTime     types.TimeString
	SlotMinutes int
	WorkingDays WorkingDays
}

// WorkingDays битовая маска рабочих дней, бит n соответствует дню недели n (1 = понедельник ... 7 = воскресенье)
type WorkingDays uint8

// ParseWorkingDays парсит список порядковых номеров дней "1,3,5"
func ParseWorkingDays(s string) (WorkingDays, error) {
	var days WorkingDays
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 7 {
			return 0, fmt.Errorf("%w: working day %q must be 1..7", ErrInvalidSchedule, part)
		}
		days |= 1 << uint(n)
	}
	return days, nil
}

// WorkingDaysOf маска из списка порядковых номеров
func WorkingDaysOf(ordinals ...int) WorkingDays {
	var days WorkingDays
	for _, n := range ordinals {
		if n >= 1 && n <= 7 {
			days |= 1 << uint(n)
		}
	}
	return days
}

// ISOWeekday порядковый номер дня недели: 1 = понедельник ... 7 = воскресенье
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// Has рабочий ли день недели
func (w WorkingDays) Has(d time.Weekday) bool {
	return w&(1<<uint(ISOWeekday(d))) != 0
}

// IsEmpty нет ни одного рабочего дня
func (w WorkingDays) IsEmpty() bool {
	return w == 0
}

// Ordinals порядковые номера рабочих дней по возрастанию
func (w WorkingDays) Ordinals() []int {
	result := make([]int, 0, 7)
	for n := 1; n <= 7; n++ {
		if w&(1<<uint(n)) != 0 {
			result = append(result, n)
		}
	}
	sort.Ints(result)
	return result
}

// String формат хранения "1,2,3"
func (w WorkingDays) String() string {
	ordinals := w.Ordinals()
	parts := make([]string, len(ordinals))
	for i, n := range ordinals {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
