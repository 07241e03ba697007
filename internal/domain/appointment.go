package domain

import (
	"fmt"
	"math"
	"time"
)

// Appointment подтвержденная запись клиента к специалисту
type Appointment struct {
	ID              int64
	CompanyID       int64
	ProfessionalID  int64
	ClientID        int64
	ServiceID       int64
	StartAt         time.Time
	DurationMinutes int
	Notes           *string
	Active          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt время окончания записи
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Interval полуоткрытый интервал [StartAt, EndAt) записи
func (a *Appointment) Interval() Interval {
	return Interval{
		ID:    a.ID,
		Start: a.StartAt,
		End:   a.EndAt(),
	}
}

// IsOn проверяет, начинается ли запись в указанный день (в часовом поясе loc)
func (a *Appointment) IsOn(date time.Time, loc *time.Location) bool {
	start := a.StartAt.In(loc)
	y1, m1, d1 := start.Date()
	y2, m2, d2 := date.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DurationFromRange вычисляет длительность в минутах: округление до минуты, минимум 1
func DurationFromRange(startAt, endAt time.Time) int {
	minutes := int(math.Round(endAt.Sub(startAt).Minutes()))
	if minutes < MinDurationMinutes {
		return MinDurationMinutes
	}
	return minutes
}

// AppointmentFilter фильтр для получения записей компании
type AppointmentFilter struct {
	CompanyID       int64      // Обязательный параметр
	ProfessionalID  *int64     // Фильтр по специалисту (опционально)
	From            *time.Time // Начало периода, включительно (опционально)
	To              *time.Time // Конец периода, не включительно (опционально)
	IncludeInactive bool       // Включать ли отмененные записи
	ForUpdate       bool       // Заблокировать строки (только внутри транзакции)
}

// DayFilter фильтр записей компании на один день
func DayFilter(companyID int64, professionalID *int64, date time.Time, loc *time.Location) AppointmentFilter {
	y, m, d := date.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 0, 1)
	return AppointmentFilter{
		CompanyID:      companyID,
		ProfessionalID: professionalID,
		From:           &from,
		To:             &to,
	}
}

// OverlapFilter фильтр записей специалиста, которые могут пересекаться с интервалом iv
// Запись длится не дольше MaxDurationMinutes, поэтому достаточно окна [iv.Start - max, iv.End)
// С ForUpdate строки окна блокируются в транзакции
func OverlapFilter(companyID, professionalID int64, iv Interval) AppointmentFilter {
	from := iv.Start.Add(-time.Duration(MaxDurationMinutes) * time.Minute)
	to := iv.End
	return AppointmentFilter{
		CompanyID:      companyID,
		ProfessionalID: &professionalID,
		From:           &from,
		To:             &to,
		ForUpdate:      true,
	}
}

// ResolveDuration длительность записи в минутах из EndAt или DurationMinutes
// EndAt имеет приоритет; длительность округляется до минуты, минимум 1
func ResolveDuration(startAt time.Time, endAt *time.Time, durationMinutes *int) (int, error) {
	var minutes int
	switch {
	case endAt != nil:
		if !endAt.After(startAt) {
			return 0, fmt.Errorf("%w: end_at must be after start_at", ErrInvalidDuration)
		}
		minutes = DurationFromRange(startAt, *endAt)
	case durationMinutes != nil:
		minutes = *durationMinutes
	default:
		return 0, fmt.Errorf("%w: end_at or duration_minutes is required", ErrInvalidDuration)
	}

	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return 0, fmt.Errorf("%w: duration must be between %d and %d minutes, got %d",
			ErrInvalidDuration, MinDurationMinutes, MaxDurationMinutes, minutes)
	}
	return minutes, nil
}
