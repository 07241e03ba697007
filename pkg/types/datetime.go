package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateFormat YYYY-MM-DD
	DateFormat = "2006-01-02"
	// LocalDateTimeFormat локальная метка времени без смещения
	LocalDateTimeFormat = "2006-01-02 15:04:05"
)

// ErrInvalidDateTime возвращается при некорректном формате даты/времени
var ErrInvalidDateTime = errors.New("invalid date-time format")

// Форматы без смещения интерпретируются в часовом поясе компании, никогда не как UTC
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Форматы со смещением сохраняют момент времени и переводятся в часовой пояс компании
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseDateTime парсит `YYYY-MM-DD HH:MM:SS` (локальное время loc) или ISO-8601
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateTime)
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
}

// ParseDate парсит YYYY-MM-DD как полночь в часовом поясе loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateFormat, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
	}
	return t, nil
}

// DateOnly обнуляет время, сохраняя часовой пояс
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameDay проверяет, что две даты относятся к одному и тому же дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatLocal форматирует момент времени как `YYYY-MM-DD HH:MM:SS` в часовом поясе loc
func FormatLocal(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(LocalDateTimeFormat)
}
