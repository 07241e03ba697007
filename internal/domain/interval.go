package domain

import "time"

// Interval полуоткрытый интервал времени [Start, End)
// ID - запись, которой принадлежит интервал (0 для кандидата)
type Interval struct {
	ID    int64
	Start time.Time
	End   time.Time
}

// NewInterval интервал длительностью minutes от start
func NewInterval(start time.Time, minutes int) Interval {
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(minutes) * time.Minute),
	}
}

// Overlaps пересекаются ли интервалы: s1 < e2 И s2 < e1
// Записи «встык» (e1 == s2) не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// IsEmpty интервал нулевой или отрицательной длины
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// TouchedDates календарные дни (YYYY-MM-DD в loc), которые занимает интервал
func TouchedDates(iv Interval, loc *time.Location) []string {
	first := iv.Start.In(loc).Format(DateFormat)
	last := first
	if iv.End.After(iv.Start) {
		last = iv.End.Add(-time.Nanosecond).In(loc).Format(DateFormat)
	}
	if first == last {
		return []string{first}
	}
	return []string{first, last}
}
