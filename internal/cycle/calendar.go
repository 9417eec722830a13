package cycle

import (
	"fmt"
	"time"
)

// CalendarDay is the view-model for a single day cell.
type CalendarDay struct {
	Date    time.Time `json:"date"`
	Day     int       `json:"day"`
	Kind    DayKind   `json:"kind"`
	IsToday bool      `json:"is_today"`
}

// Month is a rendered month grid. Leading is the number of empty cells before
// the 1st when weeks start on Sunday.
type Month struct {
	Year    int           `json:"year"`
	Month   time.Month    `json:"month"`
	Leading int           `json:"leading"`
	Days    []CalendarDay `json:"days"`
}

func (m Month) Title() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// BuildMonth classifies every day of the month containing month.
func BuildMonth(month time.Time, records []PeriodRecord, w Window, now time.Time) Month {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	today := Day(now)

	m := Month{
		Year:    first.Year(),
		Month:   first.Month(),
		Leading: int(first.Weekday()),
		Days:    make([]CalendarDay, 0, last.Day()),
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		m.Days = append(m.Days, CalendarDay{
			Date:    d,
			Day:     d.Day(),
			Kind:    ClassifyDay(d, records, w),
			IsToday: d.Equal(today),
		})
	}

	return m
}

// ParseMonth parses a YYYY-MM string. Empty input yields the month of now.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid month %q", ErrValidation, s)
	}

	return t, nil
}

// Summary is the side-panel info shown next to the calendar.
type Summary struct {
	LastPeriod time.Time `json:"last_period"`
	NextPeriod Window    `json:"next_period"`
	Alert      LockAlert `json:"alert"`
}

func Summarize(l *Log, cfg Config, now time.Time) Summary {
	w := l.Predict(cfg)

	return Summary{
		LastPeriod: l.Anchor(),
		NextPeriod: w,
		Alert:      EvaluateLockWindow(w, now),
	}
}
