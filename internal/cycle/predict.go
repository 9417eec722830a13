package cycle

import (
	"math"
	"time"
)

// Window is a predicted period. Start is inclusive, End exclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the calendar day of t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(w.Start) && d.Before(w.End)
}

// PredictNextWindow projects the next period from the anchor using calendar-day
// arithmetic, so month, year and leap-day boundaries roll naturally.
func PredictNextWindow(anchor time.Time, cfg Config) Window {
	cfg = cfg.WithDefaults()
	start := Day(anchor).AddDate(0, 0, cfg.CycleLengthDays)

	return Window{
		Start: start,
		End:   start.AddDate(0, 0, cfg.PeriodLengthDays),
	}
}

// DayKind classifies a calendar day for rendering.
type DayKind string

const (
	DayNone      DayKind = "none"
	DayActual    DayKind = "actual"
	DayPredicted DayKind = "predicted"
)

// ClassifyDay returns DayActual when date is inside any logged period, else
// DayPredicted when it is inside the predicted window, else DayNone.
func ClassifyDay(date time.Time, records []PeriodRecord, w Window) DayKind {
	for _, r := range records {
		if r.Contains(date) {
			return DayActual
		}
	}

	if w.Contains(date) {
		return DayPredicted
	}

	return DayNone
}

// LockAlert is the savings protection state ahead of a predicted period.
type LockAlert struct {
	Active         bool      `json:"active"`
	DaysUntilStart int       `json:"days_until_start"`
	UnlockDate     time.Time `json:"unlock_date,omitzero"`
}

// EvaluateLockWindow reports whether the predicted period starts within the
// next LockWindowDays days. A window that has already started is not active.
func EvaluateLockWindow(w Window, now time.Time) LockAlert {
	// Compare on the calendar so the result does not depend on now's zone.
	today := Day(now)
	days := int(math.Ceil(w.Start.Sub(today).Hours() / 24))

	alert := LockAlert{DaysUntilStart: days}
	if days > 0 && days <= LockWindowDays {
		alert.Active = true
		alert.UnlockDate = now.AddDate(0, 0, LockWindowDays)
	}

	return alert
}
