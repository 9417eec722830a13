package cycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Log is the append-only period history together with the anchor it drives.
type Log struct {
	records       []PeriodRecord
	defaultAnchor time.Time
}

// NewLog builds a log from persisted records. defaultAnchor is used for
// predictions until the first period is logged.
func NewLog(records []PeriodRecord, defaultAnchor time.Time) *Log {
	return &Log{
		records:       append([]PeriodRecord(nil), records...),
		defaultAnchor: Day(defaultAnchor),
	}
}

// Append validates and records a period. end must not be before start.
func (l *Log) Append(start, end time.Time, intensity Intensity) (PeriodRecord, error) {
	if start.IsZero() {
		return PeriodRecord{}, fmt.Errorf("%w: start date is required", ErrValidation)
	}

	if end.IsZero() {
		return PeriodRecord{}, fmt.Errorf("%w: end date is required", ErrValidation)
	}

	start, end = Day(start), Day(end)
	if end.Before(start) {
		return PeriodRecord{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrValidation, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	intensity, err := ParseIntensity(string(intensity))
	if err != nil {
		return PeriodRecord{}, err
	}

	rec := PeriodRecord{
		ID:        uuid.New(),
		Start:     start,
		End:       end,
		Intensity: intensity,
	}
	l.records = append(l.records, rec)

	return rec, nil
}

// Records returns a copy of the history in insertion order.
func (l *Log) Records() []PeriodRecord {
	return append([]PeriodRecord(nil), l.records...)
}

func (l *Log) Len() int {
	return len(l.records)
}

// Anchor is the latest logged start date, so backfilled history never moves
// predictions backwards. With an empty log the default anchor applies.
func (l *Log) Anchor() time.Time {
	if len(l.records) == 0 {
		return l.defaultAnchor
	}

	anchor := l.records[0].Start
	for _, r := range l.records[1:] {
		if r.Start.After(anchor) {
			anchor = r.Start
		}
	}

	return anchor
}

// Predict returns the next window for the current anchor.
func (l *Log) Predict(cfg Config) Window {
	return PredictNextWindow(l.Anchor(), cfg)
}
