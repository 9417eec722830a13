package cycle

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type periodRecordJSON struct {
	ID        uuid.UUID `json:"id"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Intensity Intensity `json:"intensity"`
}

// MarshalJSON writes period days as YYYY-MM-DD.
func (p PeriodRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodRecordJSON{
		ID:        p.ID,
		Start:     p.Start.Format(time.DateOnly),
		End:       p.End.Format(time.DateOnly),
		Intensity: p.Intensity,
	})
}

// UnmarshalJSON accepts both YYYY-MM-DD and RFC 3339 day strings.
func (p *PeriodRecord) UnmarshalJSON(b []byte) error {
	var raw periodRecordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	start, err := parseStoredDay(raw.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	end, err := parseStoredDay(raw.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}

	*p = PeriodRecord{
		ID:        raw.ID,
		Start:     start,
		End:       end,
		Intensity: raw.Intensity,
	}

	return nil
}

func parseStoredDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}

	return Day(t), nil
}

// Validate checks the invariants a persisted record must hold.
func (p PeriodRecord) Validate() error {
	switch {
	case p.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrValidation)
	case p.Start.IsZero() || p.End.IsZero():
		return fmt.Errorf("%w: missing dates", ErrValidation)
	case p.End.Before(p.Start):
		return fmt.Errorf("%w: end before start", ErrValidation)
	}

	switch p.Intensity {
	case IntensityLight, IntensityMedium, IntensityHeavy:
		return nil
	}

	return fmt.Errorf("%w: unknown intensity %q", ErrValidation, p.Intensity)
}
