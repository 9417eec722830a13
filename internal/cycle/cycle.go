package cycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5

	// LockWindowDays is how far ahead of a predicted period savings are protected.
	LockWindowDays = 7
)

var ErrValidation = errors.New("validation failed")

// Intensity is the flow intensity recorded for a period.
type Intensity string

const (
	IntensityLight  Intensity = "light"
	IntensityMedium Intensity = "medium"
	IntensityHeavy  Intensity = "heavy"
)

// ParseIntensity maps user input to an Intensity. Empty input means medium.
func ParseIntensity(s string) (Intensity, error) {
	switch i := Intensity(s); i {
	case "":
		return IntensityMedium, nil
	case IntensityLight, IntensityMedium, IntensityHeavy:
		return i, nil
	}

	return "", fmt.Errorf("%w: unknown intensity %q", ErrValidation, s)
}

// PeriodRecord is one logged period. Start and End are inclusive calendar days.
type PeriodRecord struct {
	ID        uuid.UUID `json:"id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Intensity Intensity `json:"intensity"`
}

// Contains reports whether the calendar day of t lies within the record.
func (p PeriodRecord) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Config holds the cycle parameters used for predictions.
type Config struct {
	CycleLengthDays  int `json:"cycleLength"`
	PeriodLengthDays int `json:"periodLength"`
}

func DefaultConfig() Config {
	return Config{
		CycleLengthDays:  DefaultCycleLength,
		PeriodLengthDays: DefaultPeriodLength,
	}
}

// WithDefaults fills zero fields with the default lengths.
func (c Config) WithDefaults() Config {
	if c.CycleLengthDays == 0 {
		c.CycleLengthDays = DefaultCycleLength
	}

	if c.PeriodLengthDays == 0 {
		c.PeriodLengthDays = DefaultPeriodLength
	}

	return c
}

func (c Config) Validate() error {
	if c.CycleLengthDays <= 0 {
		return fmt.Errorf("%w: cycle length must be positive, got %d", ErrValidation, c.CycleLengthDays)
	}

	if c.PeriodLengthDays <= 0 {
		return fmt.Errorf("%w: period length must be positive, got %d", ErrValidation, c.PeriodLengthDays)
	}

	return nil
}

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", ErrValidation)
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}

	return t, nil
}
