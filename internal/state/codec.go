package state

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/metromood/internal/symptom"
)

var ErrCorrupt = errors.New("corrupt state")

// Encode serializes the whole state.
func Encode(s *State) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}

	return b, nil
}

// Decode merges a persisted blob over defaults. Merging is by top-level key:
// a key present in the blob replaces the default value for that key wholesale.
// Records that break their invariants are rejected with ErrCorrupt.
func Decode(blob []byte, defaults *State) (*State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	s := defaults.Clone()

	fields := map[string]func(json.RawMessage) error{
		"user":            replace(&s.User),
		"accounts":        replace(&s.Accounts),
		"transactions":    replace(&s.Transactions),
		"moodSavings":     replace(&s.MoodSavings),
		"periods":         replace(&s.Periods),
		"symptoms":        replace(&s.Symptoms),
		"cycleLength":     replace(&s.CycleLength),
		"periodLength":    replace(&s.PeriodLength),
		"lastPeriodStart": replace(&s.LastPeriodStart),
		"savedAccounts":   replace(&s.SavedAccounts),
		"settings":        replace(&s.Settings),
	}

	for key, set := range fields {
		msg, ok := raw[key]
		if !ok || string(msg) == "null" {
			continue
		}

		if err := set(msg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
		}
	}

	if err := validate(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return s, nil
}

func replace[T any](dst *T) func(json.RawMessage) error {
	return func(msg json.RawMessage) error {
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			return err
		}

		*dst = v

		return nil
	}
}

func validate(s *State) error {
	if s.Accounts.Savings.Balance.IsNegative() {
		return fmt.Errorf("savings balance is negative: %s", s.Accounts.Savings.Balance)
	}

	if err := s.CycleConfig().Validate(); err != nil {
		return err
	}

	for i, p := range s.Periods {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("periods[%d]: %w", i, err)
		}
	}

	for i, r := range s.MoodSavings {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("moodSavings[%d]: %w", i, err)
		}
	}

	for i, tx := range s.Transactions {
		if tx.Date.IsZero() {
			return fmt.Errorf("transactions[%d]: missing date", i)
		}
	}

	if s.Symptoms == nil {
		s.Symptoms = map[string][]symptom.Symptom{}
	}

	return nil
}
