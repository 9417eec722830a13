package symptom

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

type Symptom string

const (
	Cramps   Symptom = "cramps"
	Headache Symptom = "headache"
	Bloating Symptom = "bloating"
	Fatigue  Symptom = "fatigue"
	Mood     Symptom = "mood"
	Cravings Symptom = "cravings"
)

// All lists the known symptoms in display order.
var All = []Symptom{Cramps, Headache, Bloating, Fatigue, Mood, Cravings}

var labels = map[Symptom]string{
	Cramps:   "🤕 Cramps",
	Headache: "😵 Headache",
	Bloating: "😮‍💨 Bloating",
	Fatigue:  "😴 Fatigue",
	Mood:     "😢 Mood Swings",
	Cravings: "🍫 Cravings",
}

// Label returns the display label, or the raw value for unknown symptoms.
func (s Symptom) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}

	return string(s)
}

var (
	ErrNoSymptoms     = errors.New("select at least one symptom")
	ErrUnknownSymptom = errors.New("unknown symptom")
)

const DefaultRecentLimit = 5

// Entry is the set of symptoms recorded on one calendar day.
type Entry struct {
	Date     string    `json:"date"`
	Symptoms []Symptom `json:"symptoms"`
}

// Journal keeps at most one entry per day, keyed by YYYY-MM-DD.
type Journal struct {
	days map[string][]Symptom
}

func NewJournal(days map[string][]Symptom) *Journal {
	j := &Journal{days: make(map[string][]Symptom, len(days))}
	for k, v := range days {
		j.days[k] = slices.Clone(v)
	}

	return j
}

// Record replaces the entry for the calendar day of now.
func (j *Journal) Record(now time.Time, symptoms []Symptom) (Entry, error) {
	if len(symptoms) == 0 {
		return Entry{}, ErrNoSymptoms
	}

	for _, s := range symptoms {
		if _, ok := labels[s]; !ok {
			return Entry{}, fmt.Errorf("%w: %q", ErrUnknownSymptom, s)
		}
	}

	key := now.Format(time.DateOnly)
	j.days[key] = slices.Clone(symptoms)

	return Entry{Date: key, Symptoms: slices.Clone(symptoms)}, nil
}

// Recent returns up to n entries, newest day first.
func (j *Journal) Recent(n int) []Entry {
	keys := slices.Sorted(maps.Keys(j.days))
	slices.Reverse(keys)

	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, Entry{Date: k, Symptoms: slices.Clone(j.days[k])})
	}

	return entries
}

// Days exposes the journal for persistence.
func (j *Journal) Days() map[string][]Symptom {
	out := make(map[string][]Symptom, len(j.days))
	for k, v := range j.days {
		out[k] = slices.Clone(v)
	}

	return out
}
