package cycle_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
)

func TestPeriodRecord_JSON(t *testing.T) {
	rec := cycle.PeriodRecord{
		ID:        uuid.New(),
		Start:     date(2024, 2, 28),
		End:       date(2024, 3, 2),
		Intensity: cycle.IntensityHeavy,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"start":"2024-02-28"`)

	var got cycle.PeriodRecord
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, rec, got)
	assert.NoError(t, got.Validate())
}

func TestPeriodRecord_UnmarshalRFC3339(t *testing.T) {
	id := uuid.New()
	in := `{"id":"` + id.String() + `","start":"2024-01-05T16:00:00Z","end":"2024-01-09","intensity":"light"}`

	var got cycle.PeriodRecord
	require.NoError(t, json.Unmarshal([]byte(in), &got))

	assert.Equal(t, date(2024, 1, 5), got.Start)
	assert.Equal(t, date(2024, 1, 9), got.End)
}

func TestPeriodRecord_UnmarshalInvalid(t *testing.T) {
	var got cycle.PeriodRecord
	err := json.Unmarshal([]byte(`{"start":"yesterday","end":"2024-01-09"}`), &got)
	assert.Error(t, err)
}

func TestPeriodRecord_Validate(t *testing.T) {
	base := cycle.PeriodRecord{ID: uuid.New(), Start: date(2024, 1, 5), End: date(2024, 1, 9), Intensity: cycle.IntensityLight}

	noID := base
	noID.ID = uuid.Nil
	assert.ErrorIs(t, noID.Validate(), cycle.ErrValidation)

	reversed := base
	reversed.End = date(2024, 1, 1)
	assert.ErrorIs(t, reversed.Validate(), cycle.ErrValidation)

	badIntensity := base
	badIntensity.Intensity = ""
	assert.ErrorIs(t, badIntensity.Validate(), cycle.ErrValidation)
}
