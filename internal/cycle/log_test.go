package cycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
)

func TestLog_Append(t *testing.T) {
	type args struct {
		start     time.Time
		end       time.Time
		intensity cycle.Intensity
	}

	type testCase struct {
		name          string
		args          args
		wantErr       bool
		wantIntensity cycle.Intensity
	}

	tests := []testCase{
		{
			name:          "Success",
			args:          args{start: date(2024, 2, 1), end: date(2024, 2, 5), intensity: cycle.IntensityHeavy},
			wantIntensity: cycle.IntensityHeavy,
		},
		{
			name:          "SingleDay",
			args:          args{start: date(2024, 2, 1), end: date(2024, 2, 1), intensity: cycle.IntensityLight},
			wantIntensity: cycle.IntensityLight,
		},
		{
			name:          "EmptyIntensityDefaultsToMedium",
			args:          args{start: date(2024, 2, 1), end: date(2024, 2, 3)},
			wantIntensity: cycle.IntensityMedium,
		},
		{
			name:    "MissingStart",
			args:    args{end: date(2024, 2, 5)},
			wantErr: true,
		},
		{
			name:    "MissingEnd",
			args:    args{start: date(2024, 2, 5)},
			wantErr: true,
		},
		{
			name:    "EndBeforeStart",
			args:    args{start: date(2024, 2, 5), end: date(2024, 2, 1)},
			wantErr: true,
		},
		{
			name:    "UnknownIntensity",
			args:    args{start: date(2024, 2, 1), end: date(2024, 2, 2), intensity: "extreme"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := cycle.NewLog(nil, date(2024, 1, 1))

			got, err := l.Append(tt.args.start, tt.args.end, tt.args.intensity)
			if tt.wantErr {
				require.ErrorIs(t, err, cycle.ErrValidation)
				assert.Equal(t, 0, l.Len())
				assert.Equal(t, date(2024, 1, 1), l.Anchor())

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantIntensity, got.Intensity)
			assert.Equal(t, 1, l.Len())
			assert.Equal(t, tt.args.start, l.Anchor())
		})
	}
}

func TestLog_AnchorIgnoresBackfill(t *testing.T) {
	l := cycle.NewLog(nil, date(2024, 1, 1))

	_, err := l.Append(date(2024, 3, 3), date(2024, 3, 7), cycle.IntensityMedium)
	require.NoError(t, err)

	_, err = l.Append(date(2024, 2, 4), date(2024, 2, 8), cycle.IntensityMedium)
	require.NoError(t, err)

	assert.Equal(t, date(2024, 3, 3), l.Anchor())
	assert.Equal(t, date(2024, 3, 31), l.Predict(cycle.DefaultConfig()).Start)

	records := l.Records()
	require.Len(t, records, 2)
	assert.Equal(t, date(2024, 3, 3), records[0].Start, "insertion order is kept")
}

func TestLog_EarlierThanDefaultAnchor(t *testing.T) {
	l := cycle.NewLog(nil, date(2024, 1, 1))

	_, err := l.Append(date(2023, 11, 20), date(2023, 11, 24), cycle.IntensityLight)
	require.NoError(t, err)

	assert.Equal(t, date(2023, 11, 20), l.Anchor())
}

func TestParseDate(t *testing.T) {
	got, err := cycle.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 29), got)

	_, err = cycle.ParseDate("")
	assert.ErrorIs(t, err, cycle.ErrValidation)

	_, err = cycle.ParseDate("2023-02-29")
	assert.ErrorIs(t, err, cycle.ErrValidation)
}
