package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/importer"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestService_Import(t *testing.T) {
	type args struct {
		format importer.Format
		input  string
	}

	type testCase struct {
		name      string
		args      args
		wantErr   error
		wantCount int
		check     func(t *testing.T, got []cycle.Intensity, starts []time.Time)
	}

	tests := []testCase{
		{
			name:      "MetroMoodSemicolon",
			args:      args{input: "start;end;intensity\n2023-11-03;2023-11-07;heavy\n\n2023-12-01;2023-12-05;\n"},
			wantCount: 2,
			check: func(t *testing.T, got []cycle.Intensity, starts []time.Time) {
				assert.Equal(t, []cycle.Intensity{cycle.IntensityHeavy, cycle.IntensityMedium}, got)
				assert.Equal(t, date(2023, 11, 3), starts[0])
			},
		},
		{
			name:      "MetroMoodComma",
			args:      args{input: "Start, End, Intensity\n2023-11-03, 2023-11-07, light\n"},
			wantCount: 1,
		},
		{
			name:      "TrackerWithPreamble",
			args:      args{input: "Exported by PeriodPal\n\nPeriod Start;Period End;Flow\n10/28/2023;11/01/2023;Spotting\n"},
			wantCount: 1,
			check: func(t *testing.T, got []cycle.Intensity, starts []time.Time) {
				assert.Equal(t, cycle.IntensityLight, got[0])
				assert.Equal(t, date(2023, 10, 28), starts[0])
			},
		},
		{
			name:      "ExplicitFormat",
			args:      args{format: importer.FormatMetroMood, input: "start;end\n2023-11-03;2023-11-07\n"},
			wantCount: 1,
		},
		{
			name:    "ExplicitFormatMismatch",
			args:    args{format: importer.FormatTracker, input: "start;end\n2023-11-03;2023-11-07\n"},
			wantErr: importer.ErrNoHeader,
		},
		{
			name:    "UnknownFormat",
			args:    args{format: "clue", input: "start;end\n"},
			wantErr: importer.ErrUnknownFormat,
		},
		{
			name:    "NoHeader",
			args:    args{input: "date;amount\n2023-11-03;100\n"},
			wantErr: importer.ErrNoHeader,
		},
		{
			name:    "BadDate",
			args:    args{input: "start;end\n03-11-2023;2023-11-07\n"},
			wantErr: nil,
		},
		{
			name:    "BadIntensity",
			args:    args{input: "start;end;intensity\n2023-11-03;2023-11-07;extreme\n"},
			wantErr: cycle.ErrValidation,
		},
	}

	svc := importer.NewService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Import(tt.args.format, strings.NewReader(tt.args.input))

			if tt.wantCount == 0 {
				require.Error(t, err)

				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			require.Len(t, got, tt.wantCount)

			if tt.check != nil {
				intensities := make([]cycle.Intensity, 0, len(got))
				starts := make([]time.Time, 0, len(got))

				for _, p := range got {
					intensities = append(intensities, p.Intensity)
					starts = append(starts, p.Start)
				}

				tt.check(t, intensities, starts)
			}
		})
	}
}

func TestParser_Windows1252(t *testing.T) {
	// A tracker export whose header carries a Windows-1252 note.
	raw, err := charmap.Windows1252.NewEncoder().String("Histórico\nstart;end;intensity\n2023-11-03;2023-11-07;medium\n")
	require.NoError(t, err)

	got, err := importer.NewParser().Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cycle.IntensityMedium, got[0].Intensity)
}
