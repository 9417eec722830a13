package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/export"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

var now = time.Date(2024, 1, 25, 9, 0, 0, 0, time.UTC)

type fakeSource struct {
	st *state.State
}

func (f fakeSource) Snapshot() *state.State { return f.st.Clone() }
func (f fakeSource) Now() time.Time         { return now }

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func newSource() fakeSource {
	st := state.Defaults(now, cycle.DefaultConfig())
	st.Periods = []cycle.PeriodRecord{
		{ID: uuid.New(), Start: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC), Intensity: cycle.IntensityLight},
		{ID: uuid.New(), Start: day(1, 3), End: day(1, 7), Intensity: cycle.IntensityHeavy},
	}
	st.LastPeriodStart = day(1, 3)

	created := now.AddDate(0, 0, -2)
	st.MoodSavings = []savings.Record{
		{
			ID:          uuid.New(),
			Amount:      decimal.NewFromInt(1000),
			Mood:        "excited",
			Emoji:       "🤩",
			CreatedAt:   created,
			LockedUntil: savings.LockedUntilFor(created),
		},
	}

	return fakeSource{st: st}
}

func readZip(t *testing.T, b []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	files := make(map[string]string, len(zr.File))

	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		files[f.Name] = string(content)
	}

	return files
}

func TestService_Export(t *testing.T) {
	svc := export.NewService(newSource(), nil)

	var buf bytes.Buffer

	res, err := svc.Export(context.Background(), export.Filter{}, &buf)
	require.NoError(t, err)
	assert.Len(t, res.Periods, 2)
	assert.Len(t, res.Savings, 1)

	files := readZip(t, buf.Bytes())
	require.Contains(t, files, export.PeriodsFile)
	require.Contains(t, files, export.SavingsFile)
	require.Contains(t, files, export.SummaryFile)

	assert.Equal(t, "start;end;intensity\n2023-12-01;2023-12-05;light\n2024-01-03;2024-01-07;heavy\n", files[export.PeriodsFile])
	assert.Contains(t, files[export.SavingsFile], ";excited;1000.00;")
	assert.Contains(t, files[export.SavingsFile], ";locked\n")

	summary := files[export.SummaryFile]
	assert.Contains(t, summary, "MetroMood export, Jan 25, 2024")
	assert.Contains(t, summary, "* Jan 3, 2024 – Jan 7, 2024 | heavy")
	assert.Contains(t, summary, "Next predicted period: Jan 31, 2024 – Feb 4, 2024")
	assert.Contains(t, summary, "Mood savings: 1 | total ₱1,000.00 | locked ₱1,000.00")
	assert.Contains(t, summary, "🤩 excited | ₱1,000.00 | unlocks Jan 30, 2024")
}

func TestService_ExportFiltered(t *testing.T) {
	svc := export.NewService(newSource(), nil)

	start := day(1, 1)

	res, err := svc.Export(context.Background(), export.Filter{StartDate: &start}, io.Discard)
	require.NoError(t, err)
	require.Len(t, res.Periods, 1)
	assert.Equal(t, cycle.IntensityHeavy, res.Periods[0].Intensity)

	end := day(1, 20)

	res, err = svc.Export(context.Background(), export.Filter{EndDate: &end}, io.Discard)
	require.NoError(t, err)
	assert.Len(t, res.Periods, 2)
	assert.Empty(t, res.Savings)
}

func TestService_ExportToDir(t *testing.T) {
	svc := export.NewService(newSource(), nil)
	dir := filepath.Join(t.TempDir(), "out")

	path, _, err := svc.ExportToDir(context.Background(), export.Filter{}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "metromood_20240125.zip"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, readZip(t, b), 3)
}

func TestService_ExportCancelled(t *testing.T) {
	svc := export.NewService(newSource(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Export(ctx, export.Filter{}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
