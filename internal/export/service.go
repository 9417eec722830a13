package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

const (
	PeriodsFile = "periods.csv"
	SavingsFile = "savings.csv"
	SummaryFile = "summary.txt"
)

// Source provides the state to export.
type Source interface {
	Snapshot() *state.State
	Now() time.Time
}

// Filter limits the export to periods and savings touching [StartDate, EndDate].
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) includes(start, end time.Time) bool {
	if f.StartDate != nil && end.Before(cycle.Day(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && start.After(cycle.Day(*f.EndDate)) {
		return false
	}

	return true
}

// Result is what ended up in an archive.
type Result struct {
	Periods []cycle.PeriodRecord
	Savings []savings.Record
	Summary string
}

// Service packs period history and mood savings into a zip archive.
type Service struct {
	source Source
	format *format.Formatter
}

func NewService(source Source, f *format.Formatter) *Service {
	if f == nil {
		f = format.Default()
	}

	return &Service{source: source, format: f}
}

// ArchiveName is the default file name for an export made at now.
func ArchiveName(now time.Time) string {
	return fmt.Sprintf("metromood_%s.zip", now.Format("20060102"))
}

// FileName is ArchiveName at the source's current time.
func (s *Service) FileName() string {
	return ArchiveName(s.source.Now())
}

// Export writes the archive to w.
func (s *Service) Export(ctx context.Context, filter Filter, w io.Writer) (Result, error) {
	snap := s.source.Snapshot()
	now := s.source.Now()

	res := Result{}

	for _, p := range snap.Periods {
		if filter.includes(p.Start, p.End) {
			res.Periods = append(res.Periods, p)
		}
	}

	for _, r := range snap.MoodSavings {
		if filter.includes(cycle.Day(r.CreatedAt), cycle.Day(r.CreatedAt)) {
			res.Savings = append(res.Savings, r)
		}
	}

	res.Summary = s.GenerateSummary(snap, res, now)

	zw := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{PeriodsFile, func(w io.Writer) error { return writePeriods(w, res.Periods) }},
		{SavingsFile, func(w io.Writer) error { return writeSavings(w, res.Savings, now) }},
		{SummaryFile, func(w io.Writer) error {
			_, err := io.WriteString(w, res.Summary)
			return err
		}},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return Result{}, fmt.Errorf("creating %s: %w", f.name, err)
		}

		if err := f.write(fw); err != nil {
			return Result{}, fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return Result{}, fmt.Errorf("closing archive: %w", err)
	}

	return res, nil
}

// ExportToDir writes the archive into outputDir and returns its path.
func (s *Service) ExportToDir(ctx context.Context, filter Filter, outputDir string) (string, Result, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, s.FileName())

	f, err := os.Create(path)
	if err != nil {
		return "", Result{}, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	res, err := s.Export(ctx, filter, f)
	if err != nil {
		return "", Result{}, err
	}

	return path, res, nil
}

func writePeriods(w io.Writer, periods []cycle.PeriodRecord) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	_ = cw.Write([]string{"start", "end", "intensity"})

	for _, p := range periods {
		_ = cw.Write([]string{p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly), string(p.Intensity)})
	}

	cw.Flush()

	return cw.Error()
}

func writeSavings(w io.Writer, recs []savings.Record, now time.Time) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	_ = cw.Write([]string{"id", "created_at", "mood", "amount", "locked_until", "status"})

	for _, r := range recs {
		_ = cw.Write([]string{
			r.ID.String(),
			r.CreatedAt.Format(time.RFC3339),
			r.Mood,
			r.Amount.StringFixed(2),
			r.LockedUntil.Format(time.RFC3339),
			lockStatus(r, now),
		})
	}

	cw.Flush()

	return cw.Error()
}

func lockStatus(r savings.Record, now time.Time) string {
	if r.Locked(now) {
		return "locked"
	}

	return "unlocked"
}

// GenerateSummary renders a plain-text overview of the export.
func (s *Service) GenerateSummary(snap *state.State, res Result, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "MetroMood export, %s\n\n", s.format.Date(now))

	log := cycle.NewLog(snap.Periods, snap.LastPeriodStart)
	summary := cycle.Summarize(log, snap.CycleConfig(), now)
	next := summary.NextPeriod

	fmt.Fprintf(&sb, "Periods: %d\n", len(res.Periods))

	for _, p := range res.Periods {
		fmt.Fprintf(&sb, "* %s | %s\n", s.format.DateRange(p.Start, p.End), p.Intensity)
	}

	fmt.Fprintf(&sb, "Next predicted period: %s\n", s.format.DateRange(next.Start, next.End.AddDate(0, 0, -1)))

	if summary.Alert.Active {
		fmt.Fprintf(&sb, "Savings lock window: starts in %d days\n", summary.Alert.DaysUntilStart)
	}

	ledger := savings.NewLedger(res.Savings)

	fmt.Fprintf(&sb, "\nMood savings: %d | total %s | locked %s\n",
		ledger.Len(), s.format.Amount(ledger.Total()), s.format.Amount(ledger.TotalLocked(now)))

	for _, r := range res.Savings {
		status := "unlocked"
		if r.Locked(now) {
			status = "unlocks " + s.format.Date(r.LockedUntil)
		}

		fmt.Fprintf(&sb, "* %s | %s %s | %s | %s\n",
			r.CreatedAt.Format(time.DateOnly), r.Emoji, r.Mood, s.format.Amount(r.Amount), status)
	}

	return sb.String()
}
