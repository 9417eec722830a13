package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/metromood/internal/encoding"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

// Parser reads period-history CSVs separated by ';' or ','. The header row
// selects the profile unless one is fixed.
type Parser struct {
	profiles []Profile
}

func NewParser(p ...Profile) *Parser {
	if len(p) == 0 {
		p = profiles
	}

	return &Parser{profiles: p}
}

func (p *Parser) Parse(r io.Reader) ([]state.LogPeriodParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	slog.Debug("parsing period history", "charset", charset, "bytes", len(data))

	for _, comma := range []rune{';', ','} {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx, ok := p.detectProfile(rows)
		if !ok {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrNoHeader
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

type colIndex map[string]int

func (p *Parser) detectProfile(rows [][]string) (Profile, colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for _, prof := range p.profiles {
			if matchesProfile(prof, cols) {
				return prof, cols, rowIdx, true
			}
		}
	}

	return Profile{}, nil, 0, false
}

func matchesProfile(p Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. Blank rows are skipped; anything else that
// does not parse fails the whole file.
func parseRows(p Profile, cols colIndex, rows [][]string, headerRowNum int) ([]state.LogPeriodParams, error) {
	intensityIdx, hasIntensity := cols[p.IntensityCol]

	var out []state.LogPeriodParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if isBlank(row) {
			continue
		}

		start, err := parseDate(p, cellValue(row, cols[p.StartCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: start: %w", rowNum, err)
		}

		end, err := parseDate(p, cellValue(row, cols[p.EndCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: end: %w", rowNum, err)
		}

		params := state.LogPeriodParams{Start: start, End: end}

		if hasIntensity {
			if params.Intensity, err = parseIntensity(cellValue(row, intensityIdx)); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		out = append(out, params)
	}

	return out, nil
}

func parseDate(p Profile, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}

	for _, layout := range p.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
