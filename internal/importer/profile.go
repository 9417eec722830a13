package importer

import (
	"strings"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
)

// Profile describes the column layout of a period-history CSV.
type Profile struct {
	Format       Format
	StartCol     string
	EndCol       string
	IntensityCol string // optional
	DateLayouts  []string
}

func (p Profile) requiredCols() []string {
	return []string{p.StartCol, p.EndCol}
}

// profiles is tried in order during auto-detection.
var profiles = []Profile{
	{
		Format:       FormatMetroMood,
		StartCol:     "start",
		EndCol:       "end",
		IntensityCol: "intensity",
		DateLayouts:  []string{"2006-01-02"},
	},
	{
		Format:       FormatTracker,
		StartCol:     "period start",
		EndCol:       "period end",
		IntensityCol: "flow",
		DateLayouts:  []string{"01/02/2006", "2006-01-02"},
	},
}

func profileFor(f Format) (Profile, bool) {
	for _, p := range profiles {
		if p.Format == f {
			return p, true
		}
	}

	return Profile{}, false
}

// flowAliases maps other apps' flow labels to an intensity.
var flowAliases = map[string]cycle.Intensity{
	"spotting": cycle.IntensityLight,
	"low":      cycle.IntensityLight,
	"moderate": cycle.IntensityMedium,
	"normal":   cycle.IntensityMedium,
	"high":     cycle.IntensityHeavy,
}

func parseIntensity(s string) (cycle.Intensity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if alias, ok := flowAliases[s]; ok {
		return alias, nil
	}

	return cycle.ParseIntensity(s)
}
