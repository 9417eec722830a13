package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/metromood/internal/state"
)

// Format names a period-history export layout. FormatAuto matches the header
// against every known profile.
type Format string

const (
	FormatAuto      Format = ""
	FormatMetroMood Format = "metromood"
	FormatTracker   Format = "tracker"
)

var (
	ErrUnknownFormat = errors.New("unknown import format")
	ErrNoHeader      = errors.New("no recognised header row")
)

type Importer interface {
	Parse(r io.Reader) ([]state.LogPeriodParams, error)
}
