package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/metromood/internal/state"
)

type Service struct {
	auto     Importer
	byFormat map[Format]Importer
}

func NewService() *Service {
	byFormat := make(map[Format]Importer, len(profiles))
	for _, p := range profiles {
		byFormat[p.Format] = NewParser(p)
	}

	return &Service{
		auto:     NewParser(),
		byFormat: byFormat,
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]state.LogPeriodParams, error) {
	if format == FormatAuto {
		return s.auto.Parse(r)
	}

	importer, ok := s.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return importer.Parse(r)
}
