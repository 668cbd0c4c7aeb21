package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/cfi/internal/config"
	"github.com/MrJamesThe3rd/cfi/internal/encoding"
	"github.com/MrJamesThe3rd/cfi/internal/grid"
	"github.com/MrJamesThe3rd/cfi/internal/importer/cfi"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

type Service struct {
	cfiImporter Importer
}

func NewService(cfg *config.Config) *Service {
	reader := grid.NewReader(
		encoding.NewDecoder(cfg.Report.PrimaryEncoding, cfg.Report.FallbackEncoding),
		cfg.Report.Sheet,
	)

	return &Service{
		cfiImporter: cfi.New(reader, cfi.Options{
			TableTitle: cfg.Report.TableTitle,
			Threshold:  cfg.Report.MatchThreshold,
			SkipRows:   cfg.Report.SkipRows,
		}),
	}
}

func (s *Service) Import(report Report, r io.Reader) (*truth.Extraction, error) {
	var importer Importer

	switch report {
	case ReportCFI, "":
		importer = s.cfiImporter
	default:
		return nil, fmt.Errorf("unknown report: %s", report)
	}

	return importer.Parse(r)
}
