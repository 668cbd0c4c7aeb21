package importer

import (
	"io"

	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

type Report string

const (
	ReportCFI Report = "cfi"
)

type Importer interface {
	Parse(r io.Reader) (*truth.Extraction, error)
}
