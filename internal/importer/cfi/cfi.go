// Package cfi extracts the "All Credible Fear Cases" table from the
// semi-monthly Credible Fear and Reasonable Fear report export.
package cfi

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/cfi/internal/grid"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

const (
	DefaultTableTitle = "All Credible Fear Cases"
	DefaultThreshold  = 80
)

type Options struct {
	// TableTitle is compared against header labels with PartialRatio.
	TableTitle string
	// Threshold is the score a header label must exceed to match. Zero
	// selects DefaultThreshold.
	Threshold int
	// SkipRows is the number of leading metadata rows ignored before the
	// table search starts.
	SkipRows int
}

type Parser struct {
	reader *grid.Reader
	opts   Options
}

func New(reader *grid.Reader, opts Options) *Parser {
	if opts.TableTitle == "" {
		opts.TableTitle = DefaultTableTitle
	}

	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}

	return &Parser{reader: reader, opts: opts}
}

// Parse reads a report export and extracts its metric records.
func (p *Parser) Parse(r io.Reader) (*truth.Extraction, error) {
	g, err := p.reader.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	return p.Extract(g)
}

// Extract runs the table pipeline over an already read grid.
//
// A report without the table is not an error: the extraction comes back
// empty with TableFound unset and ErrTableNotFound among its diagnostics.
// A table whose structure cannot be read (no FROM/TO row, missing or
// misaligned category rows) is an error.
func (p *Parser) Extract(g grid.Grid) (*truth.Extraction, error) {
	g = g.Skip(p.opts.SkipRows)

	start, ok := Locate(g, p.opts.TableTitle, p.opts.Threshold)
	if !ok {
		slog.Warn("table not found in report", "title", p.opts.TableTitle, "rows", len(g))

		return &truth.Extraction{
			Records:     truth.Records{},
			Diagnostics: []error{fmt.Errorf("%w: %q", ErrTableNotFound, p.opts.TableTitle)},
		}, nil
	}

	region := Region(g, start)
	slog.Debug("located table", "header_row", start+p.opts.SkipRows, "rows", len(region))

	if len(region) == 0 {
		slog.Warn("table is empty", "header_row", start+p.opts.SkipRows)

		return &truth.Extraction{
			Records:     truth.Records{},
			TableFound:  true,
			Diagnostics: []error{ErrEmptyTable},
		}, nil
	}

	table, err := NewTable(region)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	slog.Debug("read table", "ranges", len(table.Ranges()), "categories", len(Categories))

	records, skipped := table.Reformat()
	for _, s := range skipped {
		slog.Warn("skipping date range", "error", s)
	}

	slog.Debug("reformatted records", "records", len(records), "skipped", len(skipped))

	return &truth.Extraction{
		Records:    records,
		TableFound: true,
		Skipped:    skipped,
	}, nil
}
