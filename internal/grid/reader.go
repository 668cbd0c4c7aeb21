package grid

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	enc "github.com/MrJamesThe3rd/cfi/internal/encoding"
)

var zipMagic = []byte("PK\x03\x04")

// Reader builds grids from CSV or XLSX report exports.
type Reader struct {
	decoder *enc.Decoder
	sheet   string
}

// NewReader returns a Reader that decodes CSV input with decoder and reads
// the named sheet from workbooks (the first sheet when sheet is empty).
func NewReader(decoder *enc.Decoder, sheet string) *Reader {
	return &Reader{decoder: decoder, sheet: sheet}
}

// Read sniffs the input and dispatches to ReadXLSX for zip containers and
// to ReadCSV for everything else.
func (r *Reader) Read(src io.Reader) (Grid, error) {
	br := bufio.NewReader(src)

	head, err := br.Peek(len(zipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.Equal(head, zipMagic) {
		return r.ReadXLSX(br)
	}

	return r.ReadCSV(br)
}

// ReadCSV decodes src and parses it as comma-separated text.
func (r *Reader) ReadCSV(src io.Reader) (Grid, error) {
	utf8r, err := r.decoder.NewUTF8Reader(src)
	if err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return New(rows), nil
}

// ReadXLSX reads the configured sheet of a workbook using its displayed
// cell values, so locale formatting matches the CSV export. Workbook rows
// lose their trailing blank cells, so they are padded to the widest row of
// the sheet.
func (r *Reader) ReadXLSX(src io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Grid{}, nil
		}

		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return New(rows).Pad(), nil
}
