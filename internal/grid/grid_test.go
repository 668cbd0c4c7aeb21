package grid_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/cfi/internal/encoding"
	"github.com/MrJamesThe3rd/cfi/internal/grid"
)

func newReader() *grid.Reader {
	return grid.NewReader(encoding.NewDecoder("utf-8", "windows-1252"), "")
}

func TestIsHeader(t *testing.T) {
	type testCase struct {
		name string
		row  grid.Row
		want bool
	}

	tests := []testCase{
		{name: "Title With Blank Cells", row: grid.Row{"All Credible Fear Cases", "", "  "}, want: true},
		{name: "Title Only", row: grid.Row{"Table 2"}, want: true},
		{name: "Data Row", row: grid.Row{"Case Receipts", "1,234", ""}, want: false},
		{name: "Blank Label", row: grid.Row{"  ", "", ""}, want: false},
		{name: "Empty Row", row: grid.Row{}, want: false},
		{name: "Label Then Value Later", row: grid.Row{"FROM", "", "1/1/2024"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, grid.IsHeader(tt.row))
		})
	}
}

func TestNew_KeepsRowLengths(t *testing.T) {
	g := grid.New([][]string{{"a"}, {"b", "c", "d"}, {}})

	require.Len(t, g, 3)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, grid.Row{"a"}, g[0])
	assert.Len(t, g[1], 3)
	assert.Empty(t, g[2])
}

func TestGrid_Pad(t *testing.T) {
	g := grid.New([][]string{{"a"}, {"b", "c", "d"}, {}})

	padded := g.Pad()

	for _, row := range padded {
		assert.Len(t, row, 3)
	}

	assert.Equal(t, grid.Row{"a", "", ""}, padded[0])
	assert.Equal(t, grid.Row{"a"}, g[0])
}

func TestRow_DataExtent(t *testing.T) {
	tests := []struct {
		name string
		row  grid.Row
		want int
	}{
		{name: "Full Row", row: grid.Row{"FROM", "1/1/2024", "1/16/2024"}, want: 2},
		{name: "Trailing Blanks", row: grid.Row{"FROM", "1/1/2024", "", " "}, want: 1},
		{name: "Inner Blank", row: grid.Row{"Case Receipts", "", "7"}, want: 2},
		{name: "Label Only", row: grid.Row{"Table 2", "", ""}, want: 0},
		{name: "Empty Row", row: grid.Row{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.DataExtent())
		})
	}
}

func TestGrid_Skip(t *testing.T) {
	g := grid.New([][]string{{"meta"}, {"meta 2"}, {"table"}})

	assert.Equal(t, g, g.Skip(0))
	assert.Equal(t, grid.Row{"table"}, g.Skip(2)[0])
	assert.Empty(t, g.Skip(5))
}

func TestReader_ReadCSV(t *testing.T) {
	csv := "Report generated 2024-02-01\n" +
		"All Credible Fear Cases,,\n" +
		"FROM,1/1/2024,1/15/2024\n" +
		"Case Receipts,\"1,234\",99\n" +
		"trailing\n"

	g, err := newReader().Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, g, 5)

	assert.Equal(t, 3, g.Width())
	assert.Equal(t, grid.Row{"Case Receipts", "1,234", "99"}, g[3])
	assert.Equal(t, grid.Row{"trailing"}, g[4])
}

func TestReader_ReadCSV_Latin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Año Fiscal,,\n"))
	require.NoError(t, err)

	g, err := newReader().Read(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, g, 1)

	assert.Equal(t, "Año Fiscal", g[0][0])
}

func TestReader_ReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"All Credible Fear Cases"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"FROM", "1/1/2024", "1/15/2024"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Case Receipts", "1,234", "99"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	g, err := newReader().Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, g, 3)

	assert.Equal(t, grid.Row{"All Credible Fear Cases", "", ""}, g[0])
	assert.Equal(t, grid.Row{"Case Receipts", "1,234", "99"}, g[2])
}

func TestReader_ReadXLSX_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	r := grid.NewReader(encoding.NewDecoder("utf-8", ""), "Nope")
	_, err = r.Read(bytes.NewReader(buf.Bytes()))
	assert.Error(t, err)
}

func TestReader_EmptyInput(t *testing.T) {
	g, err := newReader().Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, g)
}
