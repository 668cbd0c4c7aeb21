package view

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

const storeTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// StoreCtx returns a context with a standard timeout for truth file operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = activeStyle

	return s
}

func newTable() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// fillTable replaces the columns and rows of t with the content of s. Keys
// listed in marked get a leading "*" so changed rows stand out.
func fillTable(t *table.Model, s *truth.Store, marked map[string]bool) {
	headers := append([]string{s.KeyColumn()}, s.Fields()...)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}

	rows := make([]table.Row, 0, s.Len())

	for _, key := range s.Keys() {
		label := "  " + key
		if marked[key] {
			label = "* " + key
		}

		row := append(table.Row{label}, s.Row(key)...)
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}

		rows = append(rows, row)
	}

	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: widths[i]}
	}

	// Rendering indexes columns by cell, so old rows must not outlive a
	// column change.
	t.SetRows(nil)
	t.SetColumns(columns)
	t.SetRows(rows)
}

func tableBox(t table.Model) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(t.View())
}
