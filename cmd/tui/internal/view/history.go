package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

// HistoryModel browses the persisted truth file.
type HistoryModel struct {
	CommonModel
	truthService *truth.Service

	table   table.Model
	store   *truth.Store
	loading bool
	err     error
}

func NewHistoryModel(truthSvc *truth.Service) HistoryModel {
	return HistoryModel{
		truthService: truthSvc,
		table:        newTable(),
		loading:      true,
	}
}

func (m HistoryModel) Title() string     { return "Truth History" }
func (m HistoryModel) ShortHelp() string { return "Esc: back | r: refresh | g/G: first/last" }

func (m HistoryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTruthMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.store = msg.store
		fillTable(&m.table, m.store, nil)
		m.table.GotoBottom()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading truth file...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.store.Len() == 0 {
		return lipgloss.NewStyle().Padding(2).Render("The truth file is empty. Merge a report to start it.")
	}

	keys := m.store.Keys()
	header := fmt.Sprintf("%s date ranges, %s to %s",
		humanize.Comma(int64(m.store.Len())),
		activeStyle.Render(keys[0]),
		activeStyle.Render(keys[len(keys)-1]),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableBox(m.table),
		),
	)
}

// Messages

type loadTruthMsg struct {
	store *truth.Store
	err   error
}

func (m HistoryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		s, err := m.truthService.Current(ctx)

		return loadTruthMsg{store: s, err: err}
	}
}
