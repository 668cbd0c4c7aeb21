package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cfi/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cfi/internal/config"
	"github.com/MrJamesThe3rd/cfi/internal/encoding"
	"github.com/MrJamesThe3rd/cfi/internal/importer"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
	truthStore "github.com/MrJamesThe3rd/cfi/internal/truth/store"
)

type model struct {
	appName       string
	truthService  *truth.Service
	importService *importer.Service

	currentView View
	size        tea.WindowSizeMsg

	mergeView   view.MergeModel
	historyView view.HistoryModel
}

type View int

const (
	ViewMenu    View = 0
	ViewMerge   View = 1
	ViewHistory View = 2
)

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(2)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	truthSvc := truth.NewService(truthStore.New(
		cfg.Truth.Path,
		cfg.Truth.BackupDir,
		encoding.NewDecoder(cfg.Report.PrimaryEncoding, cfg.Report.FallbackEncoding),
	))
	impSvc := importer.NewService(cfg)

	return model{
		appName:       cfg.App.Name,
		truthService:  truthSvc,
		importService: impSvc,
		currentView:   ViewMenu,
		mergeView:     view.NewMergeModel(truthSvc, impSvc),
		historyView:   view.NewHistoryModel(truthSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewMerge
				m.mergeView = view.NewMergeModel(m.truthService, m.importService)

				return m, tea.Batch(m.mergeView.Init(), m.resize())
			case "2":
				m.currentView = ViewHistory
				m.historyView = view.NewHistoryModel(m.truthService)

				return m, tea.Batch(m.historyView.Init(), m.resize())
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewMerge:
		var newModel tea.Model
		newModel, cmd = m.mergeView.Update(msg)
		m.mergeView = newModel.(view.MergeModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	}

	return m, cmd
}

// resize replays the last window size to a freshly created view.
func (m model) resize() tea.Cmd {
	if m.size.Width == 0 {
		return nil
	}

	size := m.size

	return func() tea.Msg { return size }
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Merge Report\n" +
				"2. Browse Truth File\n\n" +
				"q. Quit",
		)
	case ViewMerge:
		current = m.mergeView
	case ViewHistory:
		current = m.historyView
	default:
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).PaddingLeft(2).Render(current.Title()),
		current.View(),
		helpStyle.Render(current.ShortHelp()),
	)
}

func main() {
	// Pipeline warnings would tear the alternate screen; keep them in a file.
	if f, err := tea.LogToFile("cfi-tui.log", ""); err == nil {
		defer f.Close()
	}

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
