package view

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/cfi/internal/importer"
	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

var errTableNotFound = errors.New("the credible fear table was not found in this report")

type mergeState int

const (
	mergeStateFilePick mergeState = iota
	mergeStateExtracting
	mergeStatePreview
	mergeStateConfirm
	mergeStateSaving
	mergeStateResult
)

type MergeModel struct {
	CommonModel
	truthService  *truth.Service
	importService *importer.Service

	state      mergeState
	filePicker filepicker.Model
	spinner    spinner.Model
	table      table.Model
	form       *huh.Form
	confirmed  *bool

	path       string
	extraction *truth.Extraction
	merged     *truth.Store

	status string
	err    error
}

func NewMergeModel(truthSvc *truth.Service, impSvc *importer.Service) MergeModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return MergeModel{
		truthService:  truthSvc,
		importService: impSvc,
		filePicker:    fp,
		spinner:       newSpinner(),
		table:         newTable(),
		confirmed:     new(bool),
	}
}

func (m MergeModel) Title() string { return "Merge Report" }

func (m MergeModel) ShortHelp() string {
	switch m.state {
	case mergeStatePreview:
		return "s/Enter: save | Esc: pick another file"
	case mergeStateConfirm:
		return "Navigate form | Esc: back to preview"
	case mergeStateResult:
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m MergeModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m MergeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-14, 5))

	case previewMsg:
		if msg.err != nil {
			m.state = mergeStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.extraction = msg.extraction
		m.merged = msg.merged
		m.state = mergeStatePreview

		marked := make(map[string]bool, len(msg.extraction.Records))
		for key := range msg.extraction.Records {
			marked[key] = true
		}

		fillTable(&m.table, m.merged, marked)
		m.table.Focus()

		return m, nil

	case saveMsg:
		m.state = mergeStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error saving: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Saved %s date ranges (%s rows in the truth file).",
			humanize.Comma(int64(len(m.extraction.Records))), humanize.Comma(int64(m.merged.Len())))

		return m, nil
	}

	switch m.state {
	case mergeStateFilePick:
		return m.updateFilePick(msg)
	case mergeStateExtracting, mergeStateSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case mergeStatePreview:
		return m.updatePreview(msg)
	case mergeStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m MergeModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case mergeStatePreview, mergeStateResult:
		m.state = mergeStateFilePick
		m.extraction = nil
		m.merged = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case mergeStateConfirm:
		m.state = mergeStatePreview
		m.form = nil
		m.table.Focus()

		return m, nil
	case mergeStateExtracting, mergeStateSaving:
		return m, nil
	}

	return m, Back
}

func (m MergeModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = mergeStateExtracting

		return m, tea.Batch(m.spinner.Tick, m.previewCmd(path))
	}

	return m, cmd
}

func (m MergeModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "s", "enter":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m MergeModel) enterConfirm() (tea.Model, tea.Cmd) {
	*m.confirmed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("save").
				Title("Save the merged truth file?").
				Description(fmt.Sprintf("%d date ranges from %s will be written. The current file is backed up first.",
					len(m.extraction.Records), m.path)).
				Affirmative("Save").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = mergeStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m MergeModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil

	if !*m.confirmed {
		m.state = mergeStatePreview
		m.table.Focus()

		return m, nil
	}

	m.state = mergeStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m MergeModel) View() string {
	switch m.state {
	case mergeStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a Credible Fear report (.csv or .xlsx):\n\n" + m.filePicker.View(),
		)
	case mergeStateExtracting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Extracting %s...", m.spinner.View(), m.path),
		)
	case mergeStateSaving:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Saving truth file...", m.spinner.View()),
		)
	case mergeStatePreview, mergeStateConfirm:
		return m.viewPreview()
	case mergeStateResult:
		return m.viewResult()
	}

	return ""
}

func (m MergeModel) viewPreview() string {
	header := fmt.Sprintf("Preview of %s: %s date ranges from the report, %s rows after merge (* = from report)",
		activeStyle.Render(m.path),
		humanize.Comma(int64(len(m.extraction.Records))),
		humanize.Comma(int64(m.merged.Len())),
	)

	parts := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}

	if len(m.extraction.Skipped) > 0 {
		warnings := make([]string, 0, len(m.extraction.Skipped))
		for _, s := range m.extraction.Skipped {
			warnings = append(warnings, "skipped: "+s.Error())
		}

		parts = append(parts, warnStyle.Render(strings.Join(warnings, "\n")))
	}

	parts = append(parts, tableBox(m.table))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.state == mergeStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View())

		content = lipgloss.JoinVertical(lipgloss.Left, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m MergeModel) viewResult() string {
	style := successStyle
	if m.err != nil {
		style = errorStyle
	}

	return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type previewMsg struct {
	extraction *truth.Extraction
	merged     *truth.Store
	err        error
}

type saveMsg struct {
	err error
}

func (m MergeModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		extraction, err := m.importService.Import(importer.ReportCFI, f)
		if err != nil {
			return previewMsg{err: err}
		}

		if !extraction.TableFound {
			return previewMsg{err: errTableNotFound}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		merged, err := m.truthService.Preview(ctx, extraction.Records)
		if err != nil {
			return previewMsg{err: err}
		}

		return previewMsg{extraction: extraction, merged: merged}
	}
}

func (m MergeModel) saveCmd() tea.Cmd {
	merged := m.merged

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return saveMsg{err: m.truthService.Save(ctx, merged)}
	}
}
