package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/shopledger/internal/importer"
)

const (
	importTimeout = 2 * time.Minute
	// maxShownRowErrors keeps the result screen on one page.
	maxShownRowErrors = 15
)

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// Importer is satisfied by *importer.Service.
type Importer interface {
	Import(ctx context.Context, r io.Reader, actor string) (*importer.Outcome, error)
}

type ImportModel struct {
	CommonModel
	importService Importer
	actor         string

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	outcome *importer.Outcome
	err     error
}

func NewImportModel(svc Importer, actor string) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		importService: svc,
		actor:         actor,
		filePicker:    fp,
		spinner:       s,
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateResult:
		return "Esc: pick another file"
	case importStateImporting:
		return "Importing..."
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		m.filePicker.SetHeight(max(msg.Height-8, 5))

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importDoneMsg:
		m.state = importStateResult
		m.outcome = msg.outcome
		m.err = msg.err

		return m, nil
	}

	switch m.state {
	case importStateImporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case importStateResult:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult:
		m.state = importStateFilePick
		m.outcome = nil
		m.err = nil

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV file to import as %q:\n\n%s", m.actor, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing %s...", m.spinner.View(), m.path),
		)
	case importStateResult:
		return lipgloss.NewStyle().Padding(2).Render(m.viewResult() + "\n\n(Esc to go back)")
	}

	return ""
}

func (m ImportModel) viewResult() string {
	var b strings.Builder

	if m.outcome != nil {
		fmt.Fprintf(&b, "%s  %s\n",
			okStyle.Render(fmt.Sprintf("Imported: %d", m.outcome.SuccessCount)),
			errorStyle.Render(fmt.Sprintf("Skipped: %d", m.outcome.ErrorCount)),
		)

		for i, e := range m.outcome.Errors {
			if i == maxShownRowErrors {
				b.WriteString(faintStyle.Render(fmt.Sprintf("  ... and %d more", len(m.outcome.Errors)-i)) + "\n")
				break
			}

			fmt.Fprintf(&b, "  row %d: %v\n", e.Row, e.Err)
		}
	}

	if m.err != nil {
		if b.Len() > 0 {
			b.WriteString("\n")
		}

		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return strings.TrimRight(b.String(), "\n")
}

type importDoneMsg struct {
	outcome *importer.Outcome
	err     error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	svc, actor := m.importService, m.actor

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		outcome, err := svc.Import(ctx, f, actor)

		return importDoneMsg{outcome: outcome, err: err}
	}
}
