package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

// EntryService is the part of *ledger.Service the entry screens use.
type EntryService interface {
	Create(ctx context.Context, params ledger.CreateParams) (*ledger.Entry, error)
	List(ctx context.Context, filter ledger.ListFilter, order ledger.Order) ([]*ledger.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type entriesState int

const (
	entriesStateTimeframe entriesState = iota
	entriesStateBrowse
	entriesStateConfirmDelete
)

// kindFilters is the cycle behind the "t" key.
var kindFilters = []*ledger.Kind{nil, new(ledger.KindIncome), new(ledger.KindExpense)}

type EntriesModel struct {
	CommonModel
	entries EntryService

	state           entriesState
	timeframePicker TimeframePicker
	timeframe       TimeframeSelectedMsg
	table           table.Model
	rows            []*ledger.Entry
	confirm         *huh.Form

	// confirmed is a pointer so the form's binding survives model copies.
	confirmed *bool

	kindIdx int
	filter  ledger.ListFilter
	loading bool
	status  string
	err     error
}

func NewEntriesModel(entries EntryService) EntriesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 24},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 30},
		{Title: "By", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
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

	return EntriesModel{
		entries:         entries,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		table:           t,
	}
}

func (m EntriesModel) Title() string { return "Entries" }

func (m EntriesModel) ShortHelp() string {
	switch m.state {
	case entriesStateTimeframe:
		return "Esc: back | Enter: select"
	case entriesStateConfirmDelete:
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | t: type filter | d: date range | x: delete | r: refresh"
}

func (m EntriesModel) Init() tea.Cmd {
	return nil
}

func (m EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		msg.Apply(&m.filter)
		m.state = entriesStateBrowse
		m.loading = true

		return m, m.loadCmd()

	case loadEntriesMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.rows = msg.entries
			m.refreshTable()
		}

		return m, nil

	case deleteEntryMsg:
		m.state = entriesStateBrowse
		m.confirm = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Deleted."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case entriesStateTimeframe:
		return m.updateTimeframe(msg)
	case entriesStateBrowse:
		return m.updateBrowse(msg)
	case entriesStateConfirmDelete:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m EntriesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m EntriesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "t":
			m.kindIdx = (m.kindIdx + 1) % len(kindFilters)
			m.filter.Kind = kindFilters[m.kindIdx]
			m.loading = true

			return m, m.loadCmd()
		case "d":
			m.state = entriesStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "x", "delete":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m EntriesModel) selectedEntry() *ledger.Entry {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	return m.rows[idx]
}

func (m EntriesModel) enterConfirm() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil {
		return m, nil
	}

	m.confirmed = new(false)
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete this entry?").
				Description(fmt.Sprintf("%s  %s  %s  %s",
					FormatDate(e.Date), e.Kind, e.Category, FormatAmount(e.Amount))).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.confirmed),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = entriesStateConfirmDelete
	m.table.Blur()

	return m, m.confirm.Init()
}

func (m EntriesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = entriesStateBrowse
		m.confirm = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirmed {
		m.state = entriesStateBrowse
		m.confirm = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd(m.selectedEntry())
}

func (m EntriesModel) View() string {
	switch m.state {
	case entriesStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading entries...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	kindLabel := "All"
	if k := kindFilters[m.kindIdx]; k != nil {
		kindLabel = string(*k)
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s | %d entries",
		activeStyle(kindLabel),
		activeStyle(m.timeframe.String()),
		len(m.rows),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == entriesStateConfirmDelete && m.confirm != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Render(m.confirm.View())

		content = lipgloss.JoinVertical(lipgloss.Left, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *EntriesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))

	for _, e := range m.rows {
		sign := "+"
		if e.Kind == ledger.KindExpense {
			sign = "-"
		}

		rows = append(rows, table.Row{
			FormatDate(e.Date),
			string(e.Kind),
			e.Category,
			sign + FormatAmount(e.Amount),
			e.Description,
			e.CreatedBy,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

type loadEntriesMsg struct {
	entries []*ledger.Entry
	err     error
}

func (m EntriesModel) loadCmd() tea.Cmd {
	svc, filter := m.entries, m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		entries, err := svc.List(ctx, filter, ledger.DefaultOrder)

		return loadEntriesMsg{entries: entries, err: err}
	}
}

type deleteEntryMsg struct {
	err error
}

func (m EntriesModel) deleteCmd(e *ledger.Entry) tea.Cmd {
	if e == nil {
		return nil
	}

	svc, id := m.entries, e.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return deleteEntryMsg{err: svc.Delete(ctx, id)}
	}
}
