package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shopledger/internal/ledger"
)

// CategoryLister is satisfied by *category.Service.
type CategoryLister interface {
	List(ctx context.Context, kind *ledger.Kind) ([]string, error)
	FallbackLabel() string
}

// entryFields holds the form bindings. It lives behind a pointer because huh
// writes through the addresses it was given.
type entryFields struct {
	kind        ledger.Kind
	category    string
	date        string
	amount      string
	description string
}

func (f *entryFields) params(actor, fallback string) (ledger.CreateParams, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
	if err != nil {
		return ledger.CreateParams{}, err
	}

	amount, err := parseFormAmount(f.amount)
	if err != nil {
		return ledger.CreateParams{}, err
	}

	cat := strings.TrimSpace(f.category)
	if cat == "" {
		cat = fallback
	}

	return ledger.CreateParams{
		Date:        date,
		Kind:        f.kind,
		Category:    cat,
		Description: strings.TrimSpace(f.description),
		Amount:      amount,
		CreatedBy:   actor,
	}, nil
}

func parseFormAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than zero")
	}

	if !ledger.AmountFits(d) {
		return decimal.Zero, errors.New("amount allows two decimals and must be below 1,000,000,000,000")
	}

	return d, nil
}

type entryFormState int

const (
	entryFormStateLoading entryFormState = iota
	entryFormStateEditing
	entryFormStateSaving
	entryFormStateResult
)

type EntryFormModel struct {
	CommonModel
	entries    EntryService
	categories CategoryLister
	actor      string
	now        func() time.Time

	state   entryFormState
	form    *huh.Form
	fields  *entryFields
	options map[ledger.Kind][]string

	saved *ledger.Entry
	err   error
}

func NewEntryFormModel(entries EntryService, categories CategoryLister, actor string) EntryFormModel {
	return EntryFormModel{
		entries:    entries,
		categories: categories,
		actor:      actor,
		now:        time.Now,
	}
}

func (m EntryFormModel) Title() string { return "New Entry" }

func (m EntryFormModel) ShortHelp() string {
	if m.state == entryFormStateResult {
		return "Enter: add another | Esc: back"
	}

	return "Tab: next field | Esc: cancel"
}

func (m EntryFormModel) Init() tea.Cmd {
	return m.loadCategoriesCmd()
}

func (m EntryFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.state = entryFormStateResult
			m.err = msg.err

			return m, nil
		}

		m.options = msg.options

		return m, m.startForm()

	case entrySavedMsg:
		m.state = entryFormStateResult
		m.saved = msg.entry
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == entryFormStateResult && msg.Type == tea.KeyEnter {
			if m.options == nil {
				m.state, m.err = entryFormStateLoading, nil
				return m, m.loadCategoriesCmd()
			}

			return m, m.startForm()
		}
	}

	if m.state != entryFormStateEditing {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	params, err := m.fields.params(m.actor, m.categories.FallbackLabel())
	if err != nil {
		m.state = entryFormStateResult
		m.err = err

		return m, nil
	}

	m.state = entryFormStateSaving

	return m, m.saveCmd(params)
}

// startForm resets the bindings and builds a fresh form. Only the category
// list depends on the chosen kind.
func (m *EntryFormModel) startForm() tea.Cmd {
	m.fields = &entryFields{
		kind: ledger.KindIncome,
		date: FormatDate(m.now()),
	}
	m.saved, m.err = nil, nil
	m.state = entryFormStateEditing

	fields, options := m.fields, m.options

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ledger.Kind]().
				Title("Type").
				Options(
					huh.NewOption("Income", ledger.KindIncome),
					huh.NewOption("Expense", ledger.KindExpense),
				).
				Value(&fields.kind),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&fields.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return huh.NewOptions(options[fields.kind]...)
				}, &fields.kind).
				Value(&fields.category),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&fields.amount).
				Validate(func(s string) error {
					_, err := parseFormAmount(s)
					return err
				}),
			huh.NewInput().
				Title("Description").
				Value(&fields.description),
		),
	).WithWidth(50).WithShowHelp(false)

	return m.form.Init()
}

func (m EntryFormModel) View() string {
	switch m.state {
	case entryFormStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading categories...")
	case entryFormStateEditing:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case entryFormStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Enter to try again, Esc to go back)",
		)
	}

	e := m.saved

	return lipgloss.NewStyle().Padding(2).Render(
		okStyle.Render("Saved.") + "\n\n" +
			fmt.Sprintf("%s  %s  %s  %s", FormatDate(e.Date), e.Category, FormatSigned(e.Kind, e.Amount), e.Description) +
			"\n\n(Enter to add another, Esc to go back)",
	)
}

type categoriesLoadedMsg struct {
	options map[ledger.Kind][]string
	err     error
}

func (m EntryFormModel) loadCategoriesCmd() tea.Cmd {
	svc := m.categories

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		options := make(map[ledger.Kind][]string, 2)

		for _, kind := range []ledger.Kind{ledger.KindIncome, ledger.KindExpense} {
			names, err := svc.List(ctx, &kind)
			if err != nil {
				return categoriesLoadedMsg{err: err}
			}

			options[kind] = names
		}

		return categoriesLoadedMsg{options: options}
	}
}

type entrySavedMsg struct {
	entry *ledger.Entry
	err   error
}

func (m EntryFormModel) saveCmd(params ledger.CreateParams) tea.Cmd {
	svc := m.entries

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		e, err := svc.Create(ctx, params)

		return entrySavedMsg{entry: e, err: err}
	}
}
