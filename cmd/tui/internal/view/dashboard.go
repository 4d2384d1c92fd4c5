package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shopledger/internal/report"
)

// Reports is satisfied by *report.Service.
type Reports interface {
	Summary(ctx context.Context, now time.Time) (report.Summary, error)
	Daily(ctx context.Context, year int, month time.Month) (report.Daily, error)
}

const chartWidth = 40

var cardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	MarginRight(1).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63"))

type DashboardModel struct {
	CommonModel
	reports Reports
	now     func() time.Time

	// month is the first day of the month shown in the chart.
	month time.Time

	summary report.Summary
	daily   report.Daily
	loading bool
	err     error
}

func NewDashboardModel(reports Reports) DashboardModel {
	now := time.Now()

	return DashboardModel{
		reports: reports,
		now:     time.Now,
		month:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		loading: true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | ←/→: month | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.summary, m.daily = msg.summary, msg.daily
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "left", "h":
			m.month = m.month.AddDate(0, -1, 0)
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.month = m.month.AddDate(0, 1, 0)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderTotals("Today", m.summary.Today),
		renderTotals("This Month", m.summary.Month),
		renderTotals("This Year", m.summary.Year),
	)

	title := fmt.Sprintf("%s %d", m.daily.Month, m.daily.Year)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			cards,
			"",
			lipgloss.NewStyle().Bold(true).Render(title),
			renderDaily(m.daily),
		),
	)
}

func renderTotals(title string, t report.Totals) string {
	net := incomeStyle.Render(FormatAmount(t.Net))
	if t.Net.IsNegative() {
		net = expenseStyle.Render(FormatAmount(t.Net))
	}

	return cardStyle.Render(fmt.Sprintf("%s\n\nIncome   %s\nExpense  %s\nNet      %s",
		lipgloss.NewStyle().Bold(true).Render(title),
		incomeStyle.Render(FormatAmount(t.Income)),
		expenseStyle.Render(FormatAmount(t.Expense)),
		net,
	))
}

// renderDaily draws one line per day with activity, scaled to the busiest day.
func renderDaily(d report.Daily) string {
	peak := decimal.Zero

	for i := range d.Labels {
		peak = decimal.Max(peak, d.Income[i], d.Expense[i])
	}

	if peak.IsZero() {
		return faintStyle.Render("No entries this month.")
	}

	var b strings.Builder

	for i, label := range d.Labels {
		in, out := d.Income[i], d.Expense[i]
		if in.IsZero() && out.IsZero() {
			continue
		}

		fmt.Fprintf(&b, "%3s %s %s\n%3s %s %s\n",
			label, incomeStyle.Render(bar(in, peak)), FormatAmount(in),
			"", expenseStyle.Render(bar(out, peak)), FormatAmount(out),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func bar(v, peak decimal.Decimal) string {
	n := int(v.Mul(decimal.NewFromInt(chartWidth)).Div(peak).IntPart())
	if n == 0 && v.IsPositive() {
		n = 1
	}

	return strings.Repeat("█", n) + strings.Repeat(" ", chartWidth-n)
}

type dashboardLoadedMsg struct {
	summary report.Summary
	daily   report.Daily
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc, now, month := m.reports, m.now(), m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := svc.Summary(ctx, now)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		daily, err := svc.Daily(ctx, month.Year(), month.Month())
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{summary: summary, daily: daily}
	}
}
