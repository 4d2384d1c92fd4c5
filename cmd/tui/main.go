package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/shopledger/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/shopledger/internal/app"
	"github.com/MrJamesThe3rd/shopledger/internal/config"
	"github.com/MrJamesThe3rd/shopledger/internal/logging"
)

type View int

const (
	ViewMenu View = iota
	ViewImport
	ViewEntries
	ViewNewEntry
	ViewExport
	ViewDashboard
)

var menu = []struct {
	key   string
	label string
	view  View
}{
	{"1", "Import CSV", ViewImport},
	{"2", "Browse Entries", ViewEntries},
	{"3", "New Entry", ViewNewEntry},
	{"4", "Export CSV", ViewExport},
	{"5", "Dashboard", ViewDashboard},
}

type model struct {
	svc   *app.Services
	actor string
	title string
	size  tea.WindowSizeMsg

	currentView View
	screens     map[View]view.View
}

func newModel(cfg *config.Config, svc *app.Services) model {
	return model{
		svc:         svc,
		actor:       cfg.Ledger.Actor,
		title:       cfg.App.Name,
		currentView: ViewMenu,
		screens:     map[View]view.View{},
	}
}

// open builds a fresh screen so every visit starts from a clean state.
func (m model) open(v View) view.View {
	switch v {
	case ViewImport:
		return view.NewImportModel(m.svc.Importer, m.actor)
	case ViewEntries:
		return view.NewEntriesModel(m.svc.Ledger)
	case ViewNewEntry:
		return view.NewEntryFormModel(m.svc.Ledger, m.svc.Categories, m.actor)
	case ViewExport:
		return view.NewExportModel(m.svc.Exporter)
	case ViewDashboard:
		return view.NewDashboardModel(m.svc.Reports)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	screen, ok := m.screens[m.currentView]
	if !ok {
		return m, nil
	}

	next, cmd := screen.Update(msg)
	if s, ok := next.(view.View); ok {
		m.screens[m.currentView] = s
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, item := range menu {
		if msg.String() != item.key {
			continue
		}

		screen := m.open(item.view)
		m.currentView = item.view

		var sizeCmd tea.Cmd
		if m.size.Width > 0 {
			next, cmd := screen.Update(m.size)
			screen, sizeCmd = next.(view.View), cmd
		}

		m.screens[item.view] = screen

		return m, tea.Batch(screen.Init(), sizeCmd)
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
)

func (m model) View() string {
	if m.currentView == ViewMenu {
		s := titleStyle.Render(m.title) + "\n\n"
		for _, item := range menu {
			s += fmt.Sprintf("%s. %s\n", item.key, item.label)
		}

		s += fmt.Sprintf("\nq. Quit\n\nSigned in as %s", m.actor)

		return lipgloss.NewStyle().Padding(2).Render(s)
	}

	screen, ok := m.screens[m.currentView]
	if !ok {
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingLeft(1).Render(titleStyle.Render(screen.Title())),
		screen.View(),
		helpStyle.Render(screen.ShortHelp()),
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file only when debugging.
	var logOut io.Writer = io.Discard
	if cfg.Log.Level == "debug" {
		f, err := tea.LogToFile("shopledger-tui.log", "")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logOut = f
	}

	logging.InitWriter(logOut, cfg.App.Name, cfg.Log.Level, cfg.Log.Format)

	repo, closeRepo, err := app.OpenRepository(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s store: %v\n", cfg.Store.Driver, err)
		os.Exit(1)
	}
	defer closeRepo()

	p := tea.NewProgram(newModel(cfg, app.NewServices(cfg, repo)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run TUI: %v\n", err)
		os.Exit(1)
	}
}
