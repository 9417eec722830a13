package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/metromood/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/metromood/internal/config"
	"github.com/MrJamesThe3rd/metromood/internal/export"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/importer"
	"github.com/MrJamesThe3rd/metromood/internal/mood"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/state/store"
)

type model struct {
	svc           *state.Service
	importService *importer.Service
	exportService *export.Service
	format        *format.Formatter
	appName       string

	currentView View

	calendarView view.CalendarModel
	periodView   view.PeriodModel
	savingsView  view.SavingsModel
	symptomsView view.SymptomsModel
	listView     view.ListModel
	importView   view.ImportModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewCalendar View = 1
	ViewPeriod   View = 2
	ViewSavings  View = 3
	ViewSymptoms View = 4
	ViewList     View = 5
	ViewImport   View = 6
	ViewExport   View = 7
)

func initialModel() (model, func() error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, closeRepo, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	svc, err := state.NewService(ctx, repo, state.Options{
		Key:             cfg.Store.Key,
		Cycle:           cfg.CycleConfig(),
		ProcessingDelay: cfg.Savings.ProcessingDelay,
		EnforceLock:     cfg.Savings.EnforceLock,
		Moods:           mood.Default(),
	})
	if err != nil {
		slog.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	f, err := format.New(cfg.App.Locale, cfg.App.Currency)
	if err != nil {
		slog.Error("failed to configure formatter", "error", err)
		os.Exit(1)
	}

	impSvc := importer.NewService()
	expSvc := export.NewService(svc, f)

	return model{
		svc:           svc,
		importService: impSvc,
		exportService: expSvc,
		format:        f,
		appName:       cfg.App.Name,
		currentView:   ViewMenu,
	}, closeRepo
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCalendar
				m.calendarView = view.NewCalendarModel(m.svc, m.format)

				return m, m.calendarView.Init()
			case "2":
				m.currentView = ViewPeriod
				m.periodView = view.NewPeriodModel(m.svc, m.format)

				return m, m.periodView.Init()
			case "3":
				m.currentView = ViewSavings
				m.savingsView = view.NewSavingsModel(m.svc, m.format)

				return m, m.savingsView.Init()
			case "4":
				m.currentView = ViewSymptoms
				m.symptomsView = view.NewSymptomsModel(m.svc)

				return m, m.symptomsView.Init()
			case "5":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.svc, m.format)

				return m, m.listView.Init()
			case "6":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.svc, m.importService, m.format)

				return m, m.importView.Init()
			case "7":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.svc.Now())

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCalendar:
		var newModel tea.Model
		newModel, cmd = m.calendarView.Update(msg)
		m.calendarView = newModel.(view.CalendarModel)
	case ViewPeriod:
		var newModel tea.Model
		newModel, cmd = m.periodView.Update(msg)
		m.periodView = newModel.(view.PeriodModel)
	case ViewSavings:
		var newModel tea.Model
		newModel, cmd = m.savingsView.Update(msg)
		m.savingsView = newModel.(view.SavingsModel)
	case ViewSymptoms:
		var newModel tea.Model
		newModel, cmd = m.symptomsView.Update(msg)
		m.symptomsView = newModel.(view.SymptomsModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return m.viewMenu()
	case ViewCalendar:
		return m.calendarView.View()
	case ViewPeriod:
		return m.periodView.View()
	case ViewSavings:
		return m.savingsView.View()
	case ViewSymptoms:
		return m.symptomsView.View()
	case ViewList:
		return m.listView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func (m model) viewMenu() string {
	menu := m.appName + "\n\n" +
		"1. Cycle Calendar\n" +
		"2. Log Period\n" +
		"3. Mood Savings\n" +
		"4. Symptoms\n" +
		"5. Account Activity\n" +
		"6. Import Periods\n" +
		"7. Export History\n\n" +
		"q. Quit"

	if alert := m.svc.Cycle().Alert; alert.Active {
		banner := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(
			fmt.Sprintf("Savings lock window: period expected in %d days", alert.DaysUntilStart),
		)
		menu = banner + "\n\n" + menu
	}

	return lipgloss.NewStyle().Padding(2).Render(menu)
}

func main() {
	m, closeRepo := initialModel()
	defer closeRepo()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		closeRepo()
		os.Exit(1)
	}
}
