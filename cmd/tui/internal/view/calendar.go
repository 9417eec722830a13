package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

var (
	actualDay    = lipgloss.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("231"))
	predictedDay = lipgloss.NewStyle().Background(lipgloss.Color("218")).Foreground(lipgloss.Color("16"))
	todayDay     = lipgloss.NewStyle().Bold(true).Underline(true)
	alertStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("214"))
)

// CalendarModel shows one month of logged and predicted period days.
type CalendarModel struct {
	CommonModel
	svc    *state.Service
	format *format.Formatter

	month   time.Time
	grid    cycle.Month
	summary cycle.Summary
}

func NewCalendarModel(svc *state.Service, f *format.Formatter) CalendarModel {
	m := CalendarModel{
		svc:    svc,
		format: f,
		month:  startOfMonth(svc.Now()),
	}
	m.refresh()

	return m
}

func (m CalendarModel) Title() string { return "Cycle Calendar" }

func (m CalendarModel) ShortHelp() string {
	return "←/→: month | t: today | Esc: back"
}

func (m CalendarModel) Init() tea.Cmd {
	return nil
}

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, Back
	case "left", "h":
		m.month = shiftMonth(m.month, -1)
	case "right", "l":
		m.month = shiftMonth(m.month, 1)
	case "t":
		m.month = startOfMonth(m.svc.Now())
	default:
		return m, nil
	}

	m.refresh()

	return m, nil
}

func (m *CalendarModel) refresh() {
	m.grid = m.svc.Calendar(m.month)
	m.summary = m.svc.Cycle()
}

func (m CalendarModel) View() string {
	grid := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(m.grid.Title()),
		"",
		renderMonth(m.grid),
		"",
		renderLegend(),
	)

	content := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", panelStyle.Render(m.viewSummary()))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, content, "", faintStyle.Render(m.ShortHelp())),
	)
}

func (m CalendarModel) viewSummary() string {
	var sb strings.Builder

	next := m.summary.NextPeriod

	fmt.Fprintf(&sb, "Last period:  %s\n", m.format.Date(m.summary.LastPeriod))
	fmt.Fprintf(&sb, "Next period:  %s\n", m.format.DateRange(next.Start, next.End.AddDate(0, 0, -1)))

	if m.summary.Alert.DaysUntilStart > 0 {
		fmt.Fprintf(&sb, "Starts in:    %d days\n", m.summary.Alert.DaysUntilStart)
	}

	if !m.summary.Alert.Active {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(alertStyle.Render(fmt.Sprintf(
		"Savings lock window\nPeriod expected in %d days.\nNew mood savings stay locked\nuntil %s.",
		m.summary.Alert.DaysUntilStart, m.format.Date(m.summary.Alert.UnlockDate),
	)))

	return sb.String()
}

func renderMonth(month cycle.Month) string {
	var sb strings.Builder

	sb.WriteString(faintStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	sb.WriteString("\n")

	col := 0
	for ; col < month.Leading; col++ {
		sb.WriteString("    ")
	}

	for _, d := range month.Days {
		sb.WriteString(renderDay(d))

		col++
		if col%7 == 0 {
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderDay(d cycle.CalendarDay) string {
	cell := fmt.Sprintf(" %2d ", d.Day)

	style := lipgloss.NewStyle()

	switch d.Kind {
	case cycle.DayActual:
		style = actualDay
	case cycle.DayPredicted:
		style = predictedDay
	}

	if d.IsToday {
		style = style.Inherit(todayDay)
	}

	return style.Render(cell)
}

func renderLegend() string {
	return fmt.Sprintf("%s period  %s predicted  %s today",
		actualDay.Render("  "), predictedDay.Render("  "), todayDay.Render("15"))
}
