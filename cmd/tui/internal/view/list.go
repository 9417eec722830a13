package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

// ListModel browses the savings account history.
type ListModel struct {
	CommonModel
	svc    *state.Service
	format *format.Formatter

	table table.Model
	txs   []transaction.Transaction

	typeFilterIdx int
	dateFilterIdx int

	filter transaction.ListFilter
	header string
}

func NewListModel(svc *state.Service, f *format.Formatter) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 14},
		{Title: "Amount", Width: 16},
		{Title: "Description", Width: 40},
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

	return ListModel{
		svc:    svc,
		format: f,
		table:  t,
	}
}

func (m ListModel) Title() string { return "Account Activity" }

func (m ListModel) ShortHelp() string {
	return "Esc: back | t: type filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.txs = msg.txs
		m.header = msg.header
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) View() string {
	typeLabels := []string{"All", "Debit", "Credit"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	filters := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.header,
		lipgloss.NewStyle().PaddingBottom(1).Render(filters),
		tableView,
	))
}

func (m *ListModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(transaction.TypeDebit)
	case 2:
		m.filter.Type = new(transaction.TypeCredit)
	default:
		m.filter.Type = nil
	}

	now := m.svc.Now()

	switch m.dateFilterIdx {
	case 1:
		s, e := normalizeDateRange(timeframeToDateRange(TimeframeThisMonth, now))
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s, e := normalizeDateRange(timeframeToDateRange(TimeframeLastMonth, now))
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		amount := m.format.Amount(tx.Amount)
		if tx.Type == transaction.TypeDebit {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			string(tx.Category),
			amount,
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs    []transaction.Transaction
	header string
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		acct := m.svc.Account(0).Accounts.Savings
		header := headerStyle.Render(fmt.Sprintf("%s %s  balance %s",
			acct.Type, acct.Number, m.format.Amount(acct.Balance)))

		return loadListMsg{txs: m.svc.Transactions(filter), header: header}
	}
}
