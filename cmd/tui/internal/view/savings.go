package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

type savingsState int

const (
	savingsStateBrowse savingsState = iota
	savingsStateDeposit
	savingsStateRelease
)

type savingsFields struct {
	mood    string
	amount  string
	confirm bool
}

// SavingsModel lists mood savings and handles deposits and releases.
type SavingsModel struct {
	CommonModel
	svc    *state.Service
	format *format.Formatter

	state  savingsState
	table  table.Model
	view   state.SavingsView
	form   *huh.Form
	fields *savingsFields

	status string
	err    error
}

func NewSavingsModel(svc *state.Service, f *format.Formatter) SavingsModel {
	columns := []table.Column{
		{Title: "Created", Width: 12},
		{Title: "Mood", Width: 14},
		{Title: "Amount", Width: 14},
		{Title: "Unlocks", Width: 14},
		{Title: "Status", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
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

	m := SavingsModel{
		svc:    svc,
		format: f,
		table:  t,
		fields: &savingsFields{},
	}
	m.refresh()

	return m
}

func (m SavingsModel) Title() string { return "Mood Savings" }

func (m SavingsModel) ShortHelp() string {
	if m.state != savingsStateBrowse {
		return "Esc: cancel"
	}

	return "Esc: back | n: new saving | x: release | r: refresh"
}

func (m SavingsModel) Init() tea.Cmd {
	return nil
}

func (m SavingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(savingsResultMsg); ok {
		m.state = savingsStateBrowse
		m.form = nil
		m.err = result.err
		m.status = result.status
		m.table.Focus()
		m.refresh()

		return m, nil
	}

	switch m.state {
	case savingsStateDeposit, savingsStateRelease:
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
			return m, nil
		case "n":
			return m.enterDeposit()
		case "x":
			return m.enterRelease()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *SavingsModel) refresh() {
	m.view = m.svc.Savings()

	rows := make([]table.Row, 0, len(m.view.Records))
	for _, r := range m.view.Records {
		status := "unlocked"
		if r.Locked {
			status = fmt.Sprintf("locked (%dd)", r.DaysLeft)
		}

		rows = append(rows, table.Row{
			FormatDate(r.CreatedAt),
			r.Emoji + " " + r.Mood,
			m.format.Amount(r.Amount),
			FormatDate(r.LockedUntil),
			status,
		})
	}

	m.table.SetRows(rows)
}

func (m SavingsModel) selected() (state.SavingView, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.view.Records) {
		return state.SavingView{}, false
	}

	return m.view.Records[idx], true
}

func (m SavingsModel) enterDeposit() (tea.Model, tea.Cmd) {
	moods := m.svc.Moods()
	options := make([]huh.Option[string], 0, len(moods))

	for _, md := range moods {
		label := fmt.Sprintf("%s %s (suggested %s)", md.Emoji, md.Tag, m.format.Amount(md.Goal))
		options = append(options, huh.NewOption(label, md.Tag))
	}

	m.fields = &savingsFields{mood: m.svc.SuggestMood("").Tag}
	fields := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mood").
				Title("How are you feeling?").
				Options(options...).
				Value(&fields.mood),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Description("Leave empty to save the suggested amount. Locked for 7 days.").
				Value(&fields.amount).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					_, err := savings.ParseAmount(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = savingsStateDeposit
	m.status = ""
	m.err = nil
	m.table.Blur()

	return m, m.form.Init()
}

func (m SavingsModel) enterRelease() (tea.Model, tea.Cmd) {
	rec, ok := m.selected()
	if !ok {
		return m, nil
	}

	desc := "The amount goes back to your savings balance."
	if rec.Locked {
		desc = fmt.Sprintf("This saving is locked for %d more days. Release it anyway?", rec.DaysLeft)
	}

	m.fields = &savingsFields{}
	fields := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Release %s %s?", rec.Emoji, m.format.Amount(rec.Amount))).
				Description(desc).
				Value(&fields.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = savingsStateRelease
	m.status = ""
	m.err = nil
	m.table.Blur()

	return m, m.form.Init()
}

func (m SavingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = savingsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == savingsStateDeposit {
		return m, m.depositCmd()
	}

	return m, m.releaseCmd()
}

func (m SavingsModel) View() string {
	totals := fmt.Sprintf("Balance %s | Saved %s | Locked %s",
		activeStyle(m.format.Amount(m.view.Balance)),
		m.format.Amount(m.view.Total),
		m.format.Amount(m.view.TotalLocked),
	)

	if m.view.EarliestUnlock != nil {
		totals += " | next unlock " + m.format.Date(*m.view.EarliestUnlock)
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if len(m.view.Records) == 0 {
		tableView = faintStyle.Render("No mood savings yet. Press n to lock some money away.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(totals),
		tableView,
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panelStyle.Width(54).Render(m.form.View()))
	}

	switch {
	case m.err != nil:
		content = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + content
	case m.status != "":
		content = okStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type savingsResultMsg struct {
	status string
	err    error
}

func (m SavingsModel) depositCmd() tea.Cmd {
	tag := m.fields.mood
	raw := strings.TrimSpace(m.fields.amount)

	return func() tea.Msg {
		amount := m.svc.SuggestMood(tag).Goal

		if raw != "" {
			var err error
			if amount, err = savings.ParseAmount(raw); err != nil {
				return savingsResultMsg{err: err}
			}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		rec, err := m.svc.Deposit(ctx, state.DepositParams{Amount: amount, Mood: tag})
		if err != nil {
			return savingsResultMsg{err: err}
		}

		return savingsResultMsg{status: fmt.Sprintf("Saved %s %s, locked until %s",
			rec.Emoji, m.format.Amount(rec.Amount), m.format.Date(rec.LockedUntil))}
	}
}

func (m SavingsModel) releaseCmd() tea.Cmd {
	rec, ok := m.selected()
	if !ok || !m.fields.confirm {
		return func() tea.Msg { return savingsResultMsg{} }
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		released, balance, err := m.svc.Release(ctx, rec.ID)
		if errors.Is(err, savings.ErrLocked) {
			return savingsResultMsg{err: fmt.Errorf("%w until %s", err, m.format.Date(rec.LockedUntil))}
		}

		if err != nil {
			return savingsResultMsg{err: err}
		}

		return savingsResultMsg{status: fmt.Sprintf("Released %s back to savings (balance %s)",
			m.format.Amount(released.Amount), m.format.Amount(balance))}
	}
}
