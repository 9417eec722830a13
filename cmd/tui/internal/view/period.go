package view

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/format"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

type periodState int

const (
	periodStateForm periodState = iota
	periodStateSaving
	periodStateResult
)

// periodFields is shared by pointer so form bindings survive model copies.
type periodFields struct {
	start     string
	end       string
	intensity string
}

// PeriodModel logs a new period through a form.
type PeriodModel struct {
	CommonModel
	svc    *state.Service
	format *format.Formatter

	state periodState
	form  *huh.Form

	fields *periodFields

	record  cycle.PeriodRecord
	summary cycle.Summary
	err     error
}

func NewPeriodModel(svc *state.Service, f *format.Formatter) PeriodModel {
	today := FormatDate(svc.Now())

	m := PeriodModel{
		svc:    svc,
		format: f,
		fields: &periodFields{
			start:     today,
			end:       today,
			intensity: string(cycle.IntensityMedium),
		},
	}
	m.form = m.buildForm()

	return m
}

func (m PeriodModel) Title() string { return "Log Period" }

func (m PeriodModel) ShortHelp() string {
	if m.state == periodStateResult {
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: next"
}

func (m PeriodModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PeriodModel) buildForm() *huh.Form {
	validDate := func(s string) error {
		_, err := cycle.ParseDate(s)
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("start").
				Title("Start Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.start).
				Validate(validDate),

			huh.NewInput().
				Key("end").
				Title("End Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.end).
				Validate(func(s string) error {
					end, err := cycle.ParseDate(s)
					if err != nil {
						return err
					}

					if start, err := cycle.ParseDate(m.fields.start); err == nil && end.Before(start) {
						return errors.New("end date is before start date")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("intensity").
				Title("Flow").
				Options(
					huh.NewOption("Light", string(cycle.IntensityLight)),
					huh.NewOption("Medium", string(cycle.IntensityMedium)),
					huh.NewOption("Heavy", string(cycle.IntensityHeavy)),
				).
				Value(&m.fields.intensity),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m PeriodModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case periodSavedMsg:
		m.state = periodStateResult
		m.err = msg.err
		m.record = msg.record
		m.summary = msg.summary

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.state != periodStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = periodStateSaving

	return m, m.saveCmd()
}

func (m PeriodModel) View() string {
	switch m.state {
	case periodStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case periodStateSaving:
		return lipgloss.NewStyle().Padding(2).Render("Saving...")
	}

	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	next := m.summary.NextPeriod
	body := fmt.Sprintf("%s\n\nLogged %s (%s)\nNext period: %s",
		okStyle.Render("Period saved"),
		m.format.DateRange(m.record.Start, m.record.End),
		m.record.Intensity,
		m.format.DateRange(next.Start, next.End.AddDate(0, 0, -1)),
	)

	if m.summary.Alert.Active {
		body += "\n" + alertStyle.Render(fmt.Sprintf("Savings lock window starts in %d days", m.summary.Alert.DaysUntilStart))
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

type periodSavedMsg struct {
	record  cycle.PeriodRecord
	summary cycle.Summary
	err     error
}

func (m PeriodModel) saveCmd() tea.Cmd {
	start, end, intensity := m.fields.start, m.fields.end, m.fields.intensity

	return func() tea.Msg {
		params := state.LogPeriodParams{Intensity: cycle.Intensity(intensity)}

		var err error
		if params.Start, err = cycle.ParseDate(start); err != nil {
			return periodSavedMsg{err: err}
		}

		if params.End, err = cycle.ParseDate(end); err != nil {
			return periodSavedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		rec, err := m.svc.LogPeriod(ctx, params)
		if err != nil {
			return periodSavedMsg{err: err}
		}

		return periodSavedMsg{record: rec, summary: m.svc.Cycle()}
	}
}
