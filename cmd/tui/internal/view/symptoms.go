package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/symptom"
)

// SymptomsModel records today's symptoms and lists the recent days.
type SymptomsModel struct {
	CommonModel
	svc *state.Service

	form     *huh.Form
	selected *[]symptom.Symptom
	recent   []symptom.Entry

	status string
	err    error
}

func NewSymptomsModel(svc *state.Service) SymptomsModel {
	m := SymptomsModel{
		svc:      svc,
		selected: new([]symptom.Symptom),
		recent:   svc.Symptoms(symptom.DefaultRecentLimit),
	}
	m.form = m.buildForm()

	return m
}

func (m SymptomsModel) Title() string { return "Symptoms" }

func (m SymptomsModel) ShortHelp() string {
	return "Space: toggle | Enter: save | Esc: back"
}

func (m SymptomsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SymptomsModel) buildForm() *huh.Form {
	options := make([]huh.Option[symptom.Symptom], 0, len(symptom.All))
	for _, s := range symptom.All {
		options = append(options, huh.NewOption(s.Label(), s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[symptom.Symptom]().
				Key("symptoms").
				Title("How are you feeling today?").
				Options(options...).
				Value(m.selected),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m SymptomsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case symptomsSavedMsg:
		m.err = msg.err
		m.status = ""

		if msg.err == nil {
			m.status = fmt.Sprintf("Saved %d symptoms for %s", len(msg.entry.Symptoms), msg.entry.Date)
			m.recent = m.svc.Symptoms(symptom.DefaultRecentLimit)
		}

		m.selected = new([]symptom.Symptom)
		m.form = m.buildForm()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m SymptomsModel) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Recent"))
	sb.WriteString("\n")

	if len(m.recent) == 0 {
		sb.WriteString(faintStyle.Render("Nothing logged yet"))
	}

	for _, e := range m.recent {
		labels := make([]string, 0, len(e.Symptoms))
		for _, s := range e.Symptoms {
			labels = append(labels, s.Label())
		}

		fmt.Fprintf(&sb, "%s  %s\n", e.Date, strings.Join(labels, ", "))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), "  ", panelStyle.Render(sb.String()))

	switch {
	case m.err != nil:
		content = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + content
	case m.status != "":
		content = okStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type symptomsSavedMsg struct {
	entry symptom.Entry
	err   error
}

func (m SymptomsModel) saveCmd() tea.Cmd {
	picked := *m.selected

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		entry, err := m.svc.RecordSymptoms(ctx, picked)

		return symptomsSavedMsg{entry: entry, err: err}
	}
}
