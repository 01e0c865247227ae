package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/config"
	"github.com/sadopc/taskdeck/internal/store"
)

type settingsModel struct {
	store  *store.Store
	prefs  *prefs
	cfg    config.Config
	width  int
	height int

	projectCount int
	taskCount    int
	openCount    int

	activeProject string

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formPriority *store.Priority
	formDays     *string
}

func newSettingsModel(s *store.Store, p *prefs, cfg config.Config) settingsModel {
	priority, days := p.defaultPriority, ""
	return settingsModel{
		store:        s,
		prefs:        p,
		cfg:          cfg,
		formPriority: &priority,
		formDays:     &days,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	projects int
	tasks    int
	open     int
	active   string
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, err := s.store.ListProjects()
		if err != nil {
			return statusMsg{text: "Load settings: " + err.Error(), isError: true}
		}
		tasks, err := s.store.ListTasks()
		if err != nil {
			return statusMsg{text: "Load settings: " + err.Error(), isError: true}
		}
		active, err := s.store.ActiveProject()
		if err != nil {
			return statusMsg{text: "Load settings: " + err.Error(), isError: true}
		}

		msg := settingsDataMsg{
			projects: len(projects),
			tasks:    len(tasks),
			open:     store.CountIncomplete(tasks),
		}
		if active != nil {
			msg.active = active.Name
		}
		return msg
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.projectCount = msg.projects
		s.taskCount = msg.tasks
		s.openCount = msg.open
		s.activeProject = msg.active
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formPriority = s.prefs.defaultPriority
	*s.formDays = strconv.Itoa(s.prefs.upcomingDays)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[store.Priority]().Title("Default priority").
				Options(priorityChoices()...).
				Value(s.formPriority),
			huh.NewInput().Title("Upcoming horizon (days)").
				Validate(validateDays).
				Value(s.formDays),
		).Title("Session"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateDays(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("enter a whole number of days")
	}
	if n < 1 {
		return fmt.Errorf("horizon must be at least 1 day")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		return s, s.save()
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	}
	return s, cmd
}

// save applies the form to the shared session preferences. Nothing is
// written to disk.
func (s settingsModel) save() tea.Cmd {
	if err := validateDays(*s.formDays); err != nil {
		return errStatus("Settings", err)
	}
	days, _ := strconv.Atoi(strings.TrimSpace(*s.formDays))
	if s.formPriority.Valid() {
		s.prefs.defaultPriority = *s.formPriority
	}
	s.prefs.upcomingDays = days
	return func() tea.Msg {
		return statusMsg{text: "Settings updated for this session"}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit session preferences")

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, subtitleStyle.Render("Session"))
	rows = append(rows, settingRow("Default priority", priorityBadge(s.prefs.defaultPriority)))
	rows = append(rows, settingRow("Upcoming horizon", highlightStyle.Render(fmt.Sprintf("%d days", s.prefs.upcomingDays))))
	rows = append(rows, "")

	rows = append(rows, subtitleStyle.Render("Startup"))
	rows = append(rows, settingRow("Start view", highlightStyle.Render(s.cfg.View)))
	rows = append(rows, settingRow("Export directory", highlightStyle.Render(orNone(s.prefs.exportDir))))
	rows = append(rows, settingRow("Log file", highlightStyle.Render(orNone(s.cfg.LogFile))))
	rows = append(rows, settingRow("Log level", highlightStyle.Render(s.cfg.LogLevel)))
	rows = append(rows, "")

	rows = append(rows, subtitleStyle.Render("Data"))
	rows = append(rows, settingRow("Projects", highlightStyle.Render(strconv.Itoa(s.projectCount))))
	rows = append(rows, settingRow("Active project", highlightStyle.Render(orNone(s.activeProject))))
	rows = append(rows, settingRow("Tasks", highlightStyle.Render(fmt.Sprintf("%d (%d open)", s.taskCount, s.openCount))))
	rows = append(rows, mutedStyle.Render("  Tasks live in memory and are gone when taskdeck exits."))

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render(label), value)
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
