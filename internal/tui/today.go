package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/store"
)

type todayModel struct {
	store  *store.Store
	prefs  *prefs
	width  int
	height int

	snap   store.Snapshot
	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formPriority *store.Priority
}

func newTodayModel(s *store.Store, p *prefs) todayModel {
	title, priority := "", p.defaultPriority
	return todayModel{
		store:        s,
		prefs:        p,
		formTitle:    &title,
		formPriority: &priority,
	}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type todayDataMsg struct {
	snap store.Snapshot
}

func (t todayModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := t.store.Snapshot()
		if err != nil {
			return statusMsg{text: "Load tasks: " + err.Error(), isError: true}
		}
		return todayDataMsg{snap: snap}
	}
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todayDataMsg:
		t.snap = msg.snap
		// Overdue tasks stay listed with today's.
		t.tasks = store.DueOnOrBefore(msg.snap.Tasks, t.store.Today())
		t.cursor = clampCursor(t.cursor, len(t.tasks))
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.New):
			return t.showForm()
		case key.Matches(msg, keys.Toggle):
			if len(t.tasks) > 0 {
				if err := t.store.ToggleTask(t.tasks[t.cursor].ID); err != nil {
					return t, errStatus("Toggle task", err)
				}
				return t, t.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(t.tasks) > 0 {
				if err := t.store.DeleteTask(t.tasks[t.cursor].ID); err != nil {
					return t, errStatus("Delete task", err)
				}
				return t, t.refresh()
			}
		}
	}
	return t, nil
}

func (t todayModel) showForm() (todayModel, tea.Cmd) {
	*t.formTitle = ""
	*t.formPriority = t.prefs.defaultPriority

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Placeholder("What needs to be done?").Value(t.formTitle),
			huh.NewSelect[store.Priority]().Title("Priority").Options(priorityChoices()...).Value(t.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	switch t.form.State {
	case huh.StateCompleted:
		t.formActive = false
		t.form = nil
		return t, t.submit()
	case huh.StateAborted:
		t.formActive = false
		t.form = nil
		return t, nil
	}
	return t, cmd
}

// submit adds a task due now. Blank titles are dropped by the store.
func (t todayModel) submit() tea.Cmd {
	if _, err := t.store.AddTask(*t.formTitle, *t.formPriority, t.store.Now()); err != nil {
		return errStatus("Add task", err)
	}
	return t.refresh()
}

func (t todayModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Task"), "", t.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	heading := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Today"), "  ",
		mutedStyle.Render(t.store.Now().Format(headingLayout)), "  ",
		remainingBadge(t.tasks),
	)

	if len(t.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			heading,
			"",
			mutedStyle.Render("No tasks for today. Add a task to get started!"),
		)
		return panelStyle.Width(w).Render(content)
	}

	today := t.store.Today()
	var rows []string
	rows = append(rows, heading, "")
	for i, task := range t.tasks {
		rows = append(rows, renderTaskRow(task, t.snap, today, i == t.cursor))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  space: toggle  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func priorityChoices() []huh.Option[store.Priority] {
	opts := make([]huh.Option[store.Priority], len(priorityOptions))
	for i, p := range priorityOptions {
		opts[i] = huh.NewOption(priorityLabel(p), p)
	}
	return opts
}
