package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/store"
)

const (
	formProject = "project"
	formTask    = "task"
)

type projectsModel struct {
	store  *store.Store
	prefs  *prefs
	width  int
	height int

	snap       store.Snapshot
	tasks      []store.Task // tasks of the active project
	cursor     int
	taskCursor int
	focusTasks bool // true = keys go to the task pane

	formActive bool
	form       *huh.Form
	formType   string

	// Form field pointers (survive value copies)
	formName     *string
	formPriority *store.Priority
}

func newProjectsModel(s *store.Store, p *prefs) projectsModel {
	name, priority := "", p.defaultPriority
	return projectsModel{
		store:        s,
		prefs:        p,
		formName:     &name,
		formPriority: &priority,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	snap store.Snapshot
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := p.store.Snapshot()
		if err != nil {
			return statusMsg{text: "Load projects: " + err.Error(), isError: true}
		}
		return projectsDataMsg{snap: snap}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Data updates apply even while a form is open, so a task form whose
	// project disappeared can be dropped.
	if msg, ok := msg.(projectsDataMsg); ok {
		return p.applyData(msg.snap), nil
	}

	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.focusTasks {
			return p.updateTaskPane(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) applyData(snap store.Snapshot) projectsModel {
	p.snap = snap
	p.cursor = clampCursor(p.cursor, len(snap.Projects))

	if _, ok := snap.ActiveProject(); ok {
		p.tasks = store.FilterByProject(snap.Tasks, snap.ActiveProjectID)
	} else {
		p.tasks = nil
		p.focusTasks = false
		if p.formActive && p.formType == formTask {
			p.formActive = false
			p.form = nil
		}
	}
	p.taskCursor = clampCursor(p.taskCursor, len(p.tasks))
	return p
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	projects := p.snap.Projects
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(projects) > 0 {
			if err := p.store.SelectProject(projects[p.cursor].ID); err != nil {
				return p, errStatus("Select project", err)
			}
			p.focusTasks = true
			p.taskCursor = 0
			return p, p.refresh()
		}
	case key.Matches(msg, keys.New):
		return p.showProjectForm()
	case key.Matches(msg, keys.Delete):
		if len(projects) > 0 {
			if err := p.store.DeleteProject(projects[p.cursor].ID); err != nil {
				return p, errStatus("Delete project", err)
			}
			return p, p.refresh()
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskPane(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.focusTasks = false
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showTaskForm()
	case key.Matches(msg, keys.Toggle):
		if len(p.tasks) > 0 {
			if err := p.store.ToggleTask(p.tasks[p.taskCursor].ID); err != nil {
				return p, errStatus("Toggle task", err)
			}
			return p, p.refresh()
		}
	case key.Matches(msg, keys.Delete):
		if len(p.tasks) > 0 {
			if err := p.store.DeleteTask(p.tasks[p.taskCursor].ID); err != nil {
				return p, errStatus("Delete task", err)
			}
			return p, p.refresh()
		}
	}
	return p, nil
}

func (p projectsModel) showProjectForm() (projectsModel, tea.Cmd) {
	*p.formName = ""
	p.formType = formProject

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showTaskForm() (projectsModel, tea.Cmd) {
	if _, ok := p.snap.ActiveProject(); !ok {
		return p, nil
	}
	*p.formName = ""
	*p.formPriority = p.prefs.defaultPriority
	p.formType = formTask

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(p.formName),
			huh.NewSelect[store.Priority]().Title("Priority").Options(priorityChoices()...).Value(p.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		p.formActive = false
		p.form = nil
		return p.submit()
	case huh.StateAborted:
		p.formActive = false
		p.form = nil
		return p, nil
	}
	return p, cmd
}

func (p projectsModel) submit() (projectsModel, tea.Cmd) {
	switch p.formType {
	case formProject:
		proj, err := p.store.AddProject(*p.formName)
		if err != nil {
			return p, errStatus("Add project", err)
		}
		if proj != nil {
			// New projects become active; follow them with the cursor.
			p.cursor = len(p.snap.Projects)
		}
		return p, p.refresh()
	case formTask:
		if _, err := p.store.AddProjectTask(p.snap.ActiveProjectID, *p.formName, *p.formPriority, p.store.Now()); err != nil {
			return p, errStatus("Add task", err)
		}
		return p, p.refresh()
	}
	return p, nil
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.formType == formTask {
			if proj, ok := p.snap.ActiveProject(); ok {
				title = titleStyle.Render(fmt.Sprintf("New Task in %s %s", colorDot(proj.Color), proj.Name))
			}
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return activePanelStyle.Width(p.width - 4).Render(content)
	}

	listWidth := p.width / 3
	if listWidth < 24 {
		listWidth = 24
	}
	taskWidth := p.width - listWidth - 6
	if taskWidth < 20 {
		taskWidth = 20
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		p.renderProjectList(listWidth),
		p.renderTaskPane(taskWidth),
	)
}

func (p projectsModel) renderProjectList(w int) string {
	style := activePanelStyle
	if p.focusTasks {
		style = panelStyle
	}
	title := titleStyle.Render("Projects")

	if len(p.snap.Projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return style.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")
	for i, proj := range p.snap.Projects {
		cursor := "  "
		itemStyle := normalItemStyle
		if i == p.cursor && !p.focusTasks {
			cursor = "> "
			itemStyle = selectedItemStyle
		}
		marker := ""
		if proj.ID == p.snap.ActiveProjectID {
			marker = highlightStyle.Render(" (active)")
		}
		rows = append(rows, itemStyle.Render(cursor)+colorDot(proj.Color)+" "+itemStyle.Render(proj.Name)+marker)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: open  d: delete"))

	return style.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskPane(w int) string {
	style := panelStyle
	if p.focusTasks {
		style = activePanelStyle
	}

	proj, ok := p.snap.ActiveProject()
	if !ok {
		return style.Width(w).Render(mutedStyle.Render("Select a project or create a new one to manage tasks"))
	}

	heading := lipgloss.JoinHorizontal(lipgloss.Bottom,
		colorDot(proj.Color), " ", titleStyle.Render(proj.Name), "  ", remainingBadge(p.tasks),
	)

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			heading,
			"",
			mutedStyle.Render("No tasks in this project yet. Add your first task!"),
		)
		return style.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, heading, "")
	today := p.store.Today()
	for i, task := range p.tasks {
		rows = append(rows, renderTaskRow(task, p.snap, today, p.focusTasks && i == p.taskCursor))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  space: toggle  d: delete  esc: back"))

	return style.Width(w).Render(strings.Join(rows, "\n"))
}
