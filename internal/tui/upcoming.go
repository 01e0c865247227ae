package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/store"
)

// chartDays is how many days ahead the load chart covers.
const chartDays = 7

type upcomingModel struct {
	store  *store.Store
	prefs  *prefs
	width  int
	height int

	snap   store.Snapshot
	groups []store.DayGroup
	flat   []store.Task // groups flattened, for cursor movement
	cursor int

	chart barchart.Model

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formDate     *string
	formPriority *store.Priority
}

func newUpcomingModel(s *store.Store, p *prefs) upcomingModel {
	title, date, priority := "", "", p.defaultPriority
	return upcomingModel{
		store:        s,
		prefs:        p,
		chart:        barchart.New(60, 10),
		formTitle:    &title,
		formDate:     &date,
		formPriority: &priority,
	}
}

func (u *upcomingModel) setSize(w, h int) {
	u.width = w
	u.height = h
}

type upcomingDataMsg struct {
	snap store.Snapshot
}

func (u upcomingModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := u.store.Snapshot()
		if err != nil {
			return statusMsg{text: "Load tasks: " + err.Error(), isError: true}
		}
		return upcomingDataMsg{snap: snap}
	}
}

func (u upcomingModel) update(msg tea.Msg) (upcomingModel, tea.Cmd) {
	if u.formActive && u.form != nil {
		return u.updateForm(msg)
	}

	switch msg := msg.(type) {
	case upcomingDataMsg:
		u.snap = msg.snap
		u.groups = store.GroupByDueDate(store.DueAfter(msg.snap.Tasks, u.store.Today()))
		u.flat = nil
		for _, g := range u.groups {
			u.flat = append(u.flat, g.Tasks...)
		}
		u.cursor = clampCursor(u.cursor, len(u.flat))
		u.buildChart()
		return u, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if u.cursor > 0 {
				u.cursor--
			}
		case key.Matches(msg, keys.Down):
			if u.cursor < len(u.flat)-1 {
				u.cursor++
			}
		case key.Matches(msg, keys.New):
			return u.showForm()
		case key.Matches(msg, keys.Toggle):
			if len(u.flat) > 0 {
				if err := u.store.ToggleTask(u.flat[u.cursor].ID); err != nil {
					return u, errStatus("Toggle task", err)
				}
				return u, u.refresh()
			}
		case key.Matches(msg, keys.Delete):
			if len(u.flat) > 0 {
				if err := u.store.DeleteTask(u.flat[u.cursor].ID); err != nil {
					return u, errStatus("Delete task", err)
				}
				return u, u.refresh()
			}
		}
	}
	return u, nil
}

// dateChoices offers tomorrow through the configured horizon. Today and
// earlier days are never offered.
func (u upcomingModel) dateChoices() []huh.Option[string] {
	days := u.prefs.upcomingDays
	if days < 1 {
		days = 1
	}
	now := u.store.Now()
	opts := make([]huh.Option[string], 0, days)
	for i := 1; i <= days; i++ {
		d := now.AddDate(0, 0, i)
		opts = append(opts, huh.NewOption(d.Format("Mon, Jan 2 2006"), store.DateKey(d)))
	}
	return opts
}

func (u upcomingModel) showForm() (upcomingModel, tea.Cmd) {
	*u.formTitle = ""
	*u.formDate = store.DateKey(u.store.Now().AddDate(0, 0, 1))
	*u.formPriority = u.prefs.defaultPriority

	u.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Placeholder("What needs to be done?").Value(u.formTitle),
			huh.NewSelect[string]().Title("Due").Options(u.dateChoices()...).Height(8).Value(u.formDate),
			huh.NewSelect[store.Priority]().Title("Priority").Options(priorityChoices()...).Value(u.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)

	u.formActive = true
	return u, u.form.Init()
}

func (u upcomingModel) updateForm(msg tea.Msg) (upcomingModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			u.formActive = false
			u.form = nil
			return u, nil
		}
	}

	form, cmd := u.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		u.form = f
	}

	switch u.form.State {
	case huh.StateCompleted:
		u.formActive = false
		u.form = nil
		return u, u.submit()
	case huh.StateAborted:
		u.formActive = false
		u.form = nil
		return u, nil
	}
	return u, cmd
}

func (u upcomingModel) submit() tea.Cmd {
	due, err := time.ParseInLocation(store.DateLayout, *u.formDate, u.store.Location())
	if err != nil {
		return errStatus("Due date", err)
	}
	if store.DateKey(due) <= u.store.Today() {
		return func() tea.Msg {
			return statusMsg{text: "Upcoming tasks must be due after today", isError: true}
		}
	}
	if _, err := u.store.AddTask(*u.formTitle, *u.formPriority, due); err != nil {
		return errStatus("Add task", err)
	}
	return u.refresh()
}

func (u *upcomingModel) buildChart() {
	chartWidth := u.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if u.height > 30 {
		chartHeight = 12
	}

	u.chart = barchart.New(chartWidth, chartHeight)

	now := u.store.Now()
	var bars []barchart.BarData
	for i := 1; i <= chartDays; i++ {
		d := now.AddDate(0, 0, i)
		counts := store.PriorityCounts(store.DueOn(u.snap.Tasks, store.DateKey(d)))

		var values []barchart.BarValue
		for _, p := range []store.Priority{store.PriorityHigh, store.PriorityMedium, store.PriorityLow} {
			if counts[p] == 0 {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  p.String(),
				Value: float64(counts[p]),
				Style: priorityStyle(p),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	u.chart.PushAll(bars)
	u.chart.Draw()
}

func priorityStyle(p store.Priority) lipgloss.Style {
	switch p {
	case store.PriorityLow:
		return priorityLowStyle
	case store.PriorityHigh:
		return priorityHighStyle
	}
	return priorityMediumStyle
}

func (u upcomingModel) view() string {
	w := u.width - 4

	if u.formActive && u.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("New Upcoming Task"), "", u.form.View())
		return activePanelStyle.Width(w).Render(content)
	}

	heading := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Upcoming"), "  ", remainingBadge(u.flat),
	)

	if len(u.groups) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			heading,
			"",
			mutedStyle.Render("No upcoming tasks. Plan ahead by adding tasks for future dates!"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, heading, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("Open tasks, next %d days", chartDays)))
	rows = append(rows, u.chart.View())
	rows = append(rows, renderPriorityLegend(), "")

	today := u.store.Today()
	i := 0
	for _, g := range u.groups {
		rows = append(rows, subtitleStyle.Render(groupHeading(g.Date, u.store.Location())))
		for _, task := range g.Tasks {
			rows = append(rows, renderTaskRow(task, u.snap, today, i == u.cursor))
			i++
		}
		rows = append(rows, "")
	}
	rows = append(rows, mutedStyle.Render("  n: new  space: toggle  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func groupHeading(dateKey string, loc *time.Location) string {
	d, err := time.ParseInLocation(store.DateLayout, dateKey, loc)
	if err != nil {
		return dateKey
	}
	return d.Format(headingLayout)
}

func renderPriorityLegend() string {
	var items []string
	for _, p := range []store.Priority{store.PriorityHigh, store.PriorityMedium, store.PriorityLow} {
		items = append(items, priorityStyle(p).Render("█")+" "+priorityLabel(p))
	}
	return "  " + strings.Join(items, "  ")
}
