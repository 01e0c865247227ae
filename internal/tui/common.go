package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewUpcoming
	viewProjects
	viewSettings
)

var viewNames = []string{"Today", "Upcoming", "Projects", "Settings"}

const (
	dueLayout     = "Jan 2, 2006"
	headingLayout = "Monday, January 2, 2006"
)

// prefs holds the session preferences edited from the Settings view. Views
// share one pointer so edits are seen everywhere.
type prefs struct {
	defaultPriority store.Priority
	upcomingDays    int
	exportDir       string
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func errStatus(action string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", action, err), isError: true}
	}
}

// --- Helpers ---

var priorityOptions = []store.Priority{store.PriorityLow, store.PriorityMedium, store.PriorityHigh}

func priorityLabel(p store.Priority) string {
	s := p.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func priorityBadge(p store.Priority) string {
	return priorityStyle(p).Render(p.String())
}

func colorDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// renderTaskRow draws one task line: cursor, checkbox, title, due date and
// priority badge, prefixed with the project's colour when it has one. Open
// tasks due before today are flagged overdue.
func renderTaskRow(t store.Task, snap store.Snapshot, today string, selected bool) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = completedStyle.Render(title)
	} else {
		title = style.Render(title)
	}

	dot := " "
	if p, ok := snap.Project(t.ProjectID); ok {
		dot = colorDot(p.Color)
	}

	due := mutedStyle.Render("Due: " + t.DueDate.Format(dueLayout))
	if !t.Completed && store.DateKey(t.DueDate) < today {
		due = errorStyle.Render("Due: " + t.DueDate.Format(dueLayout) + " (overdue)")
	}
	return fmt.Sprintf("%s%s %s %s  %s  %s", style.Render(cursor), check, dot, title, due, priorityBadge(t.Priority))
}

func remainingBadge(tasks []store.Task) string {
	return badgeStyle.Render(fmt.Sprintf("%d remaining", store.CountIncomplete(tasks)))
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
