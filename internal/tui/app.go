package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/taskdeck/internal/config"
	"github.com/sadopc/taskdeck/internal/export"
	"github.com/sadopc/taskdeck/internal/store"
)

// App is the root Bubble Tea model. Every view shares one store.
type App struct {
	store  *store.Store
	logger *log.Logger
	prefs  *prefs
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	upcoming upcomingModel
	projects projectsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, cfg config.Config, logger *log.Logger) App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	p := &prefs{
		defaultPriority: cfg.Priority(),
		upcomingDays:    cfg.UpcomingDays,
		exportDir:       cfg.ExportDir,
	}
	if p.upcomingDays < 1 {
		p.upcomingDays = config.DefaultUpcomingDays
	}

	return App{
		store:      s,
		logger:     logger,
		prefs:      p,
		activeView: viewState(cfg.ViewIndex()),
		today:      newTodayModel(s, p),
		upcoming:   newUpcomingModel(s, p),
		projects:   newProjectsModel(s, p),
		settings:   newSettingsModel(s, p, cfg),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.refreshCurrentView()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.upcoming.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, a.refreshCurrentView()

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewUpcoming)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewProjects)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.logger.Error("view error", "view", viewNames[a.activeView], "msg", msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.status = ""
	a.statusErr = false
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewUpcoming:
		a.upcoming, cmd = a.upcoming.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewUpcoming:
		return a.upcoming.formActive
	case viewProjects:
		return a.projects.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewUpcoming:
		return a.upcoming.refresh()
	case viewProjects:
		return a.projects.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewUpcoming:
		content = a.upcoming.view()
	case viewProjects:
		content = a.projects.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("taskdeck")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Export Format"), "")
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.String()))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  to "+orNone(a.prefs.exportDir)))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	s, logger, dir := a.store, a.logger, a.prefs.exportDir
	return func() tea.Msg {
		snap, err := s.Snapshot()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		if dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
		}

		now := s.Now()
		path := export.Path(dir, f, now)
		if err := export.Write(f, snap, path, now); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", f, err), isError: true}
		}

		logger.Info("export written", "format", f.String(), "path", path, "tasks", len(snap.Tasks))
		return exportDoneMsg{path: path}
	}
}
