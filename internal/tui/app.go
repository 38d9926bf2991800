package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/logging"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/tasks"
	"github.com/sadopc/dayplan/internal/timer"
)

// App is the root Bubble Tea model. One App is one session: it owns no
// global state and everything it shows comes from the injected stores.
type App struct {
	log  *logging.Logger
	tick time.Duration

	width  int
	height int

	activeView viewState
	showHelp   bool

	home      homeModel
	lists     tasksModel
	countdown countdownModel

	help          help.Model
	status        string
	statusIsError bool
}

func NewApp(ts *tasks.Store, svc *timer.Service, journal *store.Store, cfg *config.Config, log *logging.Logger) App {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NopLogger()
	}
	h := help.New()
	h.ShowAll = false

	return App{
		log:        log,
		tick:       cfg.Timer.TickInterval(),
		activeView: viewHome,
		home:       newHomeModel(ts, journal, svc.Now()),
		lists: newTasksModel(ts, log.WithComponent("tasks"), svc.Now,
			cfg.Tasks.DefaultListFormat, cfg.Export.ResolveDir()),
		countdown: newCountdownModel(svc, journal, log.WithComponent("timer"),
			cfg.Timer.DefaultMinutes, cfg.Timer.Bell),
		help: h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.home.Init(),
		a.tickCmd(),
	)
}

func (a App) tickCmd() tea.Cmd {
	return tea.Tick(a.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.home.setSize(a.width, contentHeight)
		a.lists.setSize(a.width, contentHeight)
		a.countdown.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			a.log.Info("quit")
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewHome)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, a.tickCmd())
		var cmd tea.Cmd
		a.home, cmd = a.home.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		// The countdown runs whatever view is active.
		a.countdown, cmd = a.countdown.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusIsError = msg.isError
		// Errors leave state unchanged, and a failed stats load must not
		// trigger another one.
		if a.activeView == viewHome && !msg.isError {
			return a, a.home.refresh()
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusIsError = false
		return a, nil

	case homeStatsMsg:
		a.home, _ = a.home.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewHome:
		return a, a.home.refresh()
	case viewTasks:
		a.lists.reload()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHome:
		a.home, cmd = a.home.update(msg)
	case viewTasks:
		a.lists, cmd = a.lists.update(msg)
	case viewTimer:
		a.countdown, cmd = a.countdown.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.lists.formActive
	case viewTimer:
		return a.countdown.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewHome:
		content = a.home.view()
	case viewTasks:
		content = a.lists.view()
	case viewTimer:
		content = a.countdown.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
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

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("dayplan")
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
		style := successStyle
		if a.statusIsError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator, visible from every view
	timerInfo := ""
	if a.countdown.running() {
		timerInfo = accentStyle.Render(" ● " + formatClock(a.countdown.remaining()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
