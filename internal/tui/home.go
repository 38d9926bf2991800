package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/tasks"
)

const (
	// maxChartBars caps the completion chart to the most recent lists.
	maxChartBars = 8
	recentLimit  = 5
)

type homeModel struct {
	store     *tasks.Store
	journal   *store.Store
	startedAt time.Time
	now       time.Time
	width     int
	height    int

	summaries    []tasks.ListSummary
	finished     int
	focusSeconds int64
	recent       []store.CountdownRecord

	chart barchart.Model
}

func newHomeModel(s *tasks.Store, journal *store.Store, startedAt time.Time) homeModel {
	return homeModel{
		store:     s,
		journal:   journal,
		startedAt: startedAt,
		now:       startedAt,
		chart:     barchart.New(60, 10),
	}
}

func (h homeModel) Init() tea.Cmd {
	return h.loadStats()
}

func (h *homeModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
	h.buildChart()
}

// refresh re-reads the task summaries synchronously and loads journal stats
// in the background.
func (h *homeModel) refresh() tea.Cmd {
	h.summaries = h.store.Summaries()
	h.buildChart()
	return h.loadStats()
}

func (h homeModel) loadStats() tea.Cmd {
	journal := h.journal
	return func() tea.Msg {
		finished, focus, err := journal.CountdownStats()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Stats error: %v", err), isError: true}
		}
		recent, err := journal.ListCountdowns(recentLimit)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Stats error: %v", err), isError: true}
		}
		return homeStatsMsg{finished: finished, focusSeconds: focus, recent: recent}
	}
}

func (h homeModel) update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeStatsMsg:
		h.finished = msg.finished
		h.focusSeconds = msg.focusSeconds
		h.recent = msg.recent
	case tickMsg:
		h.now = time.Time(msg)
	}
	return h, nil
}

func (h homeModel) totals() (total, completed int) {
	for _, s := range h.summaries {
		total += s.Total
		completed += s.Completed
	}
	return total, completed
}

func (h *homeModel) buildChart() {
	if len(h.summaries) == 0 {
		return
	}
	chartWidth := max(20, h.width-10)
	chartHeight := max(6, min(12, h.height-16))
	h.chart = barchart.New(chartWidth, chartHeight)

	shown := h.summaries
	if len(shown) > maxChartBars {
		shown = shown[len(shown)-maxChartBars:]
	}

	doneStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	openStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for _, s := range shown {
		bars = append(bars, barchart.BarData{
			Label: truncate(s.Key, 10),
			Values: []barchart.BarValue{
				{Name: "Completed", Value: float64(s.Completed), Style: doneStyle},
				{Name: "Open", Value: float64(s.Open()), Style: openStyle},
			},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h homeModel) view() string {
	w := h.width - 4

	intro := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Task and Time Management Tool"),
		subtitleStyle.Render("Home Page"),
		"",
		normalItemStyle.Render("Welcome to the Task and Time Management Tool!"),
		normalItemStyle.Render("Use the tabs to create and manage your task lists, and run a Pomodoro timer."),
		mutedStyle.Render("1: Home   2: Tasks   3: Timer   tab: next view   ?: help   q: quit"),
	)

	total, completed := h.totals()
	stats := []string{
		fmt.Sprintf("%s %d", mutedStyle.Render("Lists:"), len(h.summaries)),
		fmt.Sprintf("%s %d/%d completed", mutedStyle.Render("Tasks:"), completed, total),
		fmt.Sprintf("%s %d (%s focused)", mutedStyle.Render("Pomodoros finished:"), h.finished, formatSeconds(h.focusSeconds)),
		fmt.Sprintf("%s %s", mutedStyle.Render("Session started"), highlightStyle.Render(humanize.RelTime(h.startedAt, h.now, "ago", "from now"))),
	}
	overview := strings.Join(stats, "\n")

	rows := []string{intro, "", overview, ""}
	if len(h.recent) > 0 {
		rows = append(rows, titleStyle.Render("Recent pomodoros"), h.renderRecent(), "")
	}
	if len(h.summaries) == 0 {
		rows = append(rows, mutedStyle.Render("No task lists available. Press 2 and then n to create one."))
	} else {
		legend := successStyle.Render("■ completed") + "  " + lipgloss.NewStyle().Foreground(colorSubtle).Render("■ open")
		rows = append(rows, titleStyle.Render("Completion by list"), "", h.chart.View(), "", "  "+legend)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderRecent lists the latest countdowns with how long each actually ran.
func (h homeModel) renderRecent() string {
	var lines []string
	for _, c := range h.recent {
		status := mutedStyle.Render(c.Status)
		switch c.Status {
		case store.StatusFinished:
			status = successStyle.Render(c.Status)
		case store.StatusCancelled:
			status = warningStyle.Render(c.Status)
		}
		ran := "running"
		if c.EndedAt != nil {
			ran = formatDuration(c.Elapsed())
		}
		lines = append(lines, fmt.Sprintf("  %s  %2d min  %s  %s",
			c.StartedAt.Local().Format("15:04"), c.Minutes, status, mutedStyle.Render(ran)))
	}
	return strings.Join(lines, "\n")
}
