package tui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/logging"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/timer"
)

type countdownModel struct {
	svc     *timer.Service
	journal *store.Store
	log     *logging.Logger
	bell    bool
	bellOut io.Writer // receives the BEL on expiry
	width   int
	height  int

	minutes   int             // duration the next start will use
	countdown timer.Countdown // zero until the first start
	journalID int64
	now       time.Time // clock reading of the last tick
	announced bool      // expiry already reported for this countdown

	bar progress.Model

	formActive  bool
	form        *huh.Form
	formMinutes *string
}

func newCountdownModel(svc *timer.Service, journal *store.Store, log *logging.Logger, defaultMinutes int, bell bool) countdownModel {
	minutes := ""
	return countdownModel{
		svc:         svc,
		journal:     journal,
		log:         log,
		bell:        bell,
		bellOut:     os.Stderr,
		minutes:     defaultMinutes,
		now:         svc.Now(),
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		formMinutes: &minutes,
	}
}

func (c *countdownModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.bar.Width = max(10, min(60, w-16))
}

func (c countdownModel) running() bool {
	return c.countdown.Running(c.now)
}

func (c countdownModel) remaining() time.Duration {
	return c.countdown.Remaining(c.now)
}

func (c countdownModel) update(msg tea.Msg) (countdownModel, tea.Cmd) {
	// Ticks reach the countdown even while the duration form is open.
	if _, ok := msg.(tickMsg); ok {
		return c.tick()
	}
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Duration):
			return c.showDurationForm()
		case key.Matches(msg, keys.Start):
			return c.start()
		case key.Matches(msg, keys.Cancel):
			return c.cancel()
		}
	}
	return c, nil
}

// tick recomputes the countdown from the service clock. The first tick at or
// past the end finishes the journal entry and reports expiry exactly once.
func (c countdownModel) tick() (countdownModel, tea.Cmd) {
	c.now = c.svc.Now()
	if !c.countdown.Started() || c.announced || !c.countdown.Expired(c.now) {
		return c, nil
	}

	c.announced = true
	if c.journalID > 0 {
		if err := c.journal.FinishCountdown(c.journalID, c.countdown.EndsAt()); err != nil {
			c.log.Warn("journal finish failed", "countdown_id", c.journalID, "error", err)
		}
		c.journalID = 0
	}
	c.log.Info("countdown finished", "minutes", c.countdown.Minutes)

	// Ring once here; the status text carries no BEL.
	ring, out := c.bell, c.bellOut
	return c, func() tea.Msg {
		if ring && out != nil {
			fmt.Fprint(out, "\a")
		}
		return statusMsg{text: "Time's up!"}
	}
}

func (c countdownModel) showDurationForm() (countdownModel, tea.Cmd) {
	*c.formMinutes = strconv.Itoa(c.minutes)

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Pomodoro Duration (minutes)").
				Description(fmt.Sprintf("Whole minutes, %d to %d", timer.MinMinutes, timer.MaxMinutes)).
				CharLimit(2).
				Value(c.formMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c countdownModel) updateForm(msg tea.Msg) (countdownModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Back) {
		c.formActive = false
		c.form = nil
		return c, nil
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		c.formActive = false
		c.form = nil
		return c.setDuration(*c.formMinutes)
	case huh.StateAborted:
		c.formActive = false
		c.form = nil
		return c, nil
	}
	return c, cmd
}

func (c countdownModel) setDuration(input string) (countdownModel, tea.Cmd) {
	minutes, err := timer.ParseMinutes(input)
	if err != nil {
		c.log.Warn("duration rejected", "input", input, "error", err)
		return c, notifyError(err)
	}
	c.minutes = minutes
	return c, notify("Duration set to %d minutes. Press s to start.", minutes)
}

// start begins a new countdown, replacing any countdown still running.
func (c countdownModel) start() (countdownModel, tea.Cmd) {
	cd, err := c.svc.Start(c.minutes)
	if err != nil {
		c.log.Warn("start rejected", "minutes", c.minutes, "error", err)
		return c, notifyError(err)
	}

	if c.journalID > 0 {
		if err := c.journal.CancelCountdown(c.journalID, cd.StartedAt); err != nil {
			c.log.Warn("journal cancel failed", "countdown_id", c.journalID, "error", err)
		}
	}
	c.journalID = 0
	if rec, err := c.journal.StartCountdown(cd.Minutes, cd.StartedAt); err != nil {
		c.log.Warn("journal start failed", "error", err)
	} else {
		c.journalID = rec.ID
	}

	c.countdown = cd
	c.now = cd.StartedAt
	c.announced = false
	c.log.Info("countdown started", "minutes", cd.Minutes, "ends_at", cd.EndsAt())
	return c, notify("Pomodoro started: %d minutes", cd.Minutes)
}

func (c countdownModel) cancel() (countdownModel, tea.Cmd) {
	if !c.running() {
		return c, nil
	}
	now := c.svc.Now()
	if c.journalID > 0 {
		if err := c.journal.CancelCountdown(c.journalID, now); err != nil {
			c.log.Warn("journal cancel failed", "countdown_id", c.journalID, "error", err)
		}
		c.journalID = 0
	}
	c.log.Info("countdown cancelled", "minutes", c.countdown.Minutes, "remaining", c.countdown.Remaining(now).String())

	c.countdown = timer.Countdown{}
	c.now = now
	c.announced = false
	return c, notify("Pomodoro cancelled")
}

func (c countdownModel) view() string {
	w := c.width - 4
	title := titleStyle.Render("Pomodoro Timer")

	var clock, label, bar, controls string
	switch {
	case c.running():
		clock = timerRunningStyle.Width(w - 6).Render(formatClock(c.remaining()))
		label = successStyle.Bold(true).Render(fmt.Sprintf("FOCUS · %d min", c.countdown.Minutes))
		bar = c.bar.ViewAs(c.countdown.Progress(c.now))
		controls = mutedStyle.Render(fmt.Sprintf("x: cancel  s: restart  ends at %s", c.countdown.EndsAt().Local().Format("15:04")))
	case c.countdown.Started():
		clock = timerExpiredStyle.Width(w - 6).Render(formatClock(0))
		label = accentStyle.Bold(true).Render("TIME'S UP")
		bar = c.bar.ViewAs(1)
		controls = mutedStyle.Render("s: start again  m: change duration")
	default:
		clock = timerStyle.Width(w - 6).Render(formatClock(time.Duration(c.minutes) * time.Minute))
		label = mutedStyle.Render(fmt.Sprintf("Duration: %d minutes", c.minutes))
		bar = c.bar.ViewAs(0)
		controls = mutedStyle.Render("s: start  m/enter: change duration")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "", clock, label, "", bar, "", controls,
	)

	if c.formActive && c.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Left,
			title, "", c.form.View(),
		)
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}
