package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/tasks"
	"github.com/sadopc/dayplan/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewHome viewState = iota
	viewTasks
	viewTimer
)

var viewNames = []string{"Home", "Tasks", "Timer"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type homeStatsMsg struct {
	finished     int
	focusSeconds int64
	recent       []store.CountdownRecord // newest first
}

// --- Helpers ---

func notify(format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg { return statusMsg{text: text} }
}

// notifyError turns an operation error into a red footer notification.
func notifyError(err error) tea.Cmd {
	text := describeError(err)
	return func() tea.Msg { return statusMsg{text: text, isError: true} }
}

func describeError(err error) string {
	switch {
	case errors.Is(err, tasks.ErrInvalidKey):
		return "List name cannot be empty"
	case errors.Is(err, tasks.ErrUnknownList):
		return "No such list. Press n to create one."
	case errors.Is(err, tasks.ErrInvalidTask):
		return "Task needs a name and a priority"
	case errors.Is(err, tasks.ErrIndexOutOfRange), errors.Is(err, tasks.ErrTaskNotFound):
		return "That task is no longer in the list"
	case errors.Is(err, timer.ErrInvalidDuration):
		return fmt.Sprintf("Duration must be between %d and %d minutes", timer.MinMinutes, timer.MaxMinutes)
	}
	return fmt.Sprintf("Error: %v", err)
}

// formatClock renders d as MM:SS, rounding partial seconds up so a fresh
// 25 minute countdown reads 25:00.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = (d + time.Second - 1).Truncate(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
