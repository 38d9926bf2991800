package tasks

import (
	"fmt"
	"time"
)

// Priority ranks a task. The zero value is not a valid priority.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// Priorities returns every valid priority, lowest first.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// AddedLayout is how AddedAt is shown to users.
const AddedLayout = "2006-01-02 15:04:05"

type Task struct {
	ID        string
	Name      string
	Priority  Priority
	AddedAt   time.Time
	Completed bool
}

// ListSummary aggregates the tasks of one list.
type ListSummary struct {
	Key        string
	Total      int
	Completed  int
	ByPriority map[Priority]int
}

// Open returns the number of tasks not yet completed.
func (s ListSummary) Open() int {
	return s.Total - s.Completed
}
