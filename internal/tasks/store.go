// Package tasks holds the session's task lists in memory.
//
// A Store maps a list key (usually a date) to an ordered sequence of tasks.
// Tasks are addressed by their position in the list, so callers must re-read
// a list after every mutation instead of caching indices across renders.
// The store is owned by a single actor and does no locking.
package tasks

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	lists map[string][]Task
	order []string // list keys in creation order

	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithClock replaces time.Now as the source of Task.AddedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator used for Task.ID.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		lists: make(map[string][]Task),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeKey is the form under which a list key is stored and looked up.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// CreateList adds an empty list under key. Creating a list that already
// exists is a no-op that keeps its tasks; created reports which case applied.
func (s *Store) CreateList(key string) (created bool, err error) {
	key = NormalizeKey(key)
	if key == "" {
		return false, ErrInvalidKey
	}
	if _, ok := s.lists[key]; ok {
		return false, nil
	}
	s.lists[key] = nil
	s.order = append(s.order, key)
	return true, nil
}

func (s *Store) HasList(key string) bool {
	_, ok := s.lists[NormalizeKey(key)]
	return ok
}

// Lists returns the list keys in creation order.
func (s *Store) Lists() []string {
	return slices.Clone(s.order)
}

func (s *Store) list(key string) (string, []Task, error) {
	key = NormalizeKey(key)
	tasks, ok := s.lists[key]
	if !ok {
		return key, nil, fmt.Errorf("%w: %q", ErrUnknownList, key)
	}
	return key, tasks, nil
}

// AddTask appends a new, incomplete task to the list.
func (s *Store) AddTask(key, name string, priority Priority) (Task, error) {
	key, tasks, err := s.list(key)
	if err != nil {
		return Task{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, fmt.Errorf("%w: name is empty", ErrInvalidTask)
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: %s", ErrInvalidTask, priority)
	}

	t := Task{
		ID:       s.newID(),
		Name:     name,
		Priority: priority,
		AddedAt:  s.now(),
	}
	s.lists[key] = append(tasks, t)
	return t, nil
}

func checkIndex(key string, tasks []Task, index int) error {
	if index < 0 || index >= len(tasks) {
		return fmt.Errorf("%w: %d not in [0,%d) for %q", ErrIndexOutOfRange, index, len(tasks), key)
	}
	return nil
}

// CompleteTask marks the task at index as completed. Completing a completed
// task is a no-op.
func (s *Store) CompleteTask(key string, index int) error {
	key, tasks, err := s.list(key)
	if err != nil {
		return err
	}
	if err := checkIndex(key, tasks, index); err != nil {
		return err
	}
	tasks[index].Completed = true
	return nil
}

// DeleteTask removes the task at index; later tasks shift down by one.
func (s *Store) DeleteTask(key string, index int) (Task, error) {
	key, tasks, err := s.list(key)
	if err != nil {
		return Task{}, err
	}
	if err := checkIndex(key, tasks, index); err != nil {
		return Task{}, err
	}
	removed := tasks[index]
	s.lists[key] = slices.Delete(tasks, index, index+1)
	return removed, nil
}

// ListTasks returns a copy of the list in insertion order.
func (s *Store) ListTasks(key string) ([]Task, error) {
	_, tasks, err := s.list(key)
	if err != nil {
		return nil, err
	}
	return slices.Clone(tasks), nil
}

// IndexOf resolves a task id to its current index in the list.
func (s *Store) IndexOf(key, id string) (int, error) {
	key, tasks, err := s.list(key)
	if err != nil {
		return -1, err
	}
	i := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: %s in %q", ErrTaskNotFound, id, key)
	}
	return i, nil
}

func (s *Store) Summary(key string) (ListSummary, error) {
	key, tasks, err := s.list(key)
	if err != nil {
		return ListSummary{}, err
	}
	sum := ListSummary{Key: key, Total: len(tasks), ByPriority: make(map[Priority]int)}
	for _, t := range tasks {
		if t.Completed {
			sum.Completed++
		}
		sum.ByPriority[t.Priority]++
	}
	return sum, nil
}

// Summaries returns one summary per list, in creation order.
func (s *Store) Summaries() []ListSummary {
	out := make([]ListSummary, 0, len(s.order))
	for _, key := range s.order {
		sum, _ := s.Summary(key)
		out = append(out, sum)
	}
	return out
}
