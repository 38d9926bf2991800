// Package timer computes countdown state. It never sleeps: callers recompute
// Remaining on their own tick.
package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinMinutes = 1
	MaxMinutes = 60
)

var ErrInvalidDuration = errors.New("invalid countdown duration")

// Countdown is a fixed-length countdown. The zero value has not started.
type Countdown struct {
	Minutes   int
	StartedAt time.Time
}

func (c Countdown) Started() bool {
	return !c.StartedAt.IsZero()
}

func (c Countdown) Duration() time.Duration {
	return time.Duration(c.Minutes) * time.Minute
}

func (c Countdown) EndsAt() time.Time {
	return c.StartedAt.Add(c.Duration())
}

// Remaining returns the time left at now, clamped to zero.
func (c Countdown) Remaining(now time.Time) time.Duration {
	if !c.Started() {
		return 0
	}
	left := c.EndsAt().Sub(now)
	if left < 0 {
		return 0
	}
	// The countdown cannot have more left than its full length, even if now
	// is before StartedAt.
	return min(left, c.Duration())
}

func (c Countdown) Expired(now time.Time) bool {
	return c.Started() && c.Remaining(now) == 0
}

func (c Countdown) Running(now time.Time) bool {
	return c.Started() && c.Remaining(now) > 0
}

// Progress is the elapsed fraction in [0, 1].
func (c Countdown) Progress(now time.Time) float64 {
	if !c.Started() || c.Duration() <= 0 {
		return 0
	}
	return 1 - float64(c.Remaining(now))/float64(c.Duration())
}

func ValidateMinutes(minutes int) error {
	if minutes < MinMinutes || minutes > MaxMinutes {
		return fmt.Errorf("%w: %d minutes, want %d-%d", ErrInvalidDuration, minutes, MinMinutes, MaxMinutes)
	}
	return nil
}

// ParseMinutes parses form input such as "25".
func ParseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidDuration, s)
	}
	if err := ValidateMinutes(n); err != nil {
		return 0, err
	}
	return n, nil
}

type Service struct {
	now func() time.Time
}

// NewService returns a Service reading the given clock; nil means time.Now.
func NewService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{now: now}
}

// Now exposes the service clock so tick handlers and Start agree on time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Start begins a countdown of the given length at the current time.
func (s *Service) Start(minutes int) (Countdown, error) {
	if err := ValidateMinutes(minutes); err != nil {
		return Countdown{}, err
	}
	return Countdown{Minutes: minutes, StartedAt: s.now()}, nil
}
