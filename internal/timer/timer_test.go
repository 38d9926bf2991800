package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStartRecordsNow(t *testing.T) {
	svc := NewService(fixedClock(t0))

	c, err := svc.Start(25)
	require.NoError(t, err)
	assert.Equal(t, 25, c.Minutes)
	assert.Equal(t, t0, c.StartedAt)
	assert.Equal(t, t0.Add(25*time.Minute), c.EndsAt())
	assert.True(t, c.Started())
}

func TestStartInvalidDuration(t *testing.T) {
	svc := NewService(fixedClock(t0))
	for _, m := range []int{-5, 0, 61, 1000} {
		c, err := svc.Start(m)
		assert.ErrorIs(t, err, ErrInvalidDuration, "minutes %d", m)
		assert.False(t, c.Started())
	}
}

func TestStartBoundaries(t *testing.T) {
	svc := NewService(fixedClock(t0))
	for _, m := range []int{MinMinutes, MaxMinutes} {
		_, err := svc.Start(m)
		assert.NoError(t, err, "minutes %d", m)
	}
}

func TestNewServiceDefaultsToWallClock(t *testing.T) {
	svc := NewService(nil)
	before := time.Now()
	c, err := svc.Start(1)
	require.NoError(t, err)
	assert.False(t, c.StartedAt.Before(before))
}

func TestRemainingScenario(t *testing.T) {
	c, err := NewService(fixedClock(t0)).Start(25)
	require.NoError(t, err)

	assert.Equal(t, 25*time.Minute, c.Remaining(t0))
	assert.Equal(t, 15*time.Minute, c.Remaining(t0.Add(10*time.Minute)))
	assert.Equal(t, time.Duration(0), c.Remaining(t0.Add(26*time.Minute)))
	assert.True(t, c.Expired(t0.Add(26*time.Minute)))
	assert.False(t, c.Running(t0.Add(26*time.Minute)))
}

func TestRemainingMonotonicAndClamped(t *testing.T) {
	c := Countdown{Minutes: 3, StartedAt: t0}

	prev := c.Remaining(t0.Add(-time.Minute))
	assert.Equal(t, c.Duration(), prev, "never more than the full length")

	for step := time.Duration(0); step <= 5*time.Minute; step += 7 * time.Second {
		now := t0.Add(step)
		got := c.Remaining(now)
		assert.True(t, got >= 0, "negative remaining at %v", step)
		assert.True(t, got <= prev, "remaining grew at %v", step)
		if step >= c.Duration() {
			assert.Zero(t, got)
			assert.True(t, c.Expired(now))
		}
		prev = got
	}
}

func TestExpiredAtExactEnd(t *testing.T) {
	c := Countdown{Minutes: 1, StartedAt: t0}
	assert.False(t, c.Expired(t0.Add(59*time.Second)))
	assert.True(t, c.Expired(t0.Add(time.Minute)))
}

func TestZeroCountdown(t *testing.T) {
	var c Countdown
	assert.False(t, c.Started())
	assert.Zero(t, c.Remaining(t0))
	assert.False(t, c.Expired(t0), "a countdown that never started is not expired")
	assert.False(t, c.Running(t0))
	assert.Zero(t, c.Progress(t0))
}

func TestProgress(t *testing.T) {
	c := Countdown{Minutes: 10, StartedAt: t0}
	assert.InDelta(t, 0.0, c.Progress(t0), 1e-9)
	assert.InDelta(t, 0.5, c.Progress(t0.Add(5*time.Minute)), 1e-9)
	assert.InDelta(t, 1.0, c.Progress(t0.Add(20*time.Minute)), 1e-9)
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"25", 25, false},
		{" 1 ", 1, false},
		{"60", 60, false},
		{"0", 0, true},
		{"61", 0, true},
		{"2.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMinutes(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDuration, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
