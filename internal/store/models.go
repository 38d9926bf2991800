package store

import "time"

// Countdown statuses.
const (
	StatusRunning   = "running"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

// CountdownRecord is one journal row.
type CountdownRecord struct {
	ID        int64
	Minutes   int
	Status    string
	StartedAt time.Time
	EndedAt   *time.Time
}

// Elapsed is how long the countdown ran, or zero while it is still running.
func (c *CountdownRecord) Elapsed() time.Duration {
	if c.EndedAt == nil {
		return 0
	}
	return c.EndedAt.Sub(c.StartedAt)
}
