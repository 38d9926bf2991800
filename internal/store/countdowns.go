package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotRunning is returned when finishing or cancelling a countdown that has
// already ended or does not exist.
var ErrNotRunning = errors.New("countdown not running")

func (s *Store) StartCountdown(minutes int, startedAt time.Time) (*CountdownRecord, error) {
	res, err := s.db.Exec(
		`INSERT INTO countdowns (minutes, status, started_at) VALUES (?, 'running', ?)`,
		minutes, startedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("start countdown: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetCountdown(id)
}

func (s *Store) GetCountdown(id int64) (*CountdownRecord, error) {
	c, err := scanCountdown(s.db.QueryRow(
		`SELECT id, minutes, status, started_at, ended_at FROM countdowns WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("get countdown %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) FinishCountdown(id int64, endedAt time.Time) error {
	return s.endCountdown(id, StatusFinished, endedAt)
}

func (s *Store) CancelCountdown(id int64, endedAt time.Time) error {
	return s.endCountdown(id, StatusCancelled, endedAt)
}

func (s *Store) endCountdown(id int64, status string, endedAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE countdowns SET status = ?, ended_at = ? WHERE id = ? AND status = 'running'`,
		status, endedAt.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("%s countdown %d: %w", status, id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("countdown %d: %w", id, ErrNotRunning)
	}
	return nil
}

// ListCountdowns returns the newest countdowns first. A limit <= 0 returns all.
func (s *Store) ListCountdowns(limit int) ([]CountdownRecord, error) {
	query := `SELECT id, minutes, status, started_at, ended_at FROM countdowns ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list countdowns: %w", err)
	}
	defer rows.Close()

	var out []CountdownRecord
	for rows.Next() {
		c, err := scanCountdown(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// CountdownStats reports how many countdowns ran to completion and their
// combined length in seconds.
func (s *Store) CountdownStats() (finished int, focusSeconds int64, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(minutes * 60), 0)
		FROM countdowns
		WHERE status = 'finished'`,
	).Scan(&finished, &focusSeconds)
	return
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountdown(row rowScanner) (*CountdownRecord, error) {
	c := &CountdownRecord{}
	var startedAt string
	var endedAt sql.NullString
	if err := row.Scan(&c.ID, &c.Minutes, &c.Status, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	c.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339, endedAt.String)
		c.EndedAt = &t
	}
	return c, nil
}
