package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// startAt is a test helper that starts a countdown and fails the test on error.
func startAt(t *testing.T, s *Store, minutes int, at time.Time) *CountdownRecord {
	t.Helper()
	c, err := s.StartCountdown(minutes, at)
	if err != nil {
		t.Fatalf("start countdown: %v", err)
	}
	return c
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "journal.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	startAt(t, s, 5, t0)
	s.Close()

	// Reopen: should not re-migrate or lose rows
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	list, err := s2.ListCountdowns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 countdown after reopen, got %d", len(list))
	}
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	startAt(t, a, 25, t0)

	list, _ := b.ListCountdowns(0)
	if len(list) != 0 {
		t.Fatalf("second memory store should be empty, got %d rows", len(list))
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Countdowns
// ============================================================

func TestCountdownLifecycle(t *testing.T) {
	s := newTestStore(t)

	c := startAt(t, s, 25, t0)
	if c.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if c.Status != StatusRunning || c.Minutes != 25 {
		t.Fatalf("unexpected countdown: %+v", c)
	}
	if !c.StartedAt.Equal(t0) {
		t.Fatalf("StartedAt = %v, want %v", c.StartedAt, t0)
	}
	if c.EndedAt != nil || c.Elapsed() != 0 {
		t.Fatal("running countdown should have no end")
	}

	end := t0.Add(25 * time.Minute)
	if err := s.FinishCountdown(c.ID, end); err != nil {
		t.Fatal(err)
	}
	done, err := s.GetCountdown(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != StatusFinished || done.EndedAt == nil {
		t.Fatalf("countdown should be finished with timestamp: %+v", done)
	}
	if done.Elapsed() != 25*time.Minute {
		t.Fatalf("Elapsed = %v, want 25m", done.Elapsed())
	}
}

func TestStartCountdownRejectsInvalidMinutes(t *testing.T) {
	s := newTestStore(t)
	for _, m := range []int{0, 61} {
		if _, err := s.StartCountdown(m, t0); err == nil {
			t.Fatalf("expected error for %d minutes", m)
		}
	}
}

func TestCancelCountdown(t *testing.T) {
	s := newTestStore(t)
	c := startAt(t, s, 10, t0)

	if err := s.CancelCountdown(c.ID, t0.Add(3*time.Minute)); err != nil {
		t.Fatal(err)
	}
	cancelled, _ := s.GetCountdown(c.ID)
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.Elapsed() != 3*time.Minute {
		t.Fatalf("Elapsed = %v, want 3m", cancelled.Elapsed())
	}
}

func TestEndCountdownTwice(t *testing.T) {
	s := newTestStore(t)
	c := startAt(t, s, 10, t0)

	if err := s.FinishCountdown(c.ID, t0.Add(10*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.CancelCountdown(c.ID, t0.Add(11*time.Minute)); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	got, _ := s.GetCountdown(c.ID)
	if got.Status != StatusFinished {
		t.Fatalf("status changed after second end: %s", got.Status)
	}
}

func TestEndCountdownNonExistent(t *testing.T) {
	s := newTestStore(t)
	if err := s.FinishCountdown(999, t0); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestGetCountdownNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetCountdown(999); err == nil {
		t.Fatal("expected error for missing countdown")
	}
}

func TestListCountdowns(t *testing.T) {
	s := newTestStore(t)
	for i := 1; i <= 3; i++ {
		startAt(t, s, i, t0.Add(time.Duration(i)*time.Hour))
	}

	all, err := s.ListCountdowns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	// Newest first
	if all[0].Minutes != 3 || all[2].Minutes != 1 {
		t.Fatalf("unexpected order: %d, %d", all[0].Minutes, all[2].Minutes)
	}

	limited, _ := s.ListCountdowns(2)
	if len(limited) != 2 {
		t.Fatalf("expected 2 with limit, got %d", len(limited))
	}
}

func TestListCountdownsEmpty(t *testing.T) {
	s := newTestStore(t)
	list, err := s.ListCountdowns(10)
	if err != nil {
		t.Fatal(err)
	}
	if list != nil {
		t.Fatalf("expected nil slice, got %d items", len(list))
	}
}

func TestCountdownStats(t *testing.T) {
	s := newTestStore(t)

	a := startAt(t, s, 25, t0)
	b := startAt(t, s, 5, t0.Add(time.Hour))
	c := startAt(t, s, 50, t0.Add(2*time.Hour))
	startAt(t, s, 15, t0.Add(3*time.Hour)) // still running

	s.FinishCountdown(a.ID, t0.Add(25*time.Minute))
	s.FinishCountdown(b.ID, t0.Add(time.Hour+5*time.Minute))
	s.CancelCountdown(c.ID, t0.Add(2*time.Hour+time.Minute))

	finished, focus, err := s.CountdownStats()
	if err != nil {
		t.Fatal(err)
	}
	if finished != 2 {
		t.Fatalf("expected 2 finished, got %d", finished)
	}
	if focus != 30*60 {
		t.Fatalf("expected %d focus seconds, got %d", 30*60, focus)
	}
}

func TestCountdownStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	finished, focus, err := s.CountdownStats()
	if err != nil {
		t.Fatal(err)
	}
	if finished != 0 || focus != 0 {
		t.Fatalf("expected zero stats, got %d, %d", finished, focus)
	}
}

func TestCloseStore(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StartCountdown(5, t0); err == nil {
		t.Fatal("expected error after close")
	}
}
