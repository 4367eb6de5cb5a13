package reconcile

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakePendingSweeper struct {
	mu        sync.Mutex
	deadlines []time.Duration
	ids       []string
	err       error
}

func (f *fakePendingSweeper) SweepStalePending(olderThan time.Duration) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines = append(f.deadlines, olderThan)
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

func (f *fakePendingSweeper) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deadlines)
}

func TestSweeperPassesDeadline(t *testing.T) {
	repo := &fakePendingSweeper{ids: []string{"tan-stale"}}
	s := NewSweeper(repo, time.Minute, 5*time.Minute)

	s.sweep()

	if repo.calls() != 1 {
		t.Fatalf("expected one sweep, got %d", repo.calls())
	}
	if repo.deadlines[0] != 5*time.Minute {
		t.Errorf("expected deadline 5m, got %s", repo.deadlines[0])
	}
}

func TestSweeperSurvivesSweepError(t *testing.T) {
	repo := &fakePendingSweeper{err: fmt.Errorf("db down")}
	s := NewSweeper(repo, time.Minute, 5*time.Minute)

	// A failed sweep is logged and retried on the next tick; it must not
	// panic or halt the loop.
	s.sweep()
	s.sweep()

	if repo.calls() != 2 {
		t.Errorf("expected both sweeps attempted, got %d", repo.calls())
	}
}

func TestSweeperRunTicksUntilCancelled(t *testing.T) {
	repo := &fakePendingSweeper{}
	s := NewSweeper(repo, time.Millisecond, 5*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for repo.calls() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
