// Package reconcile retires ledger intents stuck in pending. An intent stays
// pending only if the process died between the balance adjustment call and
// the commit, so anything pending past the deadline needs operator attention.
package reconcile

import (
	"context"
	"log"
	"time"
)

// PendingSweeper is the write-store surface used by the sweeper.
type PendingSweeper interface {
	SweepStalePending(olderThan time.Duration) ([]string, error)
}

type Sweeper struct {
	repo     PendingSweeper
	interval time.Duration
	deadline time.Duration
}

func NewSweeper(repo PendingSweeper, interval, deadline time.Duration) *Sweeper {
	return &Sweeper{repo: repo, interval: interval, deadline: deadline}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	ids, err := s.repo.SweepStalePending(s.deadline)
	if err != nil {
		log.Printf("Reconciliation sweep failed: %v", err)
		return
	}
	for _, id := range ids {
		// The balance change for this intent may or may not have been
		// applied; it is retired here so it can no longer go unnoticed.
		log.Printf("Retired stale pending transaction %s", id)
	}
}
