package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is the slice of the command layer the expiry loop needs.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// ExpiryScheduler reclaims overdue holds on a fixed interval. It is the only
// writer that moves reservations to expired, so a stopped scheduler means
// stale holds keep consuming capacity until it comes back.
type ExpiryScheduler struct {
	sweeper  Sweeper
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
}

func NewExpiryScheduler(sweeper Sweeper, interval time.Duration) *ExpiryScheduler {
	return &ExpiryScheduler{
		sweeper:  sweeper,
		interval: interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the sweep loop. An initial sweep runs immediately so holds
// that expired while the process was down are reclaimed without waiting a
// full interval.
func (s *ExpiryScheduler) Start() {
	go s.run()
}

func (s *ExpiryScheduler) run() {
	defer close(s.stopped)

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *ExpiryScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	expired, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		slog.Error("expiry sweep failed", "error", err)
		return
	}
	if expired > 0 {
		slog.Info("expired overdue holds", "count", expired)
	}
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (s *ExpiryScheduler) Stop(ctx context.Context) error {
	close(s.done)
	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
