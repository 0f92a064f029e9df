package countdown

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/itpreg/internal/dependencies/clock"
	"github.com/mcoot/itpreg/internal/model"
)

// DefaultInterval is how often the countdown is resampled
const DefaultInterval = time.Second

// Service derives the registration status from the clock and a fixed window
type Service struct {
	window model.Window
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a countdown service for the given window
func New(window model.Window, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		window: window,
		clock:  clk,
		logger: logger.With(slog.String("component", "countdown")),
	}
}

// Window returns the registration window
func (s *Service) Window() model.Window {
	return s.window
}

// Snapshot returns the status and remaining time right now
func (s *Service) Snapshot() model.Snapshot {
	return s.window.SnapshotAt(s.clock.Now())
}

// Status returns the status right now
func (s *Service) Status() model.Status {
	return s.window.StatusAt(s.clock.Now())
}

// Run samples the countdown every interval and hands each snapshot to publish.
// Each tick is evaluated at the time it fired. An initial snapshot is published immediately. Run returns after publishing
// the first ended snapshot, or when ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration, publish func(model.Snapshot)) error {
	snap := s.Snapshot()
	publish(snap)
	if snap.Status == model.StatusEnded {
		s.logger.Info("countdown already ended")
		return nil
	}

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	last := snap.Status
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C():
			snap = s.window.SnapshotAt(now)
			if snap.Status != last {
				s.logger.Info("registration status changed",
					slog.String("from", string(last)),
					slog.String("to", string(snap.Status)))
				last = snap.Status
			}
			publish(snap)
			if snap.Status == model.StatusEnded {
				return nil
			}
		}
	}
}
