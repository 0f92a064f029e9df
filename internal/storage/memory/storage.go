package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/itpreg/internal/dependencies/clock"
	"github.com/mcoot/itpreg/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.Mutex
	clock clock.Clock

	inFlight map[string]lock
}

type lock struct {
	token  string
	expiry time.Time
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	return &Storage{
		clock:    clk,
		inFlight: make(map[string]lock),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AcquireSubmission(ctx context.Context, clientID, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if held, ok := s.inFlight[clientID]; ok && now.Before(held.expiry) {
		return false, nil
	}

	s.inFlight[clientID] = lock{token: token, expiry: now.Add(ttl)}
	s.sweep(now)
	return true, nil
}

func (s *Storage) ReleaseSubmission(ctx context.Context, clientID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if held, ok := s.inFlight[clientID]; ok && held.token == token {
		delete(s.inFlight, clientID)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// InFlightCount returns the number of unexpired locks
func (s *Storage) InFlightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.clock.Now())
	return len(s.inFlight)
}

// sweep drops expired locks; caller must hold mu
func (s *Storage) sweep(now time.Time) {
	for id, held := range s.inFlight {
		if !now.Before(held.expiry) {
			delete(s.inFlight, id)
		}
	}
}
