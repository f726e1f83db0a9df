package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/mines"
)

// Registry keeps the live sessions of a server process.
type Registry struct {
	logger *slog.Logger
	opts   Options

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry returns a registry whose sessions are built with opts. Each
// session gets its own random source regardless of opts.Rand.
func NewRegistry(logger *slog.Logger, opts Options) *Registry {
	opts.Logger = logger
	opts.Rand = nil
	return &Registry{
		logger:   logger,
		opts:     opts,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) Create(d mines.Difficulty, player string) *Session {
	s := New(uuid.New(), d, player, r.opts)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes and forgets sessions idle for longer than ttl.
func (r *Registry) Sweep(ttl time.Duration) int {
	deadline := time.Now().Add(-ttl)

	var stale []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.LastActive().Before(deadline) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// RunSweeper sweeps every interval until ctx is done, then closes all
// remaining sessions.
func (r *Registry) RunSweeper(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return nil
		case <-ticker.C:
			if n := r.Sweep(ttl); n > 0 {
				r.logger.Info("swept idle sessions", slog.Int("count", n), slog.Int("live", r.Len()))
			}
		}
	}
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
