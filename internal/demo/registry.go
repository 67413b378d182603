package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"go.uber.org/zap"
)

// Options configures a Registry.
type Options struct {
	Delay   time.Duration              // artificial latency of every generation
	TTL     time.Duration              // idle sessions older than this are swept; 0 keeps them forever
	History []forecast.HistoricalPoint // seed series for new sessions
}

// Registry keeps the open demo sessions in memory.
type Registry struct {
	logger    *zap.Logger
	generator *forecast.Generator
	opts      Options
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger, generator *forecast.Generator, opts Options) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = forecast.NewGenerator(logger, nil)
	}
	return &Registry{
		logger:    logger,
		generator: generator,
		opts:      opts,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Open creates a session for the given display name.
func (r *Registry) Open(name string) *Session {
	s := NewSession(r.logger, r.generator, SessionOptions{
		ID:      uuid.NewString(),
		Name:    name,
		History: r.opts.History,
		Delay:   r.opts.Delay,
		Now:     r.now,
	})

	r.mu.Lock()
	r.sessions[s.ID()] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Debug("demo session opened",
		zap.String("op", "demo.Open"),
		zap.String("session", s.ID()),
		zap.Int("sessions", count),
	)
	return s
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close removes a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL at time now and
// returns how many were removed. Sessions with a pending generation are kept.
func (r *Registry) Sweep(now time.Time) int {
	if r.opts.TTL <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		lastUsed, busy := s.idleSince()
		if busy || now.Sub(lastUsed) <= r.opts.TTL {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(r.now()); removed > 0 {
				r.logger.Info("expired demo sessions",
					zap.String("op", "demo.Run"),
					zap.Int("removed", removed),
				)
			}
		}
	}
}
