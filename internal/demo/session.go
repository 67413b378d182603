// Package demo holds the state of the interactive forecast widget: one
// Session per page view, kept in memory by a Registry.
package demo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session ID.
	ErrSessionNotFound = errors.New("demo session not found")
	// ErrSuperseded is returned by a generation that was overtaken by a newer trigger.
	ErrSuperseded = errors.New("forecast generation superseded by a newer request")
)

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Parameters forecast.Parameters        `json:"parameters"`
	History    []forecast.HistoricalPoint `json:"history"`
	Result     *forecast.Result           `json:"result,omitempty"`
	Summary    *forecast.Summary          `json:"summary,omitempty"`
	Insights   []string                   `json:"insights,omitempty"`
	InProgress bool                       `json:"inProgress"`
	Generation uint64                     `json:"generation"`
}

// Session is the widget's local state. It is safe for concurrent use.
//
// Every call to Generate takes a ticket; only the holder of the newest ticket
// may publish its result, so overlapping triggers resolve last-write-wins.
type Session struct {
	id        string
	name      string
	logger    *zap.Logger
	generator *forecast.Generator
	delay     time.Duration
	now       func() time.Time

	mu         sync.Mutex
	history    []forecast.HistoricalPoint
	params     forecast.Parameters
	result     *forecast.Result
	ticket     uint64
	inProgress bool
	lastUsed   time.Time
}

// SessionOptions configures a new Session.
type SessionOptions struct {
	ID      string
	Name    string
	History []forecast.HistoricalPoint
	Delay   time.Duration
	Now     func() time.Time
}

// NewSession creates a widget session. An empty name displays as "User" and
// a nil history uses the seed series.
func NewSession(logger *zap.Logger, generator *forecast.Generator, opts SessionOptions) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if generator == nil {
		generator = forecast.NewGenerator(logger, nil)
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = constants.DefaultDisplayName
	}
	history := opts.History
	if len(history) == 0 {
		history = forecast.DefaultHistory()
	} else {
		history = append([]forecast.HistoricalPoint(nil), history...)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}

	return &Session{
		id:        opts.ID,
		name:      name,
		logger:    logger,
		generator: generator,
		delay:     delay,
		now:       now,
		history:   history,
		params:    forecast.DefaultParameters(),
		lastUsed:  now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the display name.
func (s *Session) Name() string {
	return s.name
}

// SetParameters validates and stores new parameters. Invalid parameters leave
// the previous ones in place.
func (s *Session) SetParameters(p forecast.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	s.lastUsed = s.now()
	return nil
}

// UpdateParameters applies fn to a copy of the current parameters and stores
// the result when fn succeeds and the result validates. The session stays
// locked while fn runs, so concurrent partial updates compose.
func (s *Session) UpdateParameters(fn func(*forecast.Parameters) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.params
	if err := fn(&p); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	s.lastUsed = s.now()
	return nil
}

// InProgress reports whether the newest generation is still pending.
func (s *Session) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

// Generate waits out the artificial delay, computes a forecast from the
// parameters current at call time and publishes it, replacing any previous
// result. It returns ErrSuperseded if another Generate started meanwhile, or
// the context error if ctx ends during the delay.
func (s *Session) Generate(ctx context.Context) (forecast.Result, error) {
	return s.complete(ctx, s.begin())
}

// Trigger starts a generation in the background and returns a channel that
// receives its outcome. The session reports InProgress as soon as Trigger
// returns.
func (s *Session) Trigger(ctx context.Context) <-chan error {
	t := s.begin()
	done := make(chan error, 1)
	go func() {
		_, err := s.complete(ctx, t)
		done <- err
		close(done)
	}()
	return done
}

type ticket struct {
	id      uint64
	params  forecast.Parameters
	history []forecast.HistoricalPoint
}

func (s *Session) begin() ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket++
	s.inProgress = true
	s.lastUsed = s.now()
	return ticket{id: s.ticket, params: s.params, history: s.history}
}

func (s *Session) complete(ctx context.Context, t ticket) (forecast.Result, error) {
	if err := s.wait(ctx); err != nil {
		s.mu.Lock()
		if t.id == s.ticket {
			s.inProgress = false
		}
		s.mu.Unlock()
		return forecast.Result{}, err
	}

	result, err := s.generator.Generate(t.history, t.params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if t.id != s.ticket {
		s.logger.Debug("discarding superseded forecast",
			zap.String("op", "demo.Generate"),
			zap.String("session", s.id),
			zap.Uint64("ticket", t.id),
			zap.Uint64("latest", s.ticket),
		)
		return forecast.Result{}, ErrSuperseded
	}
	s.inProgress = false
	s.lastUsed = s.now()
	if err != nil {
		return forecast.Result{}, err
	}
	s.result = &result
	return result, nil
}

func (s *Session) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		Name:       s.name,
		Parameters: s.params,
		History:    append([]forecast.HistoricalPoint(nil), s.history...),
		InProgress: s.inProgress,
		Generation: s.ticket,
	}
	if s.result != nil {
		r := *s.result
		summary := forecast.Summarize(r)
		snap.Result = &r
		snap.Summary = &summary
		snap.Insights = forecast.Insights(r)
	}
	return snap
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed, s.inProgress
}
