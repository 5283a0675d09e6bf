package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
	"github.com/rocketscienceinc/dice-backend/internal/dice"
)

const (
	defaultIdleTimeout   = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

type SessionConfig struct {
	AutoStop      time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type ManagerOption func(*SessionManager)

// WithSessionClock drives timers and idle tracking of every session from clock.
func WithSessionClock(clock dice.Clock) ManagerOption {
	return func(that *SessionManager) {
		that.clock = clock
	}
}

func WithRollerFactory(newRoller func() *dice.Roller) ManagerOption {
	return func(that *SessionManager) {
		that.newRoller = newRoller
	}
}

// SessionManager keeps one dice table per browser session and expires idle ones.
type SessionManager struct {
	logger    *slog.Logger
	narrator  narrator
	cfg       SessionConfig
	clock     dice.Clock
	newRoller func() *dice.Roller

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewSessionManager(logger *slog.Logger, narrator narrator, cfg SessionConfig, opts ...ManagerOption) *SessionManager {
	if cfg.AutoStop <= 0 {
		cfg.AutoStop = dice.AutoStopDelay
	}

	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	manager := &SessionManager{
		logger:    logger.With("component", "sessions"),
		narrator:  narrator,
		cfg:       cfg,
		clock:     dice.SystemClock(),
		newRoller: dice.NewRandomRoller,
		sessions:  make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// GetOrCreate returns the session for id, or a new session under a fresh id when id is empty or unknown.
func (that *SessionManager) GetOrCreate(id string) *Session {
	log := that.logger.With("method", "GetOrCreate")

	that.mu.Lock()
	defer that.mu.Unlock()

	if session, ok := that.sessions[id]; ok && id != "" {
		return session
	}

	newID := uuid.NewString()
	session := newSession(newID, that.logger, that.narrator, that.newRoller(), that.clock, that.cfg.AutoStop)

	if that.closed {
		// the process is shutting down, hand out a table that is already torn down
		session.Close()
		return session
	}

	that.sessions[newID] = session
	log.Info("session created", "session", newID)

	return session
}

func (that *SessionManager) Get(id string) (*Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return session, nil
}

func (that *SessionManager) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.sessions)
}

// Run sweeps idle sessions until ctx is done.
func (that *SessionManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	ticker := time.NewTicker(that.cfg.SweepInterval)
	defer ticker.Stop()

	log.Info("session sweeper started", "idle_timeout", that.cfg.IdleTimeout, "interval", that.cfg.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			log.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			that.Sweep()
		}
	}
}

// Sweep closes sessions that have been idle longer than the idle timeout and have no subscribers.
func (that *SessionManager) Sweep() int {
	log := that.logger.With("method", "Sweep")

	now := that.clock.Now()

	that.mu.Lock()
	var expired []*Session
	for id, session := range that.sessions {
		if session.expired(now, that.cfg.IdleTimeout) {
			expired = append(expired, session)
			delete(that.sessions, id)
		}
	}
	that.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}

	if len(expired) > 0 {
		log.Info("idle sessions closed", "count", len(expired), "remaining", that.Len())
	}

	return len(expired)
}

// Close tears down every session. Sessions created afterwards start closed.
func (that *SessionManager) Close() {
	that.mu.Lock()
	sessions := that.sessions
	that.sessions = make(map[string]*Session)
	that.closed = true
	that.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
