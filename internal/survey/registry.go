package survey

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/evyataryagoni/locationsurvey/internal/logger"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or evicted session ids
var ErrSessionNotFound = errors.New("form session not found")

// Session is one mounted form
type Session struct {
	ID         string
	Controller *Controller
	CreatedAt  time.Time

	lastSeen time.Time
}

// Registry owns every live session. Sessions idle for longer than the
// timeout are unmounted and removed by EvictIdle.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
	logger      *logger.Logger
}

// NewRegistry creates a registry. A zero idleTimeout disables eviction.
func NewRegistry(idleTimeout time.Duration, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewDefault()
	}

	return &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
		logger:      log.WithComponent("SessionRegistry"),
	}
}

// Add registers a controller under a fresh id
func (r *Registry) Add(ctrl *Controller) *Session {
	now := r.now()
	s := &Session{
		ID:         uuid.NewString(),
		Controller: ctrl,
		CreatedAt:  now,
		lastSeen:   now,
	}
	ctrl.bindSession(s.ID)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug().Str("session_id", s.ID).Msg("Form session created")
	return s
}

// Get returns a session and marks it as active
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s, nil
}

// Remove unmounts and forgets a session
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.Controller.Unmount()
	r.logger.Debug().Str("session_id", id).Msg("Form session removed")
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle removes sessions idle for longer than the timeout and
// returns how many were evicted
func (r *Registry) EvictIdle() int {
	if r.idleTimeout <= 0 {
		return 0
	}

	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Controller.Unmount()
	}

	if len(idle) > 0 {
		r.logger.Info().Int("evicted", len(idle)).Msg("Evicted idle form sessions")
	}
	return len(idle)
}

// Run evicts idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// Close unmounts every session
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Controller.Unmount()
	}
}
