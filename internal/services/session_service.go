package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"calmd/internal/engagement"
	"calmd/internal/models"
	"calmd/internal/providers"
	"calmd/internal/structures"
)

type SessionServiceInterface interface {
	Select(userID, pattern string) (models.SessionState, error)
	Start(userID string) (models.SessionState, error)
	Pause(userID string) (models.SessionState, error)
	Reset(userID string) (models.SessionState, error)
	State(userID string) (models.SessionState, error)
	EvictIdle(cutoff time.Time) int
	Active() int
	Close()
}

// sessionHost owns one user's GuidedSession and the ticker driving it.
// Every command that stops or replaces the countdown bumps generation, so a
// tick already in flight for an older countdown is dropped. An evicted host
// is no longer in the service map and must not receive a new session.
type sessionHost struct {
	mu         sync.Mutex
	id         string
	session    *engagement.GuidedSession
	generation uint64
	cancel     context.CancelFunc
	touched    time.Time
	evicted    bool
}

func (h *sessionHost) stopTicker() {
	h.generation++
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

type SessionService struct {
	library  *engagement.PatternLibrary
	clock    providers.ClockInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	interval time.Duration

	mu    sync.Mutex
	hosts map[string]*sessionHost
}

func NewSessionService(conf *structures.Config, library *engagement.PatternLibrary, clock providers.ClockInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SessionServiceInterface {
	interval := conf.Engagement.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &SessionService{
		library:  library,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		interval: interval,
		hosts:    make(map[string]*sessionHost),
	}
}

func (s *SessionService) host(userID string) (*sessionHost, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hosts[userID]
	return h, ok
}

// Select loads a pattern into the user's session, replacing whatever was
// running. The new session starts Idle.
func (s *SessionService) Select(userID, name string) (models.SessionState, error) {
	pattern, ok := s.library.Get(name)
	if !ok {
		return models.SessionState{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}

	h := s.lockHost(userID)
	defer h.mu.Unlock()
	h.stopTicker()

	session, err := engagement.NewGuidedSession(pattern)
	if err != nil {
		return models.SessionState{}, err
	}
	h.id = uuid.NewString()
	session.OnPhaseChange(func(c engagement.PhaseChange) {
		s.logger.Debugf(providers.TypeApp, "Session %s of %s: %s -> %s (cycle %d)",
			h.id, userID, c.Previous.Kind, c.Current.Kind, c.CycleIndex+1)
	})
	session.OnCompleted(func(state models.SessionState) {
		s.metrics.IncSessionEvents("completed")
		s.logger.Infof(providers.TypeApp, "Session %s of %s completed %s after %d cycles",
			h.id, userID, state.Pattern, state.TotalCycles)
	})
	h.session = session
	h.touched = s.clock.Now()
	s.metrics.IncSessionEvents("selected")
	return session.Snapshot(), nil
}

// lockHost returns the user's host, creating it if needed, with h.mu held.
// EvictIdle may remove the host between the map lookup and the lock, in
// which case a fresh host is taken.
func (s *SessionService) lockHost(userID string) *sessionHost {
	for {
		s.mu.Lock()
		h, ok := s.hosts[userID]
		if !ok {
			h = &sessionHost{touched: s.clock.Now()}
			s.hosts[userID] = h
			s.metrics.SetActiveSessions(len(s.hosts))
		}
		s.mu.Unlock()

		h.mu.Lock()
		if !h.evicted {
			return h
		}
		h.mu.Unlock()
	}
}

func (s *SessionService) Start(userID string) (models.SessionState, error) {
	return s.command(userID, func(h *sessionHost) {
		if h.session.Start() {
			s.metrics.IncSessionEvents("started")
			h.stopTicker()
			ctx, cancel := context.WithCancel(context.Background())
			h.cancel = cancel
			go s.run(ctx, h, h.generation)
		}
	})
}

func (s *SessionService) Pause(userID string) (models.SessionState, error) {
	return s.command(userID, func(h *sessionHost) {
		if h.session.Pause() {
			s.metrics.IncSessionEvents("paused")
			h.stopTicker()
		}
	})
}

func (s *SessionService) Reset(userID string) (models.SessionState, error) {
	return s.command(userID, func(h *sessionHost) {
		h.stopTicker()
		h.session.Reset()
		s.metrics.IncSessionEvents("reset")
	})
}

func (s *SessionService) State(userID string) (models.SessionState, error) {
	return s.command(userID, func(*sessionHost) {})
}

func (s *SessionService) command(userID string, fn func(h *sessionHost)) (models.SessionState, error) {
	h, ok := s.host(userID)
	if !ok {
		return models.SessionState{}, ErrNoSession
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil || h.evicted {
		return models.SessionState{}, ErrNoSession
	}
	fn(h)
	h.touched = s.clock.Now()
	return h.session.Snapshot(), nil
}

func (s *SessionService) run(ctx context.Context, h *sessionHost, generation uint64) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(h, generation) {
				return
			}
		}
	}
}

// tick delivers one tick to h if generation is still current. It reports
// whether the ticker should keep running.
func (s *SessionService) tick(h *sessionHost, generation uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.generation != generation || h.session == nil {
		return false
	}
	h.session.Tick()
	if h.session.Status() != models.SessionRunning {
		h.stopTicker()
		return false
	}
	return true
}

// EvictIdle removes hosts that are not running and were last touched before cutoff.
func (s *SessionService) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, h := range s.hosts {
		h.mu.Lock()
		idle := h.touched.Before(cutoff) && (h.session == nil || h.session.Status() != models.SessionRunning)
		if idle {
			h.stopTicker()
			h.evicted = true
		}
		h.mu.Unlock()
		if idle {
			delete(s.hosts, userID)
			evicted++
		}
	}
	if evicted > 0 {
		s.metrics.SetActiveSessions(len(s.hosts))
	}
	return evicted
}

func (s *SessionService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hosts)
}

// Close stops every ticker. In-progress sessions are not persisted.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hosts {
		h.mu.Lock()
		h.stopTicker()
		h.mu.Unlock()
	}
}
