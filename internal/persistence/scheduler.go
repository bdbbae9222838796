package persistence

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"calmd/internal/persistence/interfaces"
	"calmd/internal/providers"
	"calmd/internal/services"
	"calmd/internal/structures"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	fileManager *FileManager
	sessions    services.SessionServiceInterface
	clock       providers.ClockInterface
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if s.fileManager.Enabled() {
		s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
			if err := s.Persist(); err == nil {
				s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
			}
		})
	}

	if ttl := s.config.Engagement.SessionIdleTTL; ttl > 0 {
		every := ttl / 2
		if every < time.Second {
			every = time.Second
		}
		s.cron.AddFunc(gron.Every(every), func() {
			s.EvictIdle()
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if !s.fileManager.Enabled() {
		return nil
	}

	started := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(started))
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

// EvictIdle drops session hosts idle for longer than engagement.sessionIdleTTL.
func (s *Scheduler) EvictIdle() int {
	cutoff := s.clock.Now().Add(-s.config.Engagement.SessionIdleTTL)
	n := s.sessions.EvictIdle(cutoff)
	if n > 0 {
		s.logger.Debugf(providers.TypeApp, "Evicted %d idle sessions", n)
	}
	return n
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, sessions services.SessionServiceInterface, clock providers.ClockInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		fileManager: fileManager,
		sessions:    sessions,
		clock:       clock,
		metrics:     metrics,
	}
}
