package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler fires the daily digest at midnight UTC. It wakes once a minute
// and runs when the clock reads 00:00, so a restart mid-day never replays
// an old digest.
type Scheduler struct {
	dispatcher *Dispatcher
	logger     zerolog.Logger
	now        func() time.Time

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	lastRun string
}

func NewScheduler(dispatcher *Dispatcher, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		logger:     logger.With().Str("component", "digest_scheduler").Logger(),
		now:        time.Now,
	}
}

// Start begins the midnight check loop. A stopped scheduler can be started
// again.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(stopCh)

	s.logger.Info().Msg("digest scheduler started")
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh := s.stopCh
	s.mu.Unlock()

	close(stopCh)
	s.wg.Wait()

	s.logger.Info().Msg("digest scheduler stopped")
}

func (s *Scheduler) loop(stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	now := s.now().UTC()
	if now.Hour() != 0 || now.Minute() != 0 {
		return
	}

	date := now.Format("2006-01-02")
	s.mu.Lock()
	if s.lastRun == date {
		s.mu.Unlock()
		return
	}
	s.lastRun = date
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := s.dispatcher.RunDigest(ctx, date, false)
	if err != nil {
		s.logger.Error().Err(err).Str("date", date).Msg("scheduled digest failed")
		return
	}
	s.logger.Info().
		Str("date", summary.Date).
		Int("count", summary.ReservationsCount).
		Msg("scheduled digest sent")
}
