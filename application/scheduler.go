package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Scheduler runs named delayed tasks. Scheduling a name that is already
// pending replaces the earlier task.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler whose tasks receive a context derived from parent
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule runs task after delay unless the scheduler is stopped first
func (s *Scheduler) Schedule(name string, delay time.Duration, task func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		log.WithField("task", name).Debug("Scheduler stopped, dropping task")
		return
	}
	if prev, ok := s.pending[name]; ok && prev.Stop() {
		s.wg.Done()
	}

	s.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		if s.pending[name] == timer {
			delete(s.pending, name)
		}
		s.mu.Unlock()

		if s.ctx.Err() != nil {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"task":  name,
					"panic": r,
				}).Error("Scheduled task panicked")
			}
		}()
		log.WithField("task", name).Debug("Running scheduled task")
		task(s.ctx)
	})
	s.pending[name] = timer
}

// Pending returns the number of tasks waiting to fire
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels pending tasks and waits for running ones to return
func (s *Scheduler) Stop() {
	s.cancel()
	s.mu.Lock()
	for name, timer := range s.pending {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, name)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
