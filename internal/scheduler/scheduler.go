package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a job at a fixed interval in a background goroutine
type Scheduler struct {
	interval time.Duration
	job      func()
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a stopped Scheduler
func New(interval time.Duration, job func()) *Scheduler {
	return &Scheduler{
		interval: interval,
		job:      job,
	}
}

// Start begins running the job every interval. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.job()
		case <-ctx.Done():
			return
		}
	}
}

// Stop halts the scheduler and waits for an in-progress job to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
}

// IsRunning reports whether the scheduler is started
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
