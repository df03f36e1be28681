// Package tasks runs delayed work whose lifetime is bound to an owner
package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/johnrirwin/fpviraq/internal/logging"
)

var ErrClosed = errors.New("scheduler is closed")

// Scheduler runs functions after a delay. Pending work is cancelled when its
// owner is cancelled or the scheduler is closed; a cancelled function never runs.
type Scheduler struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	owners map[string]*owner
	wg     sync.WaitGroup
	logger *logging.Logger
}

type owner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	pending int
}

func NewScheduler(logger *logging.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		owners: make(map[string]*owner),
		logger: logger,
	}
}

// Schedule runs fn(ctx) after delay on its own goroutine. ctx is cancelled
// if the owner goes away while fn is running.
func (s *Scheduler) Schedule(ownerID string, delay time.Duration, fn func(ctx context.Context)) error {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return ErrClosed
	}
	o, ok := s.owners[ownerID]
	if !ok {
		ctx, cancel := context.WithCancel(s.ctx)
		o = &owner{ctx: ctx, cancel: cancel}
		s.owners[ownerID] = o
	}
	o.pending++
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ownerID, o, delay, fn)
	return nil
}

func (s *Scheduler) run(ownerID string, o *owner, delay time.Duration, fn func(ctx context.Context)) {
	defer s.wg.Done()
	defer s.release(ownerID, o)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-o.ctx.Done():
		s.logger.Debug("Scheduled task cancelled", logging.WithField("owner", ownerID))
		return
	}

	// a cancel racing the timer wins
	if o.ctx.Err() != nil {
		return
	}
	fn(o.ctx)
}

func (s *Scheduler) release(ownerID string, o *owner) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.pending--
	if o.pending == 0 && s.owners[ownerID] == o {
		o.cancel()
		delete(s.owners, ownerID)
	}
}

// CancelOwner drops every pending task of ownerID
func (s *Scheduler) CancelOwner(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.owners[ownerID]; ok {
		o.cancel()
		delete(s.owners, ownerID)
	}
}

// Pending counts tasks not yet finished for ownerID
func (s *Scheduler) Pending(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.owners[ownerID]; ok {
		return o.pending
	}
	return 0
}

// Close cancels all pending work and waits for running tasks to return
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.cancel()
	s.owners = make(map[string]*owner)
	s.mu.Unlock()

	s.wg.Wait()
}
