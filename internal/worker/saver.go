package worker

import (
	"context"
	"sync"
	"time"
)

// Job is a unit of background work.
type Job func(ctx context.Context) error

// Saver runs at most one job per key at a time. Jobs for a busy key wait in
// a per-key queue. Submit coalesces: a newer submission replaces a waiting
// one, so the newest snapshot of an entity wins and two writes of it never
// overlap. Queue appends a job that is never replaced.
type Saver struct {
	timeout time.Duration

	mu    sync.Mutex
	slots map[string]*slot
	wg    sync.WaitGroup
}

type task struct {
	job  Job
	done func(error)
	keep bool
}

type slot struct {
	queue []*task
}

// NewSaver returns a Saver; a positive timeout bounds each job.
func NewSaver(timeout time.Duration) *Saver {
	return &Saver{
		timeout: timeout,
		slots:   make(map[string]*slot),
	}
}

// Submit schedules job under key. done, if set, receives the job's result; a
// job replaced before it started reports nil.
func (s *Saver) Submit(key string, job Job, done func(error)) {
	s.enqueue(key, &task{job: job, done: done})
}

// Queue schedules job after everything already waiting for key.
func (s *Saver) Queue(key string, job Job, done func(error)) {
	s.enqueue(key, &task{job: job, done: done, keep: true})
}

func (s *Saver) enqueue(key string, t *task) {
	s.mu.Lock()
	sl, running := s.slots[key]
	if !running {
		s.slots[key] = &slot{}
		s.wg.Add(1)
		s.mu.Unlock()
		go s.run(key, t)
		return
	}

	var replaced *task
	if n := len(sl.queue); n > 0 && !t.keep && !sl.queue[n-1].keep {
		replaced, sl.queue[n-1] = sl.queue[n-1], t
	} else {
		sl.queue = append(sl.queue, t)
	}
	s.mu.Unlock()

	if replaced != nil && replaced.done != nil {
		go replaced.done(nil)
	}
}

func (s *Saver) run(key string, t *task) {
	defer s.wg.Done()
	for t != nil {
		err := s.exec(t.job)
		if t.done != nil {
			t.done(err)
		}

		s.mu.Lock()
		sl := s.slots[key]
		t = nil
		if len(sl.queue) > 0 {
			t, sl.queue = sl.queue[0], sl.queue[1:]
		} else {
			delete(s.slots, key)
		}
		s.mu.Unlock()
	}
}

func (s *Saver) exec(job Job) error {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return job(ctx)
}

// Busy reports whether a job for key is running or waiting.
func (s *Saver) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[key]
	return ok
}

// Wait blocks until every submitted job has finished or ctx is done.
func (s *Saver) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
