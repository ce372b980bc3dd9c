// Package tick provides a manually driven deferral queue for work that must
// run "after the current turn" of a single-threaded event loop.
//
// A Scheduler never starts goroutines or timers. The owner of the event
// loop calls Turn once per iteration; tests drive it directly.
package tick

import "sync"

// maxDrainTurns bounds Drain when tasks keep rescheduling themselves.
const maxDrainTurns = 1024

// Token identifies a deferred task.
type Token uint64

type task struct {
	token Token
	due   uint64
	gen   uint64
	fn    func()
}

// Scheduler queues callbacks to run a number of turns in the future.
//
// Every task is stamped with the scheduler's generation. Invalidate bumps
// the generation so everything scheduled earlier becomes a no-op, the same
// way a debouncer's sequence number discards stale timer callbacks.
//
// Thread-safety: methods are safe for concurrent use. Callbacks run on the
// goroutine calling Turn, without the internal lock held.
type Scheduler struct {
	mu    sync.Mutex
	now   uint64
	gen   uint64
	next  Token
	tasks []task
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Defer schedules fn for the next turn.
func (s *Scheduler) Defer(fn func()) Token {
	return s.DeferN(1, fn)
}

// DeferN schedules fn to run n turns from now. Values below 1 mean 1.
func (s *Scheduler) DeferN(n int, fn func()) Token {
	if n < 1 {
		n = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.tasks = append(s.tasks, task{
		token: s.next,
		due:   s.now + uint64(n),
		gen:   s.gen,
		fn:    fn,
	})
	return s.next
}

// Cancel removes a pending task. It reports whether the task was pending.
func (s *Scheduler) Cancel(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.token == tok {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Invalidate discards every pending task.
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.tasks = nil
}

// Turn advances the clock by one tick and runs the tasks that became due,
// in scheduling order. Tasks deferred by a callback run on a later turn.
// It returns the number of callbacks run.
func (s *Scheduler) Turn() int {
	s.mu.Lock()
	s.now++
	var due []task
	remaining := s.tasks[:0:0]
	for _, t := range s.tasks {
		switch {
		case t.gen != s.gen:
			// stale
		case t.due <= s.now:
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining
	gen := s.gen
	s.mu.Unlock()

	ran := 0
	for _, t := range due {
		// A callback earlier in this turn may have invalidated the rest.
		if s.generation() != gen {
			break
		}
		if t.fn != nil {
			t.fn()
		}
		ran++
	}
	return ran
}

// Drain runs turns until nothing is pending and returns the number of
// callbacks run.
func (s *Scheduler) Drain() int {
	ran := 0
	for i := 0; i < maxDrainTurns && s.Pending() > 0; i++ {
		ran += s.Turn()
	}
	return ran
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Now returns the number of turns run so far.
func (s *Scheduler) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Scheduler) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}
