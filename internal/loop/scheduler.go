package loop

import (
	"cmp"
	"slices"
	"time"
)

// Task is a deferred callback registered with a Scheduler.
type Task struct {
	due       time.Duration
	seq       uint64
	gen       uint64
	fn        func()
	cancelled bool
}

// Cancel prevents the task from running. Safe on nil and on tasks that already ran.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Scheduler runs deferred callbacks against the engine clock. Reset
// invalidates everything scheduled before it, including tasks already
// collected for the current Run.
type Scheduler struct {
	tasks []*Task
	ready []*Task // Reused by Run
	gen   uint64
	seq   uint64
}

// After schedules fn to run on the first Run at or after now+delay.
func (s *Scheduler) After(now, delay time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{
		due: now + delay,
		seq: s.seq,
		gen: s.gen,
		fn:  fn,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Run executes every task due at now, earliest first and in scheduling order
// on ties. Tasks scheduled while running wait for the next Run.
// Returns the number of callbacks executed.
func (s *Scheduler) Run(now time.Duration) int {
	s.ready = s.ready[:0]
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		switch {
		case t.cancelled || t.gen != s.gen:
			// dropped
		case t.due <= now:
			s.ready = append(s.ready, t)
		default:
			kept = append(kept, t)
		}
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept

	slices.SortFunc(s.ready, func(a, b *Task) int {
		if c := cmp.Compare(a.due, b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	ran := 0
	for _, t := range s.ready {
		if t.cancelled || t.gen != s.gen {
			continue
		}
		t.cancelled = true
		t.fn()
		ran++
	}
	clear(s.ready)
	return ran
}

// Reset drops every pending task and starts a new generation.
func (s *Scheduler) Reset() {
	s.gen++
	clear(s.tasks)
	s.tasks = s.tasks[:0]
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled && t.gen == s.gen {
			n++
		}
	}
	return n
}

// Generation returns the current generation, bumped by every Reset.
func (s *Scheduler) Generation() uint64 {
	return s.gen
}
