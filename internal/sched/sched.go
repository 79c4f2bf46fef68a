// Package sched runs delayed callbacks on the frame clock.
//
// Tasks are keyed by name. Scheduling a key that is already pending replaces
// the earlier task, so a burst of events leaves exactly one callback behind.
// Callbacks run inside Advance on the caller's goroutine.
package sched

import (
	"sort"
	"time"
)

type task struct {
	key string
	due time.Duration
	seq uint64
	fn  func()
}

// Scheduler holds pending tasks against its own clock.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks map[string]*task
}

// New creates an empty scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]*task)}
}

// After schedules fn to run once delay has elapsed on the frame clock.
// Any pending task with the same key is cancelled first.
func (s *Scheduler) After(key string, delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	s.tasks[key] = &task{key: key, due: s.now + delay, seq: s.seq, fn: fn}
}

// Cancel drops the pending task for key. It reports whether one existed.
func (s *Scheduler) Cancel(key string) bool {
	if _, ok := s.tasks[key]; !ok {
		return false
	}
	delete(s.tasks, key)
	return true
}

// Pending reports whether a task is waiting under key.
func (s *Scheduler) Pending(key string) bool {
	_, ok := s.tasks[key]
	return ok
}

// Remaining returns the time left before the task under key fires.
func (s *Scheduler) Remaining(key string) (time.Duration, bool) {
	t, ok := s.tasks[key]
	if !ok {
		return 0, false
	}
	return t.due - s.now, true
}

// Advance moves the clock forward by dt and runs every task that came due,
// in due order. Tasks scheduled by a callback are considered on the same pass
// if they are already due.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}
	for {
		due := s.dueTasks()
		if len(due) == 0 {
			return
		}
		for _, t := range due {
			// A previous callback may have cancelled or replaced this task.
			if cur, ok := s.tasks[t.key]; !ok || cur != t {
				continue
			}
			delete(s.tasks, t.key)
			t.fn()
		}
	}
}

func (s *Scheduler) dueTasks() []*task {
	var due []*task
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Clear drops every pending task without running it.
func (s *Scheduler) Clear() {
	clear(s.tasks)
}
