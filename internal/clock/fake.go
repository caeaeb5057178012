// ABOUTME: Deterministic fake clock and scheduler for tests.
// ABOUTME: Advance moves virtual time forward and fires due tasks in order.
package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock and Scheduler.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	tasks  map[int]*fakeTask
}

type fakeTask struct {
	id       int
	interval time.Duration
	next     time.Time
	fn       func()
}

// NewFake creates a Fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{
		now:   start,
		tasks: make(map[int]*fakeTask),
	}
}

// Now returns the current virtual time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Every registers fn to run each interval of virtual time.
func (f *Fake) Every(interval time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.tasks[id] = &fakeTask{
		id:       id,
		interval: interval,
		next:     f.now.Add(interval),
		fn:       fn,
	}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.tasks, id)
	}
}

// Advance moves time forward by d, running every task that comes due.
// Callbacks run without the lock held so they may stop or schedule tasks.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		due := f.nextDue(target)
		if due == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		f.mu.Unlock()

		fn()
	}
}

// Tick advances time by one second.
func (f *Fake) Tick() {
	f.Advance(time.Second)
}

// Pending returns the number of live scheduled tasks.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// nextDue returns the earliest task due at or before target. Caller holds mu.
func (f *Fake) nextDue(target time.Time) *fakeTask {
	var due *fakeTask
	for _, task := range f.tasks {
		if task.next.After(target) {
			continue
		}
		if due == nil || task.next.Before(due.next) || (task.next.Equal(due.next) && task.id < due.id) {
			due = task
		}
	}
	return due
}
