package flamegraph

import (
	"sync"
	"time"
)

// debouncer collapses bursts of calls into one trailing call. It owns a
// single timer slot; every Trigger replaces the pending call.
type debouncer struct {
	delay time.Duration
	post  func(func())

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	closed bool
}

func newDebouncer(delay time.Duration, post func(func())) *debouncer {
	return &debouncer{delay: delay, post: post}
}

// Trigger schedules f to run after the delay unless another Trigger or Stop
// comes first. post is called on the timer goroutine and decides where f
// runs; f is skipped if it was superseded by the time post runs it.
func (d *debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.post(func() {
			if d.current(gen) {
				f()
			}
		})
	})
}

// current reports whether gen is still the latest scheduled call. A timer
// that already fired may have posted its call before being superseded.
func (d *debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && gen == d.gen
}

// Stop cancels the pending call and disables further triggers.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
