// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"sync"
	"time"
)

/*
Debouncer runs the most recently triggered function once events stop.

Every Trigger restarts the delay and replaces the pending function, so a
burst of events produces a single trailing call.
*/
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	seq     uint64
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling whatever was pending.
func (debouncer *Debouncer) Trigger(fn func()) {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()

	debouncer.seq++
	seq := debouncer.seq
	debouncer.pending = fn
	if debouncer.timer != nil {
		debouncer.timer.Stop()
	}
	debouncer.timer = time.AfterFunc(debouncer.delay, func() { debouncer.fire(seq) })
}

func (debouncer *Debouncer) fire(seq uint64) {
	debouncer.mu.Lock()
	if seq != debouncer.seq || debouncer.pending == nil {
		debouncer.mu.Unlock()
		return
	}
	fn := debouncer.pending
	debouncer.pending = nil
	debouncer.timer = nil
	debouncer.mu.Unlock()

	fn()
}

// Pending reports whether a call is scheduled.
func (debouncer *Debouncer) Pending() bool {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	return debouncer.pending != nil
}

// Flush runs the pending function now, if any.
func (debouncer *Debouncer) Flush() {
	debouncer.mu.Lock()
	fn := debouncer.take()
	debouncer.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop drops the pending function.
func (debouncer *Debouncer) Stop() {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	debouncer.take()
}

// take clears the pending call and returns it. Callers hold mu.
func (debouncer *Debouncer) take() func() {
	debouncer.seq++
	fn := debouncer.pending
	debouncer.pending = nil
	if debouncer.timer != nil {
		debouncer.timer.Stop()
		debouncer.timer = nil
	}
	return fn
}
