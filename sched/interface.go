/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package sched realizes the event-loop's timer contract: register_timer
// (callback, cookie, seconds) -> handle; cancel_timer(handle). Timers fire
// at most once; cancellation of an already-fired or already-cancelled
// handle is a safe no-op.
package sched

import (
	"sync"
	"time"
)

// Handle is a cancellation token for one registered timer. The zero Handle
// is not valid; Scheduler.RegisterTimer always returns a non-zero Handle.
type Handle uint64

// Scheduler registers and cancels one-shot timers. A single Scheduler may
// be shared by every connection's session; it holds no per-connection
// state beyond the bookkeeping needed to make CancelTimer idempotent.
type Scheduler interface {
	// RegisterTimer arranges for fn to be invoked once, after d elapses,
	// unless cancelled first. fn runs on its own goroutine.
	RegisterTimer(d time.Duration, fn func()) Handle

	// CancelTimer de-registers the timer identified by h. It is always
	// safe to call, including with a handle whose timer already fired or
	// was already cancelled.
	CancelTimer(h Handle)
}

// New returns a Scheduler built on time.AfterFunc.
func New() Scheduler {
	return &wheel{
		timers: make(map[Handle]*time.Timer),
	}
}

type wheel struct {
	mu     sync.Mutex
	next   Handle
	timers map[Handle]*time.Timer
}

func (w *wheel) RegisterTimer(d time.Duration, fn func()) Handle {
	w.mu.Lock()
	w.next++
	h := w.next
	w.mu.Unlock()

	t := time.AfterFunc(d, func() {
		w.mu.Lock()
		delete(w.timers, h)
		w.mu.Unlock()
		fn()
	})

	w.mu.Lock()
	w.timers[h] = t
	w.mu.Unlock()

	return h
}

func (w *wheel) CancelTimer(h Handle) {
	w.mu.Lock()
	t, ok := w.timers[h]
	if ok {
		delete(w.timers, h)
	}
	w.mu.Unlock()

	if ok {
		t.Stop()
	}
}
