/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop supervises a start/stop function pair on a goroutine
// the caller never has to manage directly: Start launches it and returns
// immediately, Stop cancels and waits for it to unwind, and every error
// either side returns is captured rather than lost.
package startStop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// StartFunc runs until ctx is done or it decides to return on its own.
type StartFunc func(ctx context.Context) error

// StopFunc performs graceful shutdown, bounded by ctx.
type StopFunc func(ctx context.Context) error

// Runner supervises one StartFunc/StopFunc pair.
type Runner interface {
	// Start launches start on its own goroutine and returns immediately.
	// If the runner is already running, the previous instance is stopped
	// first.
	Start(ctx context.Context) error

	// Stop cancels the running instance's context and runs stop to
	// completion. Safe to call on an instance that was never started; a
	// Stop with no Start since the previous Stop does nothing. Stop returns
	// nil: an error from stop, or a nil stop, is captured for ErrorsLast
	// and ErrorsList instead.
	Stop(ctx context.Context) error

	// Restart is Stop followed by Start.
	Restart(ctx context.Context) error

	IsRunning() bool

	// Uptime is how long the current instance has been running, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently captured error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error captured since the most recent Start,
	// oldest first.
	ErrorsList() []error
}

// New returns a Runner supervising start/stop.
func New(start StartFunc, stop StopFunc) Runner {
	return &runner{
		start: start,
		stop:  stop,
	}
}

type runner struct {
	mu        sync.RWMutex
	start     StartFunc
	stop      StopFunc
	running   bool
	startedAt time.Time
	cancel    context.CancelFunc
	gen       int
	errs      []error
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		prevCancel := r.cancel
		prevStop := r.stop
		r.mu.Unlock()

		if prevCancel != nil {
			prevCancel()
		}
		if prevStop != nil {
			_ = prevStop(ctx)
		}

		r.mu.Lock()
	}

	r.gen++
	myGen := r.gen
	r.errs = nil

	rctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.startedAt = time.Now()
	r.mu.Unlock()

	go func() {
		var err error
		if r.start == nil {
			err = errors.New("invalid start function")
		} else {
			err = r.start(rctx)
		}

		if err != nil {
			r.addError(err)
		}

		r.mu.Lock()
		if r.gen == myGen {
			r.running = false
		}
		r.mu.Unlock()
	}()

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	if r.stop == nil {
		r.addError(errors.New("invalid stop function"))
		return nil
	}

	if err := r.stop(ctx); err != nil {
		r.addError(err)
	}
	return nil
}

func (r *runner) Restart(ctx context.Context) error {
	_ = r.Stop(ctx)
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

func (r *runner) Uptime() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.running {
		return 0
	}
	return time.Since(r.startedAt)
}

func (r *runner) addError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *runner) ErrorsLast() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}
