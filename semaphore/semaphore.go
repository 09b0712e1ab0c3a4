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

// Package semaphore bounds the number of dial+handshake pairs the listener
// runs at once, so a burst of incoming connections cannot exhaust file
// descriptors before a single slow peer's own timeout would free one up.
package semaphore

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Semaphore is a weighted, context-aware concurrency gate.
type Semaphore interface {
	// Acquire blocks until a slot is free or ctx is done.
	Acquire(ctx context.Context) error

	// TryAcquire takes a slot without blocking, reporting whether one was
	// available.
	TryAcquire() bool

	// Release returns a slot acquired by Acquire or TryAcquire.
	Release()

	// Limit is the configured number of concurrent slots.
	Limit() int64
}

type weighted struct {
	sem *semaphore.Weighted
	n   int64
}

// New returns a Semaphore allowing up to n concurrent holders. n <= 0 means
// unbounded: Acquire/TryAcquire always succeed immediately and Release is a
// no-op.
func New(n int64) Semaphore {
	if n <= 0 {
		return unbounded{}
	}

	return &weighted{
		sem: semaphore.NewWeighted(n),
		n:   n,
	}
}

func (w *weighted) Acquire(ctx context.Context) error {
	return w.sem.Acquire(ctx, 1)
}

func (w *weighted) TryAcquire() bool {
	return w.sem.TryAcquire(1)
}

func (w *weighted) Release() {
	w.sem.Release(1)
}

func (w *weighted) Limit() int64 {
	return w.n
}

type unbounded struct{}

func (unbounded) Acquire(context.Context) error { return nil }
func (unbounded) TryAcquire() bool              { return true }
func (unbounded) Release()                      {}
func (unbounded) Limit() int64                  { return 0 }
