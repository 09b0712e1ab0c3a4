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

// Package admin exposes a small gin HTTP surface alongside the relay's data
// path: /healthz for liveness/readiness probes and /metrics for Prometheus
// scraping. Its own lifecycle is supervised the same way the listener's
// accept loop is, through runner/startStop.
package admin

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/relay/listener"
)

// Status reports the aggregate health of every listener the admin surface
// watches.
type Status struct {
	Running         bool  `json:"running"`
	OpenConnections int64 `json:"open_connections"`
}

// Server is the admin HTTP surface's lifecycle handle.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsRunning() bool
}

// Config describes the admin surface's bind address and what it reports on.
type Config struct {
	// Bind is the host:port the admin HTTP surface listens on.
	Bind string

	// Registerer is where the relay's Prometheus series were registered;
	// /metrics serves exactly this registry's collected output.
	Registerer *prometheus.Registry

	// Listeners is the set of data-path listeners /healthz aggregates.
	Listeners []listener.Listener
}
