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

// Package metrics collects the Prometheus series a running relay exposes:
// connections accepted/active/closed-by-reason, and bytes relayed in each
// direction. Byte totals are also rendered through the size package for the
// log line written each time a session closes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/relay/size"
)

const namespace = "relay"

// Metrics is the set of series one listener instance reports into.
type Metrics struct {
	accepted prometheus.Counter
	active   prometheus.Gauge
	closed   *prometheus.CounterVec
	bytes    *prometheus.CounterVec
}

// New creates and registers a Metrics instance against reg. Each listener
// instance should pass its own label value through name so multiple
// listeners sharing one process don't collide on series identity.
func New(reg prometheus.Registerer, name string) *Metrics {
	labels := prometheus.Labels{"listener": name}

	m := &Metrics{
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "connections_accepted_total",
			Help:        "Connections accepted by the listener.",
			ConstLabels: labels,
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "connections_active",
			Help:        "Sessions currently open.",
			ConstLabels: labels,
		}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "connections_closed_total",
			Help:        "Sessions that have dropped, by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "bytes_relayed_total",
			Help:        "Bytes relayed, by direction.",
			ConstLabels: labels,
		}, []string{"direction"}),
	}

	reg.MustRegister(m.accepted, m.active, m.closed, m.bytes)

	return m
}

// Accepted records one newly accepted connection and one newly active
// session.
func (m *Metrics) Accepted() {
	m.accepted.Inc()
	m.active.Inc()
}

// Closed records a session dropping for reason, and one fewer active
// session.
func (m *Metrics) Closed(reason string) {
	m.active.Dec()
	m.closed.WithLabelValues(reason).Inc()
}

// AddBytes records n additional bytes relayed in the given direction
// ("forward" or "reverse").
func (m *Metrics) AddBytes(direction string, n int64) {
	if n <= 0 {
		return
	}
	m.bytes.WithLabelValues(direction).Add(float64(n))
}

// Size is a convenience re-export so callers logging a byte total don't
// need their own import of the size package just to call String.
func Size(n int64) string {
	return size.Size(n).String()
}
