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

// Package listener owns the process-level accept loop: it binds one address,
// turns every accepted socket into a session, and bounds how many dial+
// handshake pairs run at once so a connection burst cannot starve the
// process of file descriptors before a single slow peer's own timeout would
// free one up. Its own start/stop lifecycle is supervised by runner/startStop
// so Start returns immediately and a second Start safely restarts rather
// than leaking the previous accept goroutine.
package listener

import (
	"context"
	"time"

	addr "github.com/sabouaram/relay/address"
	"github.com/sabouaram/relay/handshake"
	"github.com/sabouaram/relay/metrics"
	"github.com/sabouaram/relay/pipe"
	"github.com/sabouaram/relay/sched"
	"github.com/sabouaram/relay/session"
	"github.com/sabouaram/relay/transport"
)

// Deps collects the collaborators every accepted session needs.
type Deps struct {
	Dialer     transport.Dialer
	Handshaker handshake.Handshaker
	Pipes      pipe.Launcher
	Scheduler  sched.Scheduler
}

// Config describes one bound listen address and how every session it spawns
// should behave.
type Config struct {
	// Bind is the address to accept connections on.
	Bind addr.Address

	// Targets is the candidate address list each spawned session dials.
	Targets addr.List

	// TargetBind, if non-nil, is the local address a spawned session's
	// dialer binds before connecting out.
	TargetBind *addr.Address

	// Decr is true when this listener's accepted sockets carry ciphertext
	// (the decrypting relay instance); false when they carry plaintext.
	Decr bool

	NoPFS       bool
	RequirePFS  bool
	NoKeepalive bool

	Secret [32]byte

	// Timeout bounds a spawned session's dial and handshake.
	Timeout time.Duration

	// MaxHandshakes bounds the number of dial+handshake pairs running at
	// once. Zero or negative means unbounded.
	MaxHandshakes int64

	// OnSessionDone, if set, is invoked once a spawned session drops, with
	// the same reason/result the session reports through session.OnDeadFunc,
	// plus the bytes relayed in each direction over that connection's life.
	OnSessionDone func(reason session.Reason, result int, read int64, written int64)

	// Metrics, if set, receives accepted/active/closed counts and relayed
	// byte totals for every spawned session.
	Metrics *metrics.Metrics
}

// Listener accepts connections on Config.Bind and spawns a session per
// socket. Start/Stop/Restart/IsRunning supervise the accept loop; IsGone and
// OpenConnections report the loop's own state and load.
type Listener interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error

	IsRunning() bool

	// IsGone reports whether the underlying listen socket is currently
	// closed — true before the first Start and again once the loop exits.
	IsGone() bool

	// OpenConnections is the number of sessions currently spawned and not
	// yet dropped.
	OpenConnections() int64
}
