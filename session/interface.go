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

// Package session owns one relayed connection end to end: it dials (or
// waits to be dialed for its counterpart socket), drives the handshake,
// wires the two directional byte pumps once both the target socket and the
// key material are ready, and tears everything down exactly once however
// it ends. Every field of one session is owned by a single goroutine; every
// outside event (a dial finishing, a timer firing, a pipe changing status)
// is delivered to that goroutine over a channel instead of mutating state
// directly, which is this package's realization of "callbacks run serially
// on the thread that owns the connection".
package session

import (
	"context"
	"net"
	"time"

	addr "github.com/sabouaram/relay/address"
	"github.com/sabouaram/relay/handshake"
	"github.com/sabouaram/relay/pipe"
	"github.com/sabouaram/relay/sched"
	"github.com/sabouaram/relay/transport"
)

// Reason names why a session dropped. It is the only information handed to
// the on-dead callback; the session carries no finer-grained diagnostic.
type Reason int

const (
	ReasonConnectFailed Reason = iota
	ReasonHandshakeFailed
	ReasonClosed
	ReasonError
)

func (r Reason) String() string {
	switch r {
	case ReasonConnectFailed:
		return "connect failed"
	case ReasonHandshakeFailed:
		return "handshake failed"
	case ReasonClosed:
		return "closed"
	case ReasonError:
		return "error"
	default:
		return "unknown"
	}
}

// OnDeadFunc is invoked exactly once, from inside drop, as the session's
// last action before it releases everything. Its return value is threaded
// back out as the session's result code (the listener uses it as an exit
// status / metrics label).
type OnDeadFunc func(cookie any, reason Reason) int

// OnPhaseDoneFunc is invoked exactly once, the moment a session leaves the
// connect+handshake phase — whether it got there by launching its pipes or
// by dropping before it could. The listener uses this to free a session's
// concurrency-limiting slot as soon as the expensive part of setup is over,
// instead of holding it for the connection's entire lifetime.
type OnPhaseDoneFunc func(cookie any)

// Deps collects every collaborator a session needs so tests can supply
// fakes instead of dialing real sockets, running the real protocol, or
// waiting on real timers.
type Deps struct {
	Dialer     transport.Dialer
	Handshaker handshake.Handshaker
	Pipes      pipe.Launcher
	Scheduler  sched.Scheduler
}

// Config is everything create() needs to know about one connection.
type Config struct {
	// Conn is the already-accepted socket (s). It is always valid.
	Conn net.Conn

	// Targets is the candidate address list the dialer tries in order to
	// obtain the other socket (t).
	Targets addr.List

	// BindAddr, if non-nil, is the local address the dialer binds before
	// connecting.
	BindAddr *addr.Address

	// Decr is true when this session's s side carries ciphertext and its
	// t side (once dialed) carries plaintext — the decrypting relay
	// instance. When false this session is the encrypting instance: the
	// handshake runs on t instead of s, and the pipe crypto directions
	// invert accordingly.
	Decr bool

	NoPFS       bool
	RequirePFS  bool
	NoKeepalive bool

	// Secret is the pre-shared key both peers authenticate the handshake
	// with.
	Secret [32]byte

	// Timeout bounds both the dial and the handshake.
	Timeout time.Duration

	OnDead      OnDeadFunc
	OnPhaseDone OnPhaseDoneFunc
	Cookie      any
}

// Session is the handle returned by New. Callers observe its outcome
// through Done/Reason/Result; they never reach into its internals.
type Session struct {
	st *state
}

// New allocates and starts a session exactly as create() is specified:
// it registers the dial timer, issues a non-blocking dial, and — when
// cfg.Decr is set — starts the handshake on cfg.Conn immediately, in
// parallel with the still-pending dial. A setup failure (only possible
// when Targets is empty) returns before anything is allocated and never
// invokes cfg.OnDead.
func New(ctx context.Context, deps Deps, cfg Config) (*Session, error) {
	return newSession(ctx, deps, cfg)
}

// Done is closed once the session has fully dropped.
func (s *Session) Done() <-chan struct{} {
	return s.st.done
}

// Reason reports why the session dropped. It is only meaningful after
// Done is closed.
func (s *Session) Reason() Reason {
	return s.st.reason
}

// Result is the value cfg.OnDead returned, or 0 if OnDead is nil. It is
// only meaningful after Done is closed.
func (s *Session) Result() int {
	return s.st.dropResult
}
