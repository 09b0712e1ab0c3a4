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

package session

import (
	"context"
	"net"

	addr "github.com/sabouaram/relay/address"
	"github.com/sabouaram/relay/handshake"
	"github.com/sabouaram/relay/pipe"
	"github.com/sabouaram/relay/sched"
)

// pipeSide distinguishes the two directional pumps in status events.
type pipeSide int

const (
	sideForward pipeSide = iota
	sideReverse
)

type event interface{}

type evConnectDone struct {
	conn net.Conn
	err  error
}

type evConnectTimeout struct{}

type evHandshakeDone struct {
	km handshake.KeyMaterial
	ok bool
}

type evHandshakeTimeout struct{}

type evPipeStatus struct {
	side   pipeSide
	status pipe.Status
}

// state is the connection record. Every field is owned by the goroutine
// running loop(); nothing outside that goroutine ever reads or writes a
// field directly — external happenings are only ever delivered as events.
type state struct {
	ctx context.Context

	cfg  Config
	deps Deps

	s net.Conn
	t net.Conn

	connectCancel context.CancelFunc

	connectTimer    sched.Handle
	connectTimerSet bool

	handshakeCancel context.CancelFunc

	handshakeTimer    sched.Handle
	handshakeTimerSet bool

	km *handshake.KeyMaterial

	pipeF pipe.Handle
	pipeR pipe.Handle

	statF pipe.Status
	statR pipe.Status

	targets addr.List

	events chan event

	phaseDone  bool
	dropped    bool
	reason     Reason
	dropResult int
	done       chan struct{}
}

func newSession(ctx context.Context, deps Deps, cfg Config) (*Session, error) {
	targets := addr.CloneList(cfg.Targets)
	if len(targets) == 0 {
		return nil, ErrorSetup.Error()
	}

	st := &state{
		ctx:     ctx,
		cfg:     cfg,
		deps:    deps,
		s:       cfg.Conn,
		statF:   pipe.StatusRunning,
		statR:   pipe.StatusRunning,
		targets: targets,
		events:  make(chan event, 16),
		done:    make(chan struct{}),
	}

	dialCtx, dialCancel := context.WithCancel(ctx)
	st.connectCancel = dialCancel

	st.connectTimer = st.deps.Scheduler.RegisterTimer(st.cfg.Timeout, func() {
		st.send(evConnectTimeout{})
	})
	st.connectTimerSet = true

	go func() {
		conn, err := st.deps.Dialer.Dial(dialCtx, st.targets, st.cfg.BindAddr)
		st.send(evConnectDone{conn: conn, err: err})
	}()

	if cfg.Decr {
		st.startHandshake(st.s)
	}

	go st.loop()

	return &Session{st: st}, nil
}

func (st *state) send(ev event) {
	select {
	case st.events <- ev:
	default:
	}
}

func (st *state) loop() {
	for {
		ev := <-st.events

		switch e := ev.(type) {
		case evConnectDone:
			st.onConnectDone(e.conn, e.err)
		case evConnectTimeout:
			st.onConnectTimeout()
		case evHandshakeDone:
			st.onHandshakeDone(e.km, e.ok)
		case evHandshakeTimeout:
			st.onHandshakeTimeout()
		case evPipeStatus:
			st.onPipeStatus(e.side, e.status)
		}

		if st.dropped {
			return
		}
	}
}

func (st *state) startHandshake(conn net.Conn) {
	hctx, hcancel := context.WithCancel(st.ctx)
	st.handshakeCancel = hcancel

	st.handshakeTimer = st.deps.Scheduler.RegisterTimer(st.cfg.Timeout, func() {
		st.send(evHandshakeTimeout{})
	})
	st.handshakeTimerSet = true

	go func() {
		km, ok := st.deps.Handshaker.Handshake(hctx, conn, st.cfg.Decr, st.cfg.NoPFS, st.cfg.RequirePFS, st.cfg.Secret)
		st.send(evHandshakeDone{km: km, ok: ok})
	}()
}

func (st *state) onConnectDone(conn net.Conn, err error) {
	st.connectCancel = nil
	st.targets = nil

	if st.connectTimerSet {
		st.deps.Scheduler.CancelTimer(st.connectTimer)
		st.connectTimerSet = false
	}

	if err != nil {
		st.drop(ReasonConnectFailed)
		return
	}

	st.t = conn

	if !st.cfg.Decr {
		st.startHandshake(conn)
	}

	if st.km != nil {
		st.launchPipes()
	}
}

func (st *state) onConnectTimeout() {
	st.connectTimerSet = false
	st.drop(ReasonError)
}

func (st *state) onHandshakeDone(km handshake.KeyMaterial, ok bool) {
	st.handshakeCancel = nil

	if st.handshakeTimerSet {
		st.deps.Scheduler.CancelTimer(st.handshakeTimer)
		st.handshakeTimerSet = false
	}

	if !ok {
		st.drop(ReasonHandshakeFailed)
		return
	}

	kmCopy := km
	st.km = &kmCopy

	if st.t != nil {
		st.launchPipes()
	}
}

func (st *state) onHandshakeTimeout() {
	st.handshakeTimerSet = false
	st.drop(ReasonError)
}

// markPhaseDone fires OnPhaseDone the first time the session leaves the
// connect+handshake phase, however it got there.
func (st *state) markPhaseDone() {
	if st.phaseDone {
		return
	}
	st.phaseDone = true

	if st.cfg.OnPhaseDone != nil {
		st.cfg.OnPhaseDone(st.cfg.Cookie)
	}
}

func (st *state) launchPipes() {
	st.markPhaseDone()

	if !st.cfg.NoKeepalive {
		setKeepalive(st.s)
		setKeepalive(st.t)
	}
	setNoDelay(st.s)
	setNoDelay(st.t)

	st.pipeF = st.deps.Pipes.Launch(st.ctx, st.s, st.t, st.km.Forward, st.km.ForwardNonce, st.cfg.Decr, func(status pipe.Status) {
		st.send(evPipeStatus{side: sideForward, status: status})
	})
	st.pipeR = st.deps.Pipes.Launch(st.ctx, st.t, st.s, st.km.Reverse, st.km.ReverseNonce, !st.cfg.Decr, func(status pipe.Status) {
		st.send(evPipeStatus{side: sideReverse, status: status})
	})
}

// onPipeStatus applies the status-callback policy: any pipe reporting
// Error drops the session as Error; both pipes reporting Closed drops it
// as a clean Closed; any other combination is a no-op.
func (st *state) onPipeStatus(side pipeSide, status pipe.Status) {
	if side == sideForward {
		st.statF = status
	} else {
		st.statR = status
	}

	if st.statF == pipe.StatusError || st.statR == pipe.StatusError {
		st.drop(ReasonError)
		return
	}

	if st.statF == pipe.StatusClosed && st.statR == pipe.StatusClosed {
		st.drop(ReasonClosed)
	}
}

// drop is the single teardown point. It runs its eleven steps exactly
// once per session; a second call (from an event racing the first drop
// before loop() observes st.dropped) is a no-op.
func (st *state) drop(reason Reason) int {
	if st.dropped {
		return st.dropResult
	}
	st.dropped = true
	st.markPhaseDone()

	_ = st.s.Close()
	if st.t != nil {
		_ = st.t.Close()
	}

	if st.connectCancel != nil {
		st.connectCancel()
		st.connectCancel = nil
	}

	st.targets = nil

	if st.handshakeCancel != nil {
		st.handshakeCancel()
		st.handshakeCancel = nil
	}

	if st.connectTimerSet {
		st.deps.Scheduler.CancelTimer(st.connectTimer)
		st.connectTimerSet = false
	}
	if st.handshakeTimerSet {
		st.deps.Scheduler.CancelTimer(st.handshakeTimer)
		st.handshakeTimerSet = false
	}

	st.km = nil

	if st.pipeF != nil {
		st.pipeF.Cancel()
	}
	if st.pipeR != nil {
		st.pipeR.Cancel()
	}

	code := 0
	if st.cfg.OnDead != nil {
		code = st.cfg.OnDead(st.cfg.Cookie, reason)
	}

	st.reason = reason
	st.dropResult = code
	close(st.done)

	return code
}

// keepAliver and noDelayer let setKeepalive/setNoDelay reach either a raw
// *net.TCPConn or anything wrapping one (the listener's byte-counting
// connection, for instance) without session needing to know about wrappers.
type keepAliver interface {
	SetKeepAlive(bool) error
}

type noDelayer interface {
	SetNoDelay(bool) error
}

func setKeepalive(c net.Conn) {
	if ka, ok := c.(keepAliver); ok {
		_ = ka.SetKeepAlive(true)
	}
}

func setNoDelay(c net.Conn) {
	if nd, ok := c.(noDelayer); ok {
		_ = nd.SetNoDelay(true)
	}
}
