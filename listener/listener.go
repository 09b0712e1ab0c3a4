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

package listener

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	addr "github.com/sabouaram/relay/address"
	"github.com/sabouaram/relay/runner/startStop"
	"github.com/sabouaram/relay/semaphore"
	"github.com/sabouaram/relay/session"
)

// New builds a Listener bound to cfg.Bind. It does not start accepting
// connections until Start is called.
func New(deps Deps, cfg Config) (Listener, error) {
	if cfg.Bind.IsZero() {
		return nil, ErrorInvalidInstance.Error()
	}

	l := &listener{
		deps: deps,
		cfg:  cfg,
		sem:  semaphore.New(cfg.MaxHandshakes),
	}
	l.gone.Store(true)
	l.run = startStop.New(l.acceptLoop, l.closeListener)

	return l, nil
}

type listener struct {
	deps Deps
	cfg  Config
	sem  semaphore.Semaphore
	run  startStop.Runner

	mu sync.RWMutex
	ln net.Listener

	gone atomic.Bool
	open atomic.Int64
}

func (l *listener) Start(ctx context.Context) error   { return l.run.Start(ctx) }
func (l *listener) Stop(ctx context.Context) error    { return l.run.Stop(ctx) }
func (l *listener) Restart(ctx context.Context) error { return l.run.Restart(ctx) }
func (l *listener) IsRunning() bool                   { return l.run.IsRunning() }
func (l *listener) IsGone() bool                      { return l.gone.Load() }
func (l *listener) OpenConnections() int64            { return l.open.Load() }

func (l *listener) acceptLoop(ctx context.Context) error {
	ln, err := net.Listen(network(l.cfg.Bind.Family()), l.cfg.Bind.NameString())
	if err != nil {
		return ErrorListen.Error(err)
	}

	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()
	l.gone.Store(false)

	defer func() {
		l.mu.Lock()
		l.ln = nil
		l.mu.Unlock()
		l.gone.Store(true)
	}()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		go l.spawn(ctx, conn)
	}
}

func (l *listener) closeListener(context.Context) error {
	l.mu.RLock()
	ln := l.ln
	l.mu.RUnlock()

	if ln == nil {
		return nil
	}
	return ln.Close()
}

// spawn bounds the dial+handshake phase with the semaphore, then hands the
// accepted socket to a session. The semaphore slot is released as soon as
// the session reports it has left that phase, not when the session itself
// eventually drops: the pipes that follow run unbounded.
func (l *listener) spawn(ctx context.Context, conn net.Conn) {
	if err := l.sem.Acquire(ctx); err != nil {
		_ = conn.Close()
		return
	}

	var released atomic.Bool
	release := func() {
		if released.CompareAndSwap(false, true) {
			l.sem.Release()
		}
	}

	l.open.Add(1)

	cc := &countConn{Conn: conn}

	if l.cfg.Metrics != nil {
		l.cfg.Metrics.Accepted()
	}

	cfg := session.Config{
		Conn:        cc,
		Targets:     l.cfg.Targets,
		BindAddr:    l.cfg.TargetBind,
		Decr:        l.cfg.Decr,
		NoPFS:       l.cfg.NoPFS,
		RequirePFS:  l.cfg.RequirePFS,
		NoKeepalive: l.cfg.NoKeepalive,
		Secret:      l.cfg.Secret,
		Timeout:     l.cfg.Timeout,
		OnPhaseDone: func(any) {
			release()
		},
		OnDead: func(_ any, reason session.Reason) int {
			l.open.Add(-1)
			if l.cfg.Metrics != nil {
				l.cfg.Metrics.Closed(reason.String())
				l.cfg.Metrics.AddBytes("forward", cc.read.Load())
				l.cfg.Metrics.AddBytes("reverse", cc.written.Load())
			}
			if l.cfg.OnSessionDone != nil {
				l.cfg.OnSessionDone(reason, 0, cc.read.Load(), cc.written.Load())
			}
			return 0
		},
	}

	deps := session.Deps{
		Dialer:     l.deps.Dialer,
		Handshaker: l.deps.Handshaker,
		Pipes:      l.deps.Pipes,
		Scheduler:  l.deps.Scheduler,
	}

	if _, err := session.New(ctx, deps, cfg); err != nil {
		release()
		l.open.Add(-1)
		if l.cfg.Metrics != nil {
			l.cfg.Metrics.Closed(session.ReasonError.String())
		}
		_ = conn.Close()
	}
}

// countConn tallies bytes read from and written to an accepted socket, so
// the listener can report relayed totals without the pipe package having
// to know anything about metrics.
type countConn struct {
	net.Conn
	read    atomic.Int64
	written atomic.Int64
}

func (c *countConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	c.read.Add(int64(n))
	return n, err
}

func (c *countConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	c.written.Add(int64(n))
	return n, err
}

// SetKeepAlive and SetNoDelay forward to the wrapped *net.TCPConn so
// session's keepalive/no-delay tuning still reaches the real socket through
// the byte-counting wrapper.
func (c *countConn) SetKeepAlive(b bool) error {
	if tc, ok := c.Conn.(*net.TCPConn); ok {
		return tc.SetKeepAlive(b)
	}
	return nil
}

func (c *countConn) SetNoDelay(b bool) error {
	if tc, ok := c.Conn.(*net.TCPConn); ok {
		return tc.SetNoDelay(b)
	}
	return nil
}

func network(f addr.Family) string {
	switch f {
	case addr.FamilyUnix:
		return "unix"
	case addr.FamilyIPv6:
		return "tcp6"
	default:
		return "tcp"
	}
}
