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

// Package transport implements the non-blocking dial primitive the
// orchestrator consumes as its networker contract: try an address list, in
// order, cancellable via context, until one succeeds.
package transport

import (
	"context"
	"net"

	addr "github.com/sabouaram/relay/address"
)

// Dialer tries an address list in order, stopping at the first success.
type Dialer interface {
	Dial(ctx context.Context, list addr.List, bind *addr.Address) (net.Conn, error)
}

// New returns a Dialer built on net.Dialer. A non-blocking TCP/UNIX dial
// primitive has no idiomatic third-party substitute in the dependency
// surface this relay draws from — net.Dialer with a context is already the
// cancellable, non-blocking primitive the orchestrator needs.
func New() Dialer {
	return dialer{}
}

type dialer struct{}

func (dialer) Dial(ctx context.Context, list addr.List, bind *addr.Address) (net.Conn, error) {
	if len(list) == 0 {
		return nil, ErrorEmptyList.Error()
	}

	d := &net.Dialer{}
	if bind != nil && !bind.IsZero() {
		if la, err := net.ResolveTCPAddr(network(bind.Family()), bind.NameString()); err == nil {
			d.LocalAddr = la
		}
	}

	var lastErr error

	for _, a := range list {
		conn, err := d.DialContext(ctx, network(a.Family()), a.NameString())
		if err == nil {
			return conn, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	return nil, ErrorAllFailed.Error(lastErr)
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
