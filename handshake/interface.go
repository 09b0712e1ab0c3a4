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

// Package handshake implements the authenticated key-exchange protocol the
// orchestrator drives as its handshake primitive: a shared-secret MAC
// authenticates both peers, an optional ephemeral X25519 exchange layers in
// forward secrecy, and HKDF-SHA256 derives the two directional key/nonce
// pairs the pipe pump uses.
//
// On any failure — protocol rejection, malformed peer message, or a
// transport error while reading/writing the exchange — Handshake reports
// ok=false, matching the external contract's "(k_forward, k_reverse) or
// (null, null) on protocol failure": the orchestrator never distinguishes
// between the two at the handshake-driver boundary.
package handshake

import (
	"context"
	"net"
)

// KeyMaterial carries the two directional key+nonce pairs a successful
// handshake derives. Both peers of one connection compute identical
// KeyMaterial: Forward/ForwardNonce is the key pipe_f's crypto direction
// uses on both ends, Reverse/ReverseNonce is pipe_r's.
type KeyMaterial struct {
	Forward      [32]byte
	ForwardNonce [12]byte
	Reverse      [32]byte
	ReverseNonce [12]byte
}

// Handshaker drives the handshake on one already-connected socket.
type Handshaker interface {
	// Handshake runs the protocol to completion or until ctx is done. ok
	// is false for every failure mode (protocol rejection, requirepfs
	// violation, malformed peer data, transport error, or context
	// cancellation) — the caller does not need, and the protocol does
	// not expose, a finer-grained reason.
	Handshake(ctx context.Context, conn net.Conn, decr, nopfs, requirepfs bool, secret [32]byte) (km KeyMaterial, ok bool)
}

// New returns a Handshaker implementing the wire protocol described in the
// package doc.
func New() Handshaker {
	return protocol{}
}
