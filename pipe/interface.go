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

// Package pipe pumps bytes from one socket to another through the AEAD
// engine in crypt, in exactly one direction per call to Launch. One
// direction decrypts fixed-framed ciphertext off its source and writes raw
// plaintext to its destination; the other reads raw plaintext off its
// source and writes framed ciphertext to its destination. Each packet gets
// its own nonce, derived from the direction's base nonce and a sequence
// counter both ends keep in lockstep — the teacher's single static nonce
// per key is not reused here.
package pipe

import (
	"context"
	"net"
)

// Status mirrors the three pipe states a status callback reports: Running
// while bytes are still flowing, Closed once the source reached a clean
// EOF, Error on any read, write, or cryptographic failure.
type Status int

const (
	StatusError   Status = -1
	StatusClosed  Status = 0
	StatusRunning Status = 1
)

// StatusFunc receives Running once when the pump starts, then exactly one
// terminal status (Closed or Error) when it stops.
type StatusFunc func(Status)

// Handle cancels a running pump. Cancel is idempotent and does not wait
// for the pump goroutine to exit.
type Handle interface {
	Cancel()
}

// Launcher starts one directional byte pump.
type Launcher interface {
	// Launch reads from src and writes to dst. When decrypt is true, src
	// carries length-framed ciphertext and dst receives raw plaintext;
	// when false, src carries raw plaintext and dst receives
	// length-framed ciphertext. key and nonce are the direction's
	// derived key material.
	Launch(ctx context.Context, src, dst net.Conn, key [32]byte, nonce [12]byte, decrypt bool, onStatus StatusFunc) Handle
}

// New returns a Launcher backed by the crypt package's AES-256-GCM engine.
func New() Launcher {
	return launcher{}
}
