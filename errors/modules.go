/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

const (
	MinPkgConfig     = 500
	MinPkgCrypt      = 900
	MinPkgHttpServer = 1300
	MinPkgIOUtils    = 1400
	MinPkgLogger     = 1600
	MinPkgSemaphore  = 2900

	// MinPkgAddress is the base error-code offset for the socket-address
	// value & codec package (C1).
	MinPkgAddress = 4000
	// MinPkgTransport is the base error-code offset for the non-blocking
	// dial primitive (C6).
	MinPkgTransport = 4100
	// MinPkgHandshake is the base error-code offset for the authenticated
	// key-exchange protocol (C3's external half).
	MinPkgHandshake = 4200
	// MinPkgPipe is the base error-code offset for the encrypted byte-pump
	// primitive (C4's external half).
	MinPkgPipe = 4300
	// MinPkgSched is the base error-code offset for the timer/event
	// service (C7).
	MinPkgSched = 4400
	// MinPkgSession is the base error-code offset for the per-connection
	// lifecycle engine (C2, C3's driver half, C5).
	MinPkgSession = 4500
	// MinPkgListener is the base error-code offset for the process-level
	// listener (C8).
	MinPkgListener = 4600
	// MinPkgAdmin is the base error-code offset for the admin HTTP surface.
	MinPkgAdmin = 4700

	MinAvailable = 4800

	// MIN_AVAILABLE @Deprecated use MinAvailable constant
	MIN_AVAILABLE = MinAvailable
)
