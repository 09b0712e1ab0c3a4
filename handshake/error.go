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

package handshake

import (
	liberr "github.com/sabouaram/relay/errors"
)

const (
	ErrorIncompatibleVersion liberr.CodeError = iota + liberr.MinPkgHandshake
	ErrorPFSRequired
	ErrorAuthFailed
	ErrorTransport
	ErrorMalformedHello
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorIncompatibleVersion)
	liberr.RegisterIdFctMessage(ErrorIncompatibleVersion, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorIncompatibleVersion:
		return "peer protocol version is incompatible"
	case ErrorPFSRequired:
		return "peer declined forward secrecy but this side requires it"
	case ErrorAuthFailed:
		return "peer authentication tag did not verify"
	case ErrorTransport:
		return "transport error during handshake exchange"
	case ErrorMalformedHello:
		return "malformed handshake hello message"
	}

	return ""
}
