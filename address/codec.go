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

package address

import (
	"encoding/binary"

	liberr "github.com/sabouaram/relay/errors"
)

// headerLen is family (1 byte) + socket type (1 byte) + name length
// (4 bytes, native host width collapsed to a fixed 32-bit field since this
// format is only ever exchanged between processes on the same build).
const headerLen = 1 + 1 + 4

// Serialize produces a length-prefixed concatenation of the three fields:
// family : socket_type : name_length : name_bytes. Family and socket type
// take one byte each and the name length is a fixed 32-bit field; the format is intentionally host-process-local (used
// only for intra-host handoff, e.g. passing a dialed target between a
// listener and its session), never as a network wire format.
func Serialize(a Address) []byte {
	buf := make([]byte, headerLen+len(a.name))
	buf[0] = byte(a.family)
	buf[1] = byte(a.stype)
	binary.BigEndian.PutUint32(buf[2:6], uint32(len(a.name)))
	copy(buf[6:], a.name)
	return buf
}

// Deserialize is the inverse of Serialize. It rejects any buffer shorter
// than the fixed header, and rejects any buffer whose declared name length
// does not exactly consume the remainder.
func Deserialize(buf []byte) (Address, liberr.Error) {
	if len(buf) < headerLen {
		return Address{}, ErrorShortBuffer.Error()
	}

	n := binary.BigEndian.Uint32(buf[2:6])
	rest := buf[headerLen:]

	if uint32(len(rest)) != n {
		return Address{}, ErrorLengthMismatch.Error()
	}

	return New(Family(buf[0]), SockType(buf[1]), rest), nil
}
