/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

package crypt

import "encoding/binary"

// DeriveNonce derives the per-packet nonce used by the pipe pump from a
// session base nonce and a monotonically increasing packet sequence number.
//
// A single fixed nonce per AEAD instance is only safe for a single Seal/Open
// call; a connection's pipe applies the same key across many packets, so
// each packet needs a distinct nonce under that key. The last 8 bytes of
// the 12-byte base nonce are XORed with the big-endian sequence number,
// keeping the first 4 bytes (the per-session salt) untouched.
func DeriveNonce(base [12]byte, seq uint64) [12]byte {
	var (
		out [12]byte
		ctr [8]byte
	)

	binary.BigEndian.PutUint64(ctr[:], seq)
	copy(out[:4], base[:4])

	for i := 0; i < 8; i++ {
		out[4+i] = base[4+i] ^ ctr[i]
	}

	return out
}
