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
	"fmt"
	"net"
	"strings"
)

// Pretty renders a human-readable form of a:
//   - "/path/to/socket" for UNIX,
//   - "[dotted.quad]:port" for IPv4,
//   - "[colon:hex::form]:port" for IPv6,
//   - the literal "Unknown address" otherwise.
func Pretty(a Address) string {
	switch a.family {
	case FamilyUnix:
		return a.NameString()

	case FamilyIPv4, FamilyIPv6:
		host, port, err := net.SplitHostPort(a.NameString())
		if err != nil {
			return "Unknown address"
		}
		return fmt.Sprintf("[%s]:%s", host, port)

	default:
		return "Unknown address"
	}
}

// EnsurePort applies a purely lexical normalization so a bare host string
// always carries an explicit port, matching whatever the downstream
// resolver will accept without attempting to parse or validate it:
//
//   - leading '/' => UNIX path, returned verbatim
//   - no ':' => bare IPv4 host, ":0" appended
//   - exactly one ':' => IPv4 "host:port", returned verbatim
//   - two or more ':' => IPv6: no ']' appends "[…]:0"; ']' as last
//     character appends ":0"; otherwise returned verbatim
func EnsurePort(text string) string {
	if strings.HasPrefix(text, "/") {
		return text
	}

	n := strings.Count(text, ":")

	switch {
	case n == 0:
		return text + ":0"
	case n == 1:
		return text
	default:
		if !strings.Contains(text, "]") {
			return "[" + text + "]:0"
		}
		if strings.HasSuffix(text, "]") {
			return text + ":0"
		}
		return text
	}
}
