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

package config

import (
	"fmt"
	"net"
	"strings"

	addr "github.com/sabouaram/relay/address"
)

// ParseAddress turns a "host:port", "[ipv6]:port", or "/path.sock" string
// into an address.Address, inferring the family the way relayd's flags
// accept it: a leading "/" means a UNIX socket, otherwise the host half of
// a successful net.SplitHostPort decides IPv4 vs IPv6.
func ParseAddress(s string) (addr.Address, error) {
	if strings.HasPrefix(s, "/") {
		return addr.New(addr.FamilyUnix, addr.SockTypeStream, []byte(s)), nil
	}

	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return addr.Address{}, fmt.Errorf("config: invalid address %q: %w", s, err)
	}

	family := addr.FamilyIPv4
	if strings.Contains(host, ":") {
		family = addr.FamilyIPv6
	}

	return addr.New(family, addr.SockTypeStream, []byte(s)), nil
}

// ParseTargets parses every entry in ss with ParseAddress.
func ParseTargets(ss []string) (addr.List, error) {
	list := make(addr.List, 0, len(ss))

	for _, s := range ss {
		a, err := ParseAddress(s)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}

	return list, nil
}
